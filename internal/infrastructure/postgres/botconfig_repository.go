package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tu-usuario/salao-pro/internal/domain/entity"
	"github.com/tu-usuario/salao-pro/internal/domain/repository"
)

var _ repository.BotConfigRepository = (*BotConfigRepo)(nil)

// BotConfigRepo persiste a configuração do bot como documento JSONB por
// owner. O documento gravado é sempre o canônico; a fusão com padrões fica
// no caso de uso.
type BotConfigRepo struct {
	pool *pgxpool.Pool
}

// NewBotConfigRepository constrói o adaptador de persistência da configuração do bot.
func NewBotConfigRepository(pool *pgxpool.Pool) *BotConfigRepo {
	return &BotConfigRepo{pool: pool}
}

// Get obtém o documento bruto de um owner; (nil, nil) quando nunca foi salvo.
func (r *BotConfigRepo) Get(ctx context.Context, owner string) (*repository.StoredBotConfig, error) {
	query := `SELECT owner, document, updated_at FROM bot_configs WHERE owner = $1`
	var stored repository.StoredBotConfig
	err := r.pool.QueryRow(ctx, query, owner).Scan(&stored.Owner, &stored.Document, &stored.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get bot config: %w", err)
	}
	return &stored, nil
}

// Save grava o documento canônico (upsert) e devolve a cópia persistida com
// o updated_at atribuído pelo servidor.
func (r *BotConfigRepo) Save(ctx context.Context, cfg *entity.BotConfig) (*repository.StoredBotConfig, error) {
	doc, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshal bot config: %w", err)
	}
	query := `
		INSERT INTO bot_configs (owner, document, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (owner) DO UPDATE SET document = EXCLUDED.document, updated_at = now()
		RETURNING owner, document, updated_at`
	var stored repository.StoredBotConfig
	err = r.pool.QueryRow(ctx, query, cfg.Owner, doc).Scan(&stored.Owner, &stored.Document, &stored.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("save bot config: %w", err)
	}
	return &stored, nil
}
