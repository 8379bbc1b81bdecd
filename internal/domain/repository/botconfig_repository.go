package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/tu-usuario/salao-pro/internal/domain/entity"
)

// StoredBotConfig documento bruto persistido de um owner. O documento pode
// ser parcial (campos nunca salvos ficam de fora); a fusão com os padrões é
// responsabilidade do caso de uso, não do repositório.
type StoredBotConfig struct {
	Owner     string
	Document  json.RawMessage
	UpdatedAt time.Time
}

// BotConfigRepository porto de persistência da configuração do bot.
type BotConfigRepository interface {
	Get(ctx context.Context, owner string) (*StoredBotConfig, error)
	// Save grava o documento canônico e devolve a cópia persistida
	// (com updated_at atribuído pelo servidor).
	Save(ctx context.Context, cfg *entity.BotConfig) (*StoredBotConfig, error)
}
