package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tu-usuario/salao-pro/internal/domain"
	"github.com/tu-usuario/salao-pro/internal/domain/entity"
	"github.com/tu-usuario/salao-pro/internal/domain/repository"
)

var _ repository.EstabelecimentoRepository = (*EstabelecimentoRepo)(nil)

// EstabelecimentoRepo implementação do porto EstabelecimentoRepository.
type EstabelecimentoRepo struct {
	pool *pgxpool.Pool
}

// NewEstabelecimentoRepository constrói o adaptador de persistência para salões.
func NewEstabelecimentoRepository(pool *pgxpool.Pool) *EstabelecimentoRepo {
	return &EstabelecimentoRepo{pool: pool}
}

// Create persiste um salão novo.
func (r *EstabelecimentoRepo) Create(ctx context.Context, e *entity.Estabelecimento) error {
	query := `
		INSERT INTO estabelecimentos (id, nome, telefone, whatsapp, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.pool.Exec(ctx, query,
		e.ID, e.Nome, e.Telefone, e.Whatsapp, e.IsActive, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert estabelecimento: %w", err)
	}
	return nil
}

// GetByID obtém um salão por ID; (nil, nil) quando não existe.
func (r *EstabelecimentoRepo) GetByID(ctx context.Context, id string) (*entity.Estabelecimento, error) {
	query := `
		SELECT id, nome, telefone, whatsapp, is_active, created_at, updated_at
		FROM estabelecimentos WHERE id = $1`
	var e entity.Estabelecimento
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.Nome, &e.Telefone, &e.Whatsapp, &e.IsActive, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get estabelecimento: %w", err)
	}
	return &e, nil
}

// List lista os salões com paginação.
func (r *EstabelecimentoRepo) List(ctx context.Context, limit, offset int) ([]*entity.Estabelecimento, error) {
	query := `
		SELECT id, nome, telefone, whatsapp, is_active, created_at, updated_at
		FROM estabelecimentos ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list estabelecimentos: %w", err)
	}
	defer rows.Close()
	var list []*entity.Estabelecimento
	for rows.Next() {
		var e entity.Estabelecimento
		if err := rows.Scan(&e.ID, &e.Nome, &e.Telefone, &e.Whatsapp, &e.IsActive, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan estabelecimento: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}

// Update atualiza um salão.
func (r *EstabelecimentoRepo) Update(ctx context.Context, e *entity.Estabelecimento) error {
	query := `
		UPDATE estabelecimentos SET nome = $2, telefone = $3, whatsapp = $4,
			is_active = $5, updated_at = $6
		WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, e.ID, e.Nome, e.Telefone, e.Whatsapp, e.IsActive, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update estabelecimento: %w", err)
	}
	return nil
}
