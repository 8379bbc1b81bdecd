package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tu-usuario/salao-pro/internal/domain/entity"
	"github.com/tu-usuario/salao-pro/internal/domain/repository"
)

var (
	_ repository.PlanRepository        = (*PlanRepo)(nil)
	_ repository.TransactionRepository = (*TransactionRepo)(nil)
)

// PlanRepo leitura dos planos de assinatura. A coluna preco é NUMERIC e
// chega como shopspring/decimal via codec do pool.
type PlanRepo struct {
	pool *pgxpool.Pool
}

// NewPlanRepository constrói o adaptador de leitura dos planos.
func NewPlanRepository(pool *pgxpool.Pool) *PlanRepo {
	return &PlanRepo{pool: pool}
}

// ListActive lista os planos ativos ordenados por preço.
func (r *PlanRepo) ListActive(ctx context.Context) ([]*entity.Plan, error) {
	query := `
		SELECT id, nome, descricao, preco, recursos, is_active, created_at
		FROM plans WHERE is_active ORDER BY preco`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer rows.Close()
	var list []*entity.Plan
	for rows.Next() {
		var p entity.Plan
		if err := rows.Scan(&p.ID, &p.Nome, &p.Descricao, &p.Preco, &p.Recursos, &p.IsActive, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// GetByID obtém um plano por ID; (nil, nil) quando não existe.
func (r *PlanRepo) GetByID(ctx context.Context, id string) (*entity.Plan, error) {
	query := `
		SELECT id, nome, descricao, preco, recursos, is_active, created_at
		FROM plans WHERE id = $1`
	var p entity.Plan
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Nome, &p.Descricao, &p.Preco, &p.Recursos, &p.IsActive, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get plan: %w", err)
	}
	return &p, nil
}

// TransactionRepo leitura das cobranças de assinatura.
type TransactionRepo struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository constrói o adaptador de leitura das cobranças.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

// List lista todas as cobranças com paginação (visão da plataforma).
func (r *TransactionRepo) List(ctx context.Context, limit, offset int) ([]*entity.Transaction, error) {
	query := `
		SELECT id, estabelecimento_id, plan_id, valor, status, created_at
		FROM transactions ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return collectTransactions(rows)
}

// ListByEstabelecimento lista as cobranças de um salão com paginação.
func (r *TransactionRepo) ListByEstabelecimento(ctx context.Context, estabID string, limit, offset int) ([]*entity.Transaction, error) {
	query := `
		SELECT id, estabelecimento_id, plan_id, valor, status, created_at
		FROM transactions WHERE estabelecimento_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, estabID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return collectTransactions(rows)
}

func collectTransactions(rows pgx.Rows) ([]*entity.Transaction, error) {
	defer rows.Close()
	var list []*entity.Transaction
	for rows.Next() {
		var t entity.Transaction
		if err := rows.Scan(&t.ID, &t.EstabelecimentoID, &t.PlanID, &t.Valor, &t.Status, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}
