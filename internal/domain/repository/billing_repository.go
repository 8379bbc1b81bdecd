package repository

import (
	"context"

	"github.com/tu-usuario/salao-pro/internal/domain/entity"
)

// PlanRepository porto de leitura dos planos de assinatura.
type PlanRepository interface {
	ListActive(ctx context.Context) ([]*entity.Plan, error)
	GetByID(ctx context.Context, id string) (*entity.Plan, error)
}

// TransactionRepository porto de leitura das cobranças.
type TransactionRepository interface {
	ListByEstabelecimento(ctx context.Context, estabID string, limit, offset int) ([]*entity.Transaction, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Transaction, error)
}
