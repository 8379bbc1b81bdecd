package repository

import (
	"context"

	"github.com/tu-usuario/salao-pro/internal/domain/entity"
)

// EstabelecimentoRepository porto de persistência para Estabelecimento.
type EstabelecimentoRepository interface {
	Create(ctx context.Context, e *entity.Estabelecimento) error
	GetByID(ctx context.Context, id string) (*entity.Estabelecimento, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Estabelecimento, error)
	Update(ctx context.Context, e *entity.Estabelecimento) error
}
