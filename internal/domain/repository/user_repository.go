package repository

import (
	"context"

	"github.com/tu-usuario/salao-pro/internal/domain/entity"
)

// UserRepository define o porto de persistência para User (DIP).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByPhone(ctx context.Context, phone string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	List(ctx context.Context, limit, offset int) ([]*entity.User, error)
	ListByEstabelecimento(ctx context.Context, estabID string, limit, offset int) ([]*entity.User, error)
	Delete(ctx context.Context, id string) error
}
