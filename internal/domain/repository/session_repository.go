package repository

import (
	"context"

	"github.com/tu-usuario/salao-pro/internal/domain/entity"
)

// SessionRepository porto de persistência das sessões. Identidade e par de
// tokens vivem na mesma linha: são gravados e apagados juntos, nunca fica
// token sem identidade nem identidade sem token.
type SessionRepository interface {
	Save(ctx context.Context, s *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	UpdateAccessToken(ctx context.Context, id, accessToken string) error
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID string) error
}
