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

var _ repository.SessionRepository = (*SessionRepo)(nil)

const sessionColumns = `id, user_id, name, email, phone, role, estabelecimento_id,
	is_active, access_token, refresh_token, created_at, expires_at`

// SessionRepo implementação do porto SessionRepository sobre PostgreSQL.
// Identidade e par de tokens na mesma linha: o upsert grava tudo de uma vez
// e o delete apaga tudo de uma vez.
type SessionRepo struct {
	pool *pgxpool.Pool
}

// NewSessionRepository constrói o adaptador de persistência para sessões.
func NewSessionRepository(pool *pgxpool.Pool) *SessionRepo {
	return &SessionRepo{pool: pool}
}

// Save grava (ou sobrescreve) a sessão inteira.
func (r *SessionRepo) Save(ctx context.Context, s *entity.Session) error {
	query := `
		INSERT INTO sessions (` + sessionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			user_id = EXCLUDED.user_id, name = EXCLUDED.name, email = EXCLUDED.email,
			phone = EXCLUDED.phone, role = EXCLUDED.role,
			estabelecimento_id = EXCLUDED.estabelecimento_id, is_active = EXCLUDED.is_active,
			access_token = EXCLUDED.access_token, refresh_token = EXCLUDED.refresh_token,
			expires_at = EXCLUDED.expires_at`
	_, err := r.pool.Exec(ctx, query,
		s.ID, s.UserID, s.Name, s.Email, s.Phone, s.Role, s.EstabelecimentoID,
		s.IsActive, s.AccessToken, s.RefreshToken, s.CreatedAt, s.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// GetByID obtém a sessão por ID; (nil, nil) quando não existe.
func (r *SessionRepo) GetByID(ctx context.Context, id string) (*entity.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1`
	var s entity.Session
	var estabID *string
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.UserID, &s.Name, &s.Email, &s.Phone, &s.Role, &estabID,
		&s.IsActive, &s.AccessToken, &s.RefreshToken, &s.CreatedAt, &s.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	if estabID != nil {
		s.EstabelecimentoID = *estabID
	}
	return &s, nil
}

// UpdateAccessToken troca apenas o access token (refresh sem rotação).
func (r *SessionRepo) UpdateAccessToken(ctx context.Context, id, accessToken string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE sessions SET access_token = $2 WHERE id = $1`, id, accessToken)
	if err != nil {
		return fmt.Errorf("update session token: %w", err)
	}
	return nil
}

// Delete remove a sessão inteira (identidade + tokens).
func (r *SessionRepo) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteByUser remove todas as sessões de um usuário.
func (r *SessionRepo) DeleteByUser(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete user sessions: %w", err)
	}
	return nil
}
