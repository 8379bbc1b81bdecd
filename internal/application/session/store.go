package session

import (
	"context"
	"time"

	"github.com/tu-usuario/salao-pro/internal/domain"
	"github.com/tu-usuario/salao-pro/internal/domain/entity"
	"github.com/tu-usuario/salao-pro/internal/domain/repository"
	"github.com/tu-usuario/salao-pro/pkg/logger"
)

// Store é o dono exclusivo das sessões: cria no login, restaura a cada
// requisição autenticada e limpa no logout ou na expiração. Identidade e
// par de tokens são gravados e removidos sempre juntos (uma linha).
type Store struct {
	repo repository.SessionRepository
	log  *logger.Logger
	now  func() time.Time
}

// NewStore constrói o store de sessões.
func NewStore(repo repository.SessionRepository, log *logger.Logger) *Store {
	return &Store{repo: repo, log: log, now: time.Now}
}

// Persist grava uma sessão recém-criada.
func (s *Store) Persist(ctx context.Context, sess *entity.Session) error {
	if sess == nil || !sess.IdentityValid() {
		return domain.ErrInvalidInput
	}
	return s.repo.Save(ctx, sess)
}

// Restore carrega a sessão pelo ID. Sem chamada de rede além da storage:
// a validade do token perante o backend só aparece na primeira requisição
// autenticada.
//
//   - sessão inexistente → (nil, nil): deslogado
//   - identidade corrompida (escrita parcial) → limpa a linha e (nil, nil)
//   - sessão expirada → limpa a linha e ErrSessionExpired
func (s *Store) Restore(ctx context.Context, id string) (*entity.Session, error) {
	if id == "" {
		return nil, nil
	}
	sess, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, nil
	}
	if !sess.IdentityValid() {
		s.log.Warn().Str("session_id", id).Msg("sessão com identidade corrompida, descartando")
		s.Clear(ctx, id)
		return nil, nil
	}
	if sess.Expired(s.now()) {
		s.Clear(ctx, id)
		return nil, domain.ErrSessionExpired
	}
	return sess, nil
}

// UpdateAccessToken troca apenas o access token da sessão (refresh).
func (s *Store) UpdateAccessToken(ctx context.Context, id, accessToken string) error {
	return s.repo.UpdateAccessToken(ctx, id, accessToken)
}

// Clear remove a sessão incondicionalmente. Nunca falha para cima: uma
// limpeza que não conseguiu apagar só é registrada no log.
func (s *Store) Clear(ctx context.Context, id string) {
	if id == "" {
		return
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.log.Error().Err(err).Str("session_id", id).Msg("falha ao limpar sessão")
	}
}

// ClearUser remove todas as sessões de um usuário (troca de senha, bloqueio).
func (s *Store) ClearUser(ctx context.Context, userID string) {
	if err := s.repo.DeleteByUser(ctx, userID); err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("falha ao limpar sessões do usuário")
	}
}

// IsAuthenticated deriva o estado de autenticação: sessão presente e íntegra.
func (s *Store) IsAuthenticated(sess *entity.Session) bool {
	return sess != nil && sess.IdentityValid()
}
