package entity

import (
	"time"

	"github.com/tu-usuario/salao-pro/internal/domain"
)

// Session é a fonte única de verdade de "quem está logado": identidade
// decodificada + par de tokens, persistidos e removidos sempre juntos.
// Só o Session Store muta uma sessão; nenhum outro componente escreve nela.
type Session struct {
	ID                string
	UserID            string
	Name              string
	Email             string
	Phone             string
	Role              string
	EstabelecimentoID string // vazio apenas para ADMIN
	IsActive          bool
	AccessToken       string
	RefreshToken      string
	CreatedAt         time.Time
	ExpiresAt         time.Time
}

// NewSession constrói uma sessão validando o invariante de tenancy:
// sessão de perfil não-ADMIN sem estabelecimento é rejeitada.
func NewSession(id string, u *User, accessToken, refreshToken string, expiresAt time.Time) (*Session, error) {
	if u == nil || u.ID == "" || u.Email == "" {
		return nil, domain.ErrInvalidInput
	}
	if !ValidRole(u.Role) {
		return nil, domain.ErrInvalidInput
	}
	if u.Role != RoleAdmin && u.EstabelecimentoID == "" {
		return nil, domain.ErrSessionInvariant
	}
	return &Session{
		ID:                id,
		UserID:            u.ID,
		Name:              u.Name,
		Email:             u.Email,
		Phone:             u.Phone,
		Role:              u.Role,
		EstabelecimentoID: u.EstabelecimentoID,
		IsActive:          u.IsActive,
		AccessToken:       accessToken,
		RefreshToken:      refreshToken,
		CreatedAt:         time.Now(),
		ExpiresAt:         expiresAt,
	}, nil
}

// IdentityValid verifica se a identidade gravada está íntegra. Uma sessão
// restaurada com identidade corrompida é tratada como deslogada.
func (s *Session) IdentityValid() bool {
	if s == nil {
		return false
	}
	if s.UserID == "" || s.Email == "" || !ValidRole(s.Role) {
		return false
	}
	if s.Role != RoleAdmin && s.EstabelecimentoID == "" {
		return false
	}
	return s.AccessToken != "" && s.RefreshToken != ""
}

// Expired informa se a sessão já passou da validade do refresh token.
func (s *Session) Expired(now time.Time) bool {
	return s != nil && !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}
