package dto

// LoginRequest credenciais de login: email OU telefone + senha.
type LoginRequest struct {
	Email    string `json:"email" validate:"omitempty,email"`
	Phone    string `json:"phone" validate:"omitempty"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse par de tokens + identidade decodificada, no mesmo formato
// que o app consome.
type LoginResponse struct {
	Access            string `json:"access"`
	Refresh           string `json:"refresh"`
	ID                string `json:"id"`
	Name              string `json:"name"`
	Email             string `json:"email"`
	Phone             string `json:"phone"`
	Role              string `json:"role"`
	EstabelecimentoID string `json:"estabelecimento_id,omitempty"`
	IsActive          bool   `json:"is_active"`
}

// RefreshRequest troca de refresh token por um novo access token.
type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

// RefreshResponse novo access token (o refresh não é rotacionado).
type RefreshResponse struct {
	Access string `json:"access"`
}

// SessionResponse identidade da sessão corrente (GET /auth/me).
type SessionResponse struct {
	UserID            string `json:"user_id"`
	Name              string `json:"name"`
	Email             string `json:"email"`
	Phone             string `json:"phone"`
	Role              string `json:"role"`
	EstabelecimentoID string `json:"estabelecimento_id,omitempty"`
	IsActive          bool   `json:"is_active"`
}
