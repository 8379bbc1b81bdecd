package dto

import "time"

// RegisterUserRequest entrada para criar um usuário (senha em texto, o hash
// acontece no caso de uso).
type RegisterUserRequest struct {
	EstabelecimentoID string `json:"estabelecimento_id" validate:"omitempty,uuid"`
	Email             string `json:"email" validate:"required,email"`
	Phone             string `json:"phone" validate:"omitempty"`
	Password          string `json:"password" validate:"required,min=8"`
	Name              string `json:"name" validate:"omitempty,max=200"`
	Role              string `json:"role" validate:"required,oneof=ADMIN OWNER PROFESSIONAL RECEPTIONIST"`
}

// UserResponse saída de um usuário (sem senha).
type UserResponse struct {
	ID                string    `json:"id"`
	EstabelecimentoID string    `json:"estabelecimento_id,omitempty"`
	Email             string    `json:"email"`
	Phone             string    `json:"phone"`
	Name              string    `json:"name"`
	Role              string    `json:"role"`
	IsActive          bool      `json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
