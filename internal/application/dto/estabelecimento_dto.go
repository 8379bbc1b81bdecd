package dto

import "time"

// CreateEstabelecimentoRequest entrada para cadastrar um salão.
type CreateEstabelecimentoRequest struct {
	Nome     string `json:"nome" validate:"required,min=1,max=200"`
	Telefone string `json:"telefone" validate:"omitempty"`
	Whatsapp string `json:"whatsapp" validate:"omitempty"`
}

// EstabelecimentoResponse saída de um salão.
type EstabelecimentoResponse struct {
	ID        string    `json:"id"`
	Nome      string    `json:"nome"`
	Telefone  string    `json:"telefone"`
	Whatsapp  string    `json:"whatsapp"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
