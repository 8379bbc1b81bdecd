package entity

import "time"

// Estabelecimento representa um salão (tenant): a unidade de isolamento de dados.
type Estabelecimento struct {
	ID        string
	Nome      string
	Telefone  string
	Whatsapp  string // número vinculado à instância do bot
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
