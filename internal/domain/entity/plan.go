package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Plan plano de assinatura da plataforma.
type Plan struct {
	ID        string
	Nome      string
	Descricao string
	Preco     decimal.Decimal // mensal, BRL
	Recursos  []string
	IsActive  bool
	CreatedAt time.Time
}

// Status de uma transação de cobrança.
const (
	TransactionPending  = "pending"
	TransactionPaid     = "paid"
	TransactionFailed   = "failed"
	TransactionRefunded = "refunded"
)

// Transaction cobrança de assinatura de um estabelecimento.
type Transaction struct {
	ID                string
	EstabelecimentoID string
	PlanID            string
	Valor             decimal.Decimal
	Status            string
	CreatedAt         time.Time
}
