package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PlanResponse plano de assinatura (listagem pública de preços).
type PlanResponse struct {
	ID        string          `json:"id"`
	Nome      string          `json:"nome"`
	Descricao string          `json:"descricao"`
	Preco     decimal.Decimal `json:"preco"`
	Recursos  []string        `json:"recursos"`
}

// TransactionResponse cobrança de assinatura.
type TransactionResponse struct {
	ID                string          `json:"id"`
	EstabelecimentoID string          `json:"estabelecimento_id"`
	PlanID            string          `json:"plan_id"`
	Valor             decimal.Decimal `json:"valor"`
	Status            string          `json:"status"`
	CreatedAt         time.Time       `json:"created_at"`
}
