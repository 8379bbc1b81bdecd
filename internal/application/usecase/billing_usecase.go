package usecase

import (
	"context"

	"github.com/tu-usuario/salao-pro/internal/application/dto"
	"github.com/tu-usuario/salao-pro/internal/domain"
	"github.com/tu-usuario/salao-pro/internal/domain/entity"
	"github.com/tu-usuario/salao-pro/internal/domain/repository"
)

// BillingUseCase leitura dos planos de assinatura e das cobranças.
type BillingUseCase struct {
	plans        repository.PlanRepository
	transactions repository.TransactionRepository
}

// NewBillingUseCase constrói o caso de uso de cobrança.
func NewBillingUseCase(plans repository.PlanRepository, transactions repository.TransactionRepository) *BillingUseCase {
	return &BillingUseCase{plans: plans, transactions: transactions}
}

// ListPlans devolve os planos ativos (página pública de preços).
func (uc *BillingUseCase) ListPlans(ctx context.Context) ([]*dto.PlanResponse, error) {
	plans, err := uc.plans.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.PlanResponse, 0, len(plans))
	for _, p := range plans {
		out = append(out, &dto.PlanResponse{
			ID:        p.ID,
			Nome:      p.Nome,
			Descricao: p.Descricao,
			Preco:     p.Preco,
			Recursos:  p.Recursos,
		})
	}
	return out, nil
}

// ListTransactions devolve as cobranças visíveis para a sessão: todas para o
// ADMIN, só as do próprio estabelecimento para os demais perfis.
func (uc *BillingUseCase) ListTransactions(ctx context.Context, sess *entity.Session, page dto.PageRequest) ([]*dto.TransactionResponse, error) {
	if sess == nil {
		return nil, domain.ErrUnauthorized
	}
	page.DefaultPage()

	var (
		list []*entity.Transaction
		err  error
	)
	if sess.Role == entity.RoleAdmin {
		list, err = uc.transactions.List(ctx, page.Limit, page.Offset)
	} else {
		list, err = uc.transactions.ListByEstabelecimento(ctx, sess.EstabelecimentoID, page.Limit, page.Offset)
	}
	if err != nil {
		return nil, err
	}
	out := make([]*dto.TransactionResponse, 0, len(list))
	for _, t := range list {
		out = append(out, &dto.TransactionResponse{
			ID:                t.ID,
			EstabelecimentoID: t.EstabelecimentoID,
			PlanID:            t.PlanID,
			Valor:             t.Valor,
			Status:            t.Status,
			CreatedAt:         t.CreatedAt,
		})
	}
	return out, nil
}
