package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/salao-pro/internal/application/dto"
	"github.com/tu-usuario/salao-pro/internal/domain"
	"github.com/tu-usuario/salao-pro/internal/domain/entity"
	"github.com/tu-usuario/salao-pro/internal/domain/repository"
)

// EstabelecimentoUseCase CRUD mínimo dos salões (somente plataforma/ADMIN).
type EstabelecimentoUseCase struct {
	repo repository.EstabelecimentoRepository
}

// NewEstabelecimentoUseCase constrói o caso de uso de estabelecimentos.
func NewEstabelecimentoUseCase(repo repository.EstabelecimentoRepository) *EstabelecimentoUseCase {
	return &EstabelecimentoUseCase{repo: repo}
}

// Create cadastra um salão novo, ativo por padrão.
func (uc *EstabelecimentoUseCase) Create(ctx context.Context, in dto.CreateEstabelecimentoRequest) (*dto.EstabelecimentoResponse, error) {
	if in.Nome == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	e := &entity.Estabelecimento{
		ID:        uuid.New().String(),
		Nome:      in.Nome,
		Telefone:  in.Telefone,
		Whatsapp:  in.Whatsapp,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	return toEstabelecimentoResponse(e), nil
}

// Get devolve um salão pelo ID.
func (uc *EstabelecimentoUseCase) Get(ctx context.Context, id string) (*dto.EstabelecimentoResponse, error) {
	e, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, domain.ErrNotFound
	}
	return toEstabelecimentoResponse(e), nil
}

// List devolve os salões paginados.
func (uc *EstabelecimentoUseCase) List(ctx context.Context, page dto.PageRequest) ([]*dto.EstabelecimentoResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.EstabelecimentoResponse, 0, len(list))
	for _, e := range list {
		out = append(out, toEstabelecimentoResponse(e))
	}
	return out, nil
}

func toEstabelecimentoResponse(e *entity.Estabelecimento) *dto.EstabelecimentoResponse {
	return &dto.EstabelecimentoResponse{
		ID:        e.ID,
		Nome:      e.Nome,
		Telefone:  e.Telefone,
		Whatsapp:  e.Whatsapp,
		IsActive:  e.IsActive,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}
