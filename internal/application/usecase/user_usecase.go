package usecase

import (
	"context"

	"github.com/tu-usuario/salao-pro/internal/application/auth"
	"github.com/tu-usuario/salao-pro/internal/application/dto"
	"github.com/tu-usuario/salao-pro/internal/domain"
	"github.com/tu-usuario/salao-pro/internal/domain/entity"
	"github.com/tu-usuario/salao-pro/internal/domain/repository"
)

// UserUseCase consultas de usuários com escopo de tenant: o ADMIN enxerga a
// plataforma inteira, os demais perfis só o próprio estabelecimento.
type UserUseCase struct {
	users repository.UserRepository
}

// NewUserUseCase constrói o caso de uso de usuários.
func NewUserUseCase(users repository.UserRepository) *UserUseCase {
	return &UserUseCase{users: users}
}

// List devolve os usuários visíveis para a sessão informada.
func (uc *UserUseCase) List(ctx context.Context, sess *entity.Session, page dto.PageRequest) ([]*dto.UserResponse, error) {
	if sess == nil {
		return nil, domain.ErrUnauthorized
	}
	page.DefaultPage()

	var (
		users []*entity.User
		err   error
	)
	if sess.Role == entity.RoleAdmin {
		users, err = uc.users.List(ctx, page.Limit, page.Offset)
	} else {
		users, err = uc.users.ListByEstabelecimento(ctx, sess.EstabelecimentoID, page.Limit, page.Offset)
	}
	if err != nil {
		return nil, err
	}
	out := make([]*dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, auth.ToUserResponse(u))
	}
	return out, nil
}

// Get devolve um usuário respeitando o escopo do tenant.
func (uc *UserUseCase) Get(ctx context.Context, sess *entity.Session, id string) (*dto.UserResponse, error) {
	if sess == nil {
		return nil, domain.ErrUnauthorized
	}
	user, err := uc.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if sess.Role != entity.RoleAdmin && user.EstabelecimentoID != sess.EstabelecimentoID {
		return nil, domain.ErrForbidden
	}
	return auth.ToUserResponse(user), nil
}
