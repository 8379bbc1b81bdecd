package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/salao-pro/internal/application/auth"
	"github.com/tu-usuario/salao-pro/internal/application/dto"
	"github.com/tu-usuario/salao-pro/internal/application/session"
	"github.com/tu-usuario/salao-pro/internal/domain"
	"github.com/tu-usuario/salao-pro/internal/domain/entity"
	pkgjwt "github.com/tu-usuario/salao-pro/pkg/jwt"
	"github.com/tu-usuario/salao-pro/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

const (
	testSecret = "test-secret-key-for-unit-tests"
	testIssuer = "salao-pro-test"
)

// fakeUserRepo repositório de usuários em memória.
type fakeUserRepo struct {
	byEmail map[string]*entity.User
	byPhone map[string]*entity.User
}

func newFakeUserRepo(users ...*entity.User) *fakeUserRepo {
	f := &fakeUserRepo{byEmail: map[string]*entity.User{}, byPhone: map[string]*entity.User{}}
	for _, u := range users {
		f.byEmail[u.Email] = u
		if u.Phone != "" {
			f.byPhone[u.Phone] = u
		}
	}
	return f
}

func (f *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	f.byEmail[u.Email] = u
	if u.Phone != "" {
		f.byPhone[u.Phone] = u
	}
	return nil
}
func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}
func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return f.byEmail[email], nil
}
func (f *fakeUserRepo) GetByPhone(_ context.Context, phone string) (*entity.User, error) {
	return f.byPhone[phone], nil
}
func (f *fakeUserRepo) Update(_ context.Context, _ *entity.User) error { return nil }
func (f *fakeUserRepo) List(_ context.Context, _, _ int) ([]*entity.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) ListByEstabelecimento(_ context.Context, _ string, _, _ int) ([]*entity.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) Delete(_ context.Context, _ string) error { return nil }

// fakeSessionRepo mínimo para o store de sessões.
type fakeSessionRepo struct {
	rows map[string]*entity.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{rows: map[string]*entity.Session{}}
}

func (f *fakeSessionRepo) Save(_ context.Context, s *entity.Session) error {
	cp := *s
	f.rows[s.ID] = &cp
	return nil
}
func (f *fakeSessionRepo) GetByID(_ context.Context, id string) (*entity.Session, error) {
	s, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}
func (f *fakeSessionRepo) UpdateAccessToken(_ context.Context, id, accessToken string) error {
	if s, ok := f.rows[id]; ok {
		s.AccessToken = accessToken
	}
	return nil
}
func (f *fakeSessionRepo) Delete(_ context.Context, id string) error {
	delete(f.rows, id)
	return nil
}
func (f *fakeSessionRepo) DeleteByUser(_ context.Context, userID string) error {
	for id, s := range f.rows {
		if s.UserID == userID {
			delete(f.rows, id)
		}
	}
	return nil
}

func hash(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func ownerUser(t *testing.T) *entity.User {
	return &entity.User{
		ID:                "user-1",
		EstabelecimentoID: "salao-1",
		Email:             "dona@salao.com",
		Phone:             "5511988887777",
		PasswordHash:      hash(t, "senha-correta"),
		Name:              "Dona do Salão",
		Role:              entity.RoleOwner,
		IsActive:          true,
	}
}

func buildUseCase(t *testing.T, users *fakeUserRepo) (*auth.UseCase, *fakeSessionRepo) {
	t.Helper()
	sessRepo := newFakeSessionRepo()
	store := session.NewStore(sessRepo, logger.Nop())
	uc := auth.NewUseCase(users, store, auth.JWTConfig{
		Secret:         testSecret,
		Issuer:         testIssuer,
		AccessMinutes:  60,
		RefreshMinutes: 60 * 24,
	})
	return uc, sessRepo
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "5511988887777", auth.NormalizePhone("(11) 98888-7777"))
	assert.Equal(t, "5511988887777", auth.NormalizePhone("5511988887777"), "DDI presente não duplica")
	assert.Equal(t, "553198765", auth.NormalizePhone("+55 31 9 8 7 6 5"))
	assert.Equal(t, "", auth.NormalizePhone("sem dígitos"))
}

func TestLogin_ComEmail(t *testing.T) {
	uc, sessRepo := buildUseCase(t, newFakeUserRepo(ownerUser(t)))

	out, err := uc.Login(context.Background(), dto.LoginRequest{
		Email: "dona@salao.com", Password: "senha-correta",
	})
	require.NoError(t, err)

	// O formato da resposta carrega identidade decodificada + par de tokens.
	assert.NotEmpty(t, out.Access)
	assert.NotEmpty(t, out.Refresh)
	assert.Equal(t, "user-1", out.ID)
	assert.Equal(t, entity.RoleOwner, out.Role)
	assert.Equal(t, "salao-1", out.EstabelecimentoID)
	assert.True(t, out.IsActive)

	// A sessão foi persistida inteira, com identidade e tokens juntos.
	require.Len(t, sessRepo.rows, 1)
	for _, s := range sessRepo.rows {
		assert.Equal(t, out.Access, s.AccessToken)
		assert.Equal(t, out.Refresh, s.RefreshToken)
		assert.Equal(t, "salao-1", s.EstabelecimentoID)
	}

	// O access token carrega sessão e tenant nos claims.
	claims, err := pkgjwt.Parse(testSecret, out.Access)
	require.NoError(t, err)
	assert.Equal(t, pkgjwt.TypeAccess, claims.TokenType)
	assert.Equal(t, "salao-1", claims.EstabelecimentoID)
	assert.NotEmpty(t, claims.SessionID)
}

// O telefone digitado com máscara encontra o usuário pelo número normalizado.
func TestLogin_ComTelefoneNormalizado(t *testing.T) {
	uc, _ := buildUseCase(t, newFakeUserRepo(ownerUser(t)))

	out, err := uc.Login(context.Background(), dto.LoginRequest{
		Phone: "(11) 98888-7777", Password: "senha-correta",
	})
	require.NoError(t, err)
	assert.Equal(t, "user-1", out.ID)
}

// Usuário inexistente e senha errada respondem o mesmo erro.
func TestLogin_CredenciaisInvalidasSaoIndistinguiveis(t *testing.T) {
	uc, _ := buildUseCase(t, newFakeUserRepo(ownerUser(t)))

	_, errNoUser := uc.Login(context.Background(), dto.LoginRequest{
		Email: "ninguem@salao.com", Password: "qualquer",
	})
	_, errBadPass := uc.Login(context.Background(), dto.LoginRequest{
		Email: "dona@salao.com", Password: "senha-errada",
	})
	assert.ErrorIs(t, errNoUser, domain.ErrInvalidCredentials)
	assert.ErrorIs(t, errBadPass, domain.ErrInvalidCredentials)
}

func TestLogin_ContaInativa(t *testing.T) {
	u := ownerUser(t)
	u.IsActive = false
	uc, sessRepo := buildUseCase(t, newFakeUserRepo(u))

	_, err := uc.Login(context.Background(), dto.LoginRequest{
		Email: u.Email, Password: "senha-correta",
	})
	assert.ErrorIs(t, err, domain.ErrAccountInactive)
	assert.Empty(t, sessRepo.rows, "conta inativa não cria sessão")
}

func TestLogin_SemCredenciais(t *testing.T) {
	uc, _ := buildUseCase(t, newFakeUserRepo())
	_, err := uc.Login(context.Background(), dto.LoginRequest{Password: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Login(context.Background(), dto.LoginRequest{Email: "a@b.com"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRefresh_EmiteNovoAccessToken(t *testing.T) {
	uc, sessRepo := buildUseCase(t, newFakeUserRepo(ownerUser(t)))
	out, err := uc.Login(context.Background(), dto.LoginRequest{
		Email: "dona@salao.com", Password: "senha-correta",
	})
	require.NoError(t, err)

	time.Sleep(time.Second) // iat diferente garante token diferente

	refreshed, err := uc.Refresh(context.Background(), out.Refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.Access)
	assert.NotEqual(t, out.Access, refreshed.Access)

	// Só o access token muda na sessão; o refresh permanece.
	for _, s := range sessRepo.rows {
		assert.Equal(t, refreshed.Access, s.AccessToken)
		assert.Equal(t, out.Refresh, s.RefreshToken)
	}
}

// Um access token não serve para renovar.
func TestRefresh_RejeitaAccessToken(t *testing.T) {
	uc, _ := buildUseCase(t, newFakeUserRepo(ownerUser(t)))
	out, err := uc.Login(context.Background(), dto.LoginRequest{
		Email: "dona@salao.com", Password: "senha-correta",
	})
	require.NoError(t, err)

	_, err = uc.Refresh(context.Background(), out.Access)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

// Refresh de uma sessão já encerrada falha e não ressuscita a sessão.
func TestRefresh_SessaoEncerrada(t *testing.T) {
	uc, sessRepo := buildUseCase(t, newFakeUserRepo(ownerUser(t)))
	out, err := uc.Login(context.Background(), dto.LoginRequest{
		Email: "dona@salao.com", Password: "senha-correta",
	})
	require.NoError(t, err)

	for id := range sessRepo.rows {
		uc.Logout(context.Background(), id)
	}

	_, err = uc.Refresh(context.Background(), out.Refresh)
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
	assert.Empty(t, sessRepo.rows)
}

// Refresh token que não bate com o da sessão (sobrescrita por novo login)
// invalida a sessão inteira.
func TestRefresh_TokenDivergenteInvalidaSessao(t *testing.T) {
	uc, sessRepo := buildUseCase(t, newFakeUserRepo(ownerUser(t)))
	first, err := uc.Login(context.Background(), dto.LoginRequest{
		Email: "dona@salao.com", Password: "senha-correta",
	})
	require.NoError(t, err)

	// Simula a sessão sobrescrita com outro refresh token.
	for _, s := range sessRepo.rows {
		s.RefreshToken = "outro-refresh"
	}

	_, err = uc.Refresh(context.Background(), first.Refresh)
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
	assert.Empty(t, sessRepo.rows, "a sessão divergente deve ser limpa")
}

func TestRegisterUser_PerfilSemEstabelecimento(t *testing.T) {
	uc, _ := buildUseCase(t, newFakeUserRepo())
	_, err := uc.RegisterUser(context.Background(), dto.RegisterUserRequest{
		Email: "novo@salao.com", Password: "12345678", Role: entity.RoleOwner,
	})
	assert.ErrorIs(t, err, domain.ErrSessionInvariant)
}

func TestRegisterUser_AdminSemEstabelecimento(t *testing.T) {
	uc, _ := buildUseCase(t, newFakeUserRepo())
	user, err := uc.RegisterUser(context.Background(), dto.RegisterUserRequest{
		Email: "admin@plataforma.com", Password: "12345678", Role: entity.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Empty(t, user.EstabelecimentoID)
	assert.True(t, user.IsActive)
}

func TestRegisterUser_EmailDuplicado(t *testing.T) {
	uc, _ := buildUseCase(t, newFakeUserRepo(ownerUser(t)))
	_, err := uc.RegisterUser(context.Background(), dto.RegisterUserRequest{
		Email: "dona@salao.com", Password: "12345678",
		Role: entity.RoleOwner, EstabelecimentoID: "salao-2",
	})
	assert.ErrorIs(t, err, domain.ErrEmailExists)
}
