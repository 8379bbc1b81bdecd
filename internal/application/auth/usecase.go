package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/salao-pro/internal/application/dto"
	"github.com/tu-usuario/salao-pro/internal/application/session"
	"github.com/tu-usuario/salao-pro/internal/domain"
	"github.com/tu-usuario/salao-pro/internal/domain/entity"
	"github.com/tu-usuario/salao-pro/internal/domain/repository"
	"github.com/tu-usuario/salao-pro/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// JWTConfig configuração para geração do par de tokens.
type JWTConfig struct {
	Secret         string
	Issuer         string
	AccessMinutes  int
	RefreshMinutes int
}

// UseCase casos de uso de autenticação: login, refresh, logout e registro.
type UseCase struct {
	users    repository.UserRepository
	sessions *session.Store
	jwtCfg   JWTConfig
}

// NewUseCase constrói o caso de uso de auth.
func NewUseCase(users repository.UserRepository, sessions *session.Store, jwtCfg JWTConfig) *UseCase {
	return &UseCase{users: users, sessions: sessions, jwtCfg: jwtCfg}
}

// NormalizePhone reduz o telefone a dígitos e garante o DDI 55.
// "(11) 98888-7777" vira "5511988887777".
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return ""
	}
	if !strings.HasPrefix(digits, "55") {
		digits = "55" + digits
	}
	return digits
}

// Login verifica email|telefone + senha, cria a sessão e devolve o par de
// tokens com a identidade decodificada. Credenciais erradas e usuário
// inexistente respondem o mesmo erro para não vazar existência de conta.
func (uc *UseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	if in.Password == "" || (in.Email == "" && in.Phone == "") {
		return nil, domain.ErrInvalidInput
	}

	var user *entity.User
	var err error
	if in.Email != "" {
		user, err = uc.users.GetByEmail(ctx, in.Email)
	} else {
		user, err = uc.users.GetByPhone(ctx, NormalizePhone(in.Phone))
	}
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, domain.ErrAccountInactive
	}

	sessionID := uuid.New().String()
	access, refresh, err := jwt.GeneratePair(
		uc.jwtCfg.Secret, uc.jwtCfg.Issuer,
		uc.jwtCfg.AccessMinutes, uc.jwtCfg.RefreshMinutes,
		user.ID, sessionID, user.EstabelecimentoID, user.Role,
	)
	if err != nil {
		return nil, err
	}

	expiresAt := time.Now().Add(time.Duration(uc.jwtCfg.RefreshMinutes) * time.Minute)
	sess, err := entity.NewSession(sessionID, user, access, refresh, expiresAt)
	if err != nil {
		return nil, err
	}
	if err := uc.sessions.Persist(ctx, sess); err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Access:            access,
		Refresh:           refresh,
		ID:                user.ID,
		Name:              user.Name,
		Email:             user.Email,
		Phone:             user.Phone,
		Role:              user.Role,
		EstabelecimentoID: user.EstabelecimentoID,
		IsActive:          user.IsActive,
	}, nil
}

// Refresh valida o refresh token contra a sessão persistida e emite um novo
// access token. O refresh token não é rotacionado.
func (uc *UseCase) Refresh(ctx context.Context, refreshToken string) (*dto.RefreshResponse, error) {
	claims, err := jwt.Parse(uc.jwtCfg.Secret, refreshToken)
	if err != nil || claims.TokenType != jwt.TypeRefresh {
		return nil, domain.ErrUnauthorized
	}
	sess, err := uc.sessions.Restore(ctx, claims.SessionID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, domain.ErrSessionExpired
	}
	if sess.RefreshToken != refreshToken {
		// Token reaproveitado ou sessão sobrescrita: invalida tudo.
		uc.sessions.Clear(ctx, sess.ID)
		return nil, domain.ErrSessionExpired
	}

	access, err := jwt.Generate(
		uc.jwtCfg.Secret, uc.jwtCfg.Issuer, jwt.TypeAccess, uc.jwtCfg.AccessMinutes,
		sess.UserID, sess.ID, sess.EstabelecimentoID, sess.Role,
	)
	if err != nil {
		return nil, err
	}
	if err := uc.sessions.UpdateAccessToken(ctx, sess.ID, access); err != nil {
		return nil, err
	}
	return &dto.RefreshResponse{Access: access}, nil
}

// Logout encerra a sessão. Nunca falha: limpar é incondicional.
func (uc *UseCase) Logout(ctx context.Context, sessionID string) {
	uc.sessions.Clear(ctx, sessionID)
}

// RegisterUser cria um usuário: valida perfil e tenancy, hasheia a senha com
// bcrypt e persiste.
func (uc *UseCase) RegisterUser(ctx context.Context, in dto.RegisterUserRequest) (*dto.UserResponse, error) {
	if !entity.ValidRole(in.Role) {
		return nil, domain.ErrInvalidInput
	}
	if in.Role != entity.RoleAdmin && in.EstabelecimentoID == "" {
		return nil, domain.ErrSessionInvariant
	}
	existing, err := uc.users.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	name := in.Name
	if name == "" {
		name = in.Email
	}
	user := &entity.User{
		ID:                uuid.New().String(),
		EstabelecimentoID: in.EstabelecimentoID,
		Email:             in.Email,
		Phone:             NormalizePhone(in.Phone),
		PasswordHash:      string(hash),
		Name:              name,
		Role:              in.Role,
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// ToUserResponse converte a entidade para a resposta HTTP (sem senha).
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:                u.ID,
		EstabelecimentoID: u.EstabelecimentoID,
		Email:             u.Email,
		Phone:             u.Phone,
		Name:              u.Name,
		Role:              u.Role,
		IsActive:          u.IsActive,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
	}
}
