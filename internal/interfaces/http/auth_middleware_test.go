package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/salao-pro/internal/application/guard"
	"github.com/tu-usuario/salao-pro/internal/application/permission"
	"github.com/tu-usuario/salao-pro/internal/application/session"
	"github.com/tu-usuario/salao-pro/internal/domain/entity"
	apphttp "github.com/tu-usuario/salao-pro/internal/interfaces/http"
	pkgjwt "github.com/tu-usuario/salao-pro/pkg/jwt"
	"github.com/tu-usuario/salao-pro/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de teste
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "salao-pro-test"
	testExpMin    = 60
	testSessionID = "00000000-0000-0000-0000-00000000sess"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testSalonID   = "00000000-0000-0000-0000-000000000002"
)

// memSessionRepo repositório de sessões em memória para os testes HTTP.
type memSessionRepo struct {
	rows map[string]*entity.Session
}

func (m *memSessionRepo) Save(_ context.Context, s *entity.Session) error {
	cp := *s
	m.rows[s.ID] = &cp
	return nil
}
func (m *memSessionRepo) GetByID(_ context.Context, id string) (*entity.Session, error) {
	s, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}
func (m *memSessionRepo) UpdateAccessToken(_ context.Context, id, tok string) error {
	if s, ok := m.rows[id]; ok {
		s.AccessToken = tok
	}
	return nil
}
func (m *memSessionRepo) Delete(_ context.Context, id string) error {
	delete(m.rows, id)
	return nil
}
func (m *memSessionRepo) DeleteByUser(_ context.Context, userID string) error {
	for id, s := range m.rows {
		if s.UserID == userID {
			delete(m.rows, id)
		}
	}
	return nil
}

type testEnv struct {
	app   *fiber.App
	repo  *memSessionRepo
	store *session.Store
}

// buildTestApp monta uma app Fiber mínima: AuthMiddleware + RequireRoles +
// RequirePermission e um handler que devolve a identidade da sessão.
func buildTestApp(allowedRoles ...string) *testEnv {
	repo := &memSessionRepo{rows: map[string]*entity.Session{}}
	store := session.NewStore(repo, logger.Nop())

	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret, store),
		apphttp.RequireRoles(allowedRoles...),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{
				"ok":              true,
				"role":            apphttp.GetRole(c),
				"user_id":         apphttp.GetUserID(c),
				"estabelecimento": apphttp.GetEstabelecimentoID(c),
				"session_present": apphttp.GetSession(c) != nil,
			})
		},
	)
	app.Get("/financials",
		apphttp.AuthMiddleware(testJWTSecret, store),
		apphttp.RequirePermission(permission.ResourceFinancials, permission.ActionView),
		func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) },
	)
	return &testEnv{app: app, repo: repo, store: store}
}

// seedSession cria usuário+sessão válidos e devolve o Bearer do access token.
func seedSession(t *testing.T, env *testEnv, role, estabID string) string {
	t.Helper()
	access, refresh, err := pkgjwt.GeneratePair(
		testJWTSecret, testIssuer, testExpMin, testExpMin*24,
		testUserID, testSessionID, estabID, role,
	)
	require.NoError(t, err)

	sess, err := entity.NewSession(testSessionID, &entity.User{
		ID:                testUserID,
		EstabelecimentoID: estabID,
		Email:             "dona@salao.com",
		Name:              "Dona do Salão",
		Role:              role,
		IsActive:          true,
	}, access, refresh, time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.NoError(t, env.store.Persist(context.Background(), sess))
	return "Bearer " + access
}

func doRequest(t *testing.T, app *fiber.App, path, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// AuthMiddleware — token + restauração de sessão
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_SemHeaderRedirecionaLogin(t *testing.T) {
	env := buildTestApp()
	resp := doRequest(t, env.app, "/protected", "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_TOKEN")
	assert.Contains(t, string(body), guard.LoginRoute, "a negação carrega o redirect de login")
}

func TestAuthMiddleware_TokenInvalido(t *testing.T) {
	env := buildTestApp()
	resp := doRequest(t, env.app, "/protected", "Bearer token.invalido.aqui")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "INVALID_TOKEN")
}

// Um refresh token não serve como credencial de requisição.
func TestAuthMiddleware_RefreshTokenRejeitado(t *testing.T) {
	env := buildTestApp()
	refresh, err := pkgjwt.Generate(testJWTSecret, testIssuer, pkgjwt.TypeRefresh,
		testExpMin, testUserID, testSessionID, testSalonID, entity.RoleOwner)
	require.NoError(t, err)

	resp := doRequest(t, env.app, "/protected", "Bearer "+refresh)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// Token válido mas sessão já encerrada na storage: 401 SESSION_EXPIRED.
func TestAuthMiddleware_TokenValidoSemSessao(t *testing.T) {
	env := buildTestApp()
	header := seedSession(t, env, entity.RoleOwner, testSalonID)
	delete(env.repo.rows, testSessionID) // sessão encerrada em outro lugar

	resp := doRequest(t, env.app, "/protected", header)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "SESSION_EXPIRED")
}

func TestAuthMiddleware_SessaoRestauradaNosLocals(t *testing.T) {
	env := buildTestApp()
	header := seedSession(t, env, entity.RoleOwner, testSalonID)

	resp := doRequest(t, env.app, "/protected", header)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, entity.RoleOwner, body["role"])
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, testSalonID, body["estabelecimento"])
	assert.Equal(t, true, body["session_present"])
}

// ──────────────────────────────────────────────────────────────────────────────
// RequireRoles — negação com redirect para a home do perfil
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireRoles_PerfilPermitido(t *testing.T) {
	env := buildTestApp(entity.RoleAdmin, entity.RoleOwner)
	header := seedSession(t, env, entity.RoleOwner, testSalonID)

	resp := doRequest(t, env.app, "/protected", header)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireRoles_PerfilErradoRedirecionaPropriaHome(t *testing.T) {
	env := buildTestApp(entity.RoleAdmin)
	header := seedSession(t, env, entity.RoleOwner, testSalonID)

	resp := doRequest(t, env.app, "/protected", header)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "WRONG_ROLE")
	assert.Contains(t, string(body), guard.OwnerDashboardRoute,
		"o redirect aponta para a home do perfil da sessão, não da rota")
}

// ──────────────────────────────────────────────────────────────────────────────
// RequirePermission — matriz única de permissões
// ──────────────────────────────────────────────────────────────────────────────

func TestRequirePermission_OwnerAcessaFinanceiro(t *testing.T) {
	env := buildTestApp()
	header := seedSession(t, env, entity.RoleOwner, testSalonID)

	resp := doRequest(t, env.app, "/financials", header)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequirePermission_ProfessionalNegadoNoFinanceiro(t *testing.T) {
	env := buildTestApp()
	header := seedSession(t, env, entity.RoleProfessional, testSalonID)

	resp := doRequest(t, env.app, "/financials", header)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "PERMISSION_DENIED")
}
