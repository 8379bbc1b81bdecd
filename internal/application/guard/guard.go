package guard

import "github.com/tu-usuario/salao-pro/internal/domain/entity"

// Rotas de destino usadas nas decisões do guard.
const (
	LoginRoute          = "/login"
	AdminDashboardRoute = "/dashboard/admin"
	OwnerDashboardRoute = "/dashboard"
	PublicRoute         = "/"
)

// Outcome resultado da avaliação de uma navegação.
type Outcome int

const (
	// Allowed libera o acesso à rota.
	Allowed Outcome = iota
	// RedirectLogin nega por falta de autenticação; o destino é a tela de login.
	RedirectLogin
	// RedirectHome nega por perfil incompatível; o destino é a home do perfil.
	RedirectHome
)

// Decision decisão do guard para uma navegação: o que fazer e para onde
// redirecionar quando negado.
type Decision struct {
	Outcome Outcome
	Target  string // vazio quando Allowed
}

// HomeRoute devolve a rota inicial de um perfil.
func HomeRoute(role string) string {
	switch role {
	case entity.RoleAdmin:
		return AdminDashboardRoute
	case entity.RoleOwner:
		return OwnerDashboardRoute
	default:
		return PublicRoute
	}
}

// Decide avalia sessão + perfis exigidos, de forma pura e síncrona.
// Ausência de sessão é negação (nunca erro): redirect para login. Sessão com
// perfil fora do conjunto exigido redireciona para a home do próprio perfil.
// Um conjunto vazio de perfis exige apenas autenticação.
func Decide(sess *entity.Session, allowedRoles []string) Decision {
	if sess == nil || !sess.IdentityValid() {
		return Decision{Outcome: RedirectLogin, Target: LoginRoute}
	}
	if len(allowedRoles) == 0 {
		return Decision{Outcome: Allowed}
	}
	for _, r := range allowedRoles {
		if sess.Role == r {
			return Decision{Outcome: Allowed}
		}
	}
	return Decision{Outcome: RedirectHome, Target: HomeRoute(sess.Role)}
}
