package permission

import "github.com/tu-usuario/salao-pro/internal/domain/entity"

// Recursos controlados pela matriz de permissões.
const (
	ResourceDashboard     = "dashboard"
	ResourceAppointments  = "appointments"
	ResourceProfessionals = "professionals"
	ResourceClients       = "clients"
	ResourceReports       = "reports"
	ResourceSettings      = "settings"
	ResourceFinancials    = "financials"
)

// Ações CRUD sobre um recurso.
const (
	ActionView   = "view"
	ActionCreate = "create"
	ActionEdit   = "edit"
	ActionDelete = "delete"
)

// crud conjunto de bits de um recurso para um perfil.
type crud struct {
	view, create, edit, del bool
}

var (
	full     = crud{true, true, true, true}
	viewOnly = crud{view: true}
)

// matrix é a ÚNICA matriz de permissões do sistema. Guard de rotas e
// afordâncias de UI consultam exatamente esta tabela via Can.
//
// Valores pendentes de aprovação de produto: OWNER em dashboard fica apenas
// com view (sem create/edit) e PROFESSIONAL mantém create/edit em clients.
var matrix = map[string]map[string]crud{
	entity.RoleAdmin: {
		ResourceDashboard:     full,
		ResourceAppointments:  full,
		ResourceProfessionals: full,
		ResourceClients:       full,
		ResourceReports:       full,
		ResourceSettings:      full,
		ResourceFinancials:    full,
	},
	entity.RoleOwner: {
		ResourceDashboard:     viewOnly,
		ResourceAppointments:  full,
		ResourceProfessionals: full,
		ResourceClients:       {view: true, create: true, edit: true},
		ResourceReports:       viewOnly,
		ResourceSettings:      {view: true, edit: true},
		ResourceFinancials:    {view: true, create: true},
	},
	entity.RoleProfessional: {
		ResourceDashboard:    viewOnly,
		ResourceAppointments: {view: true, create: true, edit: true},
		ResourceClients:      {view: true, create: true, edit: true},
	},
	entity.RoleReceptionist: {
		ResourceDashboard:     viewOnly,
		ResourceAppointments:  {view: true, create: true, edit: true},
		ResourceProfessionals: viewOnly,
		ResourceClients:       {view: true, create: true, edit: true},
	},
}

// Can informa se o perfil pode executar a ação sobre o recurso.
// Função total e sem efeitos: qualquer combinação não enumerada explicitamente
// (perfil, recurso ou ação desconhecidos) resulta em negado — nunca em pânico.
func Can(role, resource, action string) bool {
	resources, ok := matrix[role]
	if !ok {
		return false
	}
	c, ok := resources[resource]
	if !ok {
		return false
	}
	switch action {
	case ActionView:
		return c.view
	case ActionCreate:
		return c.create
	case ActionEdit:
		return c.edit
	case ActionDelete:
		return c.del
	}
	return false
}
