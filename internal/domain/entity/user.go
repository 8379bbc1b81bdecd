package entity

import "time"

// Perfis válidos para User.
const (
	RoleAdmin        = "ADMIN"        // administrador da plataforma
	RoleOwner        = "OWNER"        // dono do salão
	RoleProfessional = "PROFESSIONAL" // profissional/funcionário
	RoleReceptionist = "RECEPTIONIST" // recepcionista
)

// ValidRole informa se o perfil é um dos quatro conhecidos.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleOwner, RoleProfessional, RoleReceptionist:
		return true
	}
	return false
}

// User representa um usuário do sistema. Todo usuário que não é ADMIN
// pertence a um estabelecimento (salão).
type User struct {
	ID                string
	EstabelecimentoID string // vazio apenas para ADMIN
	Email             string
	Phone             string // dígitos com DDI 55, ex.: 5511988887777
	PasswordHash      string // bcrypt, nunca em texto plano após persistir
	Name              string
	Role              string
	IsActive          bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
