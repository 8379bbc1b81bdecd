package domain

import "errors"

// Erros de domínio (sem dependências externas).
var (
	ErrNotFound     = errors.New("recurso não encontrado")
	ErrUserNotFound = errors.New("usuário não encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("não autorizado")
	ErrForbidden    = errors.New("acesso negado")
	ErrConflict     = errors.New("conflito com o estado atual")
	ErrEmailExists  = errors.New("o email já está registrado")
)

// Erros de autenticação/sessão.
var (
	ErrInvalidCredentials = errors.New("credenciais inválidas")
	ErrAccountInactive    = errors.New("conta inativa")
	ErrSessionExpired     = errors.New("sessão expirada")
	ErrSessionInvariant   = errors.New("sessão sem estabelecimento para perfil não-admin")
)

// Erros da ponte de mensageria (Evolution).
// Falhas da ponte nunca mudam o estado da instância silenciosamente:
// o chamador decide o que fazer com o erro.
var (
	ErrBridgeUnavailable      = errors.New("ponte de mensageria indisponível")
	ErrBridgeInvalidResponse  = errors.New("resposta inválida da ponte de mensageria")
	ErrBridgeRateLimited      = errors.New("limite de requisições da ponte excedido")
	ErrInstanceNotProvisioned = errors.New("instância não provisionada")
	ErrRequestInFlight        = errors.New("já existe uma chamada em andamento para esta instância")
)
