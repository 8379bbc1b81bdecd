package whatsapp

import (
	"context"

	"github.com/tu-usuario/salao-pro/internal/domain/entity"
)

// Bridge é o contrato mínimo com a ponte de mensageria (Evolution API).
// Toda chamada pode falhar com os erros de ponte do domínio; nenhuma falha
// muda o estado de uma instância por conta própria.
type Bridge interface {
	InstanceExists(ctx context.Context, instanceName string) (bool, error)
	CreateInstance(ctx context.Context, instanceName, number string) error
	// ConnectionState devolve o estado cru reportado pela ponte
	// ("open" significa pareado).
	ConnectionState(ctx context.Context, instanceName string) (string, error)
	GenerateCode(ctx context.Context, instanceName string) (*entity.PairingArtifact, error)
	Logout(ctx context.Context, instanceName string) error
	SetWebhook(ctx context.Context, instanceName, url string, events []string) error
}

// WebhookSource fornece a configuração de webhook vigente de um owner.
// Implementada pelo store de configuração do bot: é ela que decide se o
// webhook da instância fica ativo.
type WebhookSource interface {
	WebhookFor(ctx context.Context, owner string) (enabled bool, url string, events []string, err error)
}
