// Package evolution implementa o porto Bridge sobre a API HTTP da Evolution.
package evolution

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/tu-usuario/salao-pro/internal/domain"
	"github.com/tu-usuario/salao-pro/internal/domain/entity"
	"github.com/tu-usuario/salao-pro/pkg/config"
	"github.com/tu-usuario/salao-pro/pkg/logger"
)

// Client cliente HTTP da Evolution API. Todas as respostas não-2xx viram
// erros de ponte do domínio; o corpo cru nunca sobe para as camadas de cima.
type Client struct {
	http *resty.Client
	log  *logger.Logger
}

// NewClient constrói o cliente com base URL, API key e timeout padrão.
func NewClient(cfg config.EvolutionConfig, log *logger.Logger) *Client {
	c := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetHeader("apikey", cfg.APIKey).
		SetHeader("Content-Type", "application/json").
		SetTimeout(30 * time.Second)
	return &Client{http: c, log: log}
}

type fetchedInstance struct {
	Instance struct {
		InstanceName string `json:"instanceName"`
		Status       string `json:"status"`
	} `json:"instance"`
}

type stateResponse struct {
	Instance struct {
		State string `json:"state"`
	} `json:"instance"`
}

type createInstanceRequest struct {
	InstanceName string `json:"instanceName"`
	Token        string `json:"token"`
	Number       string `json:"number,omitempty"`
	QRCode       bool   `json:"qrcode"`
	Integration  string `json:"integration"`
	RejectCall   bool   `json:"reject_call"`
	ReadMessages bool   `json:"read_messages"`
	GroupsIgnore bool   `json:"groups_ignore"`
}

type webhookRequest struct {
	URL             string   `json:"url"`
	Enabled         bool     `json:"enabled"`
	WebhookByEvents bool     `json:"webhook_by_events"`
	Events          []string `json:"events"`
}

// InstanceExists consulta o inventário da ponte procurando pelo nome.
func (c *Client) InstanceExists(ctx context.Context, instanceName string) (bool, error) {
	var instances []fetchedInstance
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&instances).
		Get("/instance/fetchInstances")
	if err := c.check(resp, err, "fetchInstances"); err != nil {
		return false, err
	}
	for _, inst := range instances {
		if inst.Instance.InstanceName == instanceName {
			return true, nil
		}
	}
	return false, nil
}

// CreateInstance provisiona uma instância nova vinculada ao número.
func (c *Client) CreateInstance(ctx context.Context, instanceName, number string) error {
	body := createInstanceRequest{
		InstanceName: instanceName,
		Token:        uuid.New().String(),
		Number:       number,
		QRCode:       true,
		Integration:  "WHATSAPP-BAILEYS",
		RejectCall:   true,
		ReadMessages: true,
		GroupsIgnore: true,
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		Post("/instance/create")
	return c.check(resp, err, "create")
}

// ConnectionState devolve o estado cru reportado pela ponte ("open", "close", ...).
func (c *Client) ConnectionState(ctx context.Context, instanceName string) (string, error) {
	var out stateResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/instance/connectionState/" + instanceName)
	if err := c.check(resp, err, "connectionState"); err != nil {
		return "", err
	}
	if out.Instance.State == "" {
		return "", domain.ErrBridgeInvalidResponse
	}
	return out.Instance.State, nil
}

// GenerateCode pede um artefato de pareamento novo. O payload do QR volta
// cru; a normalização para data-URI é do gerenciador.
func (c *Client) GenerateCode(ctx context.Context, instanceName string) (*entity.PairingArtifact, error) {
	var art entity.PairingArtifact
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&art).
		Get("/instance/connect/" + instanceName)
	if err := c.check(resp, err, "connect"); err != nil {
		return nil, err
	}
	if art.Code == "" && art.PairingCode == "" {
		return nil, domain.ErrBridgeInvalidResponse
	}
	return &art, nil
}

// Logout encerra o pareamento da instância.
func (c *Client) Logout(ctx context.Context, instanceName string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		Delete("/instance/logout/" + instanceName)
	return c.check(resp, err, "logout")
}

// SetWebhook configura o webhook de eventos da instância.
func (c *Client) SetWebhook(ctx context.Context, instanceName, url string, events []string) error {
	body := webhookRequest{
		URL:             url,
		Enabled:         true,
		WebhookByEvents: true,
		Events:          events,
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		Post("/webhook/set/" + instanceName)
	return c.check(resp, err, "webhook/set")
}

// check traduz falha de transporte e status não-2xx para erros de ponte.
func (c *Client) check(resp *resty.Response, err error, op string) error {
	if err != nil {
		c.log.Warn().Err(err).Str("op", op).Msg("ponte inacessível")
		return fmt.Errorf("%w: %s", domain.ErrBridgeUnavailable, op)
	}
	switch {
	case resp.IsSuccess():
		return nil
	case resp.StatusCode() == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", domain.ErrBridgeRateLimited, op)
	default:
		c.log.Warn().Int("status", resp.StatusCode()).Str("op", op).Msg("resposta inesperada da ponte")
		return fmt.Errorf("%w: %s (HTTP %d)", domain.ErrBridgeInvalidResponse, op, resp.StatusCode())
	}
}
