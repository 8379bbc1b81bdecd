package botconfig

import (
	"context"
	"encoding/json"
	"time"

	"github.com/tu-usuario/salao-pro/internal/domain"
	"github.com/tu-usuario/salao-pro/internal/domain/entity"
	"github.com/tu-usuario/salao-pro/internal/domain/repository"
	"github.com/tu-usuario/salao-pro/pkg/logger"
)

// UseCase lê e grava a configuração do bot. A leitura nunca devolve
// documento parcial: o que estiver salvo é fundido campo a campo por cima
// dos padrões do owner, de modo que um documento antigo continua válido
// quando novos campos ganham padrão.
type UseCase struct {
	repo           repository.BotConfigRepository
	log            *logger.Logger
	webhookBaseURL string
}

// NewUseCase constrói o caso de uso de configuração do bot.
func NewUseCase(repo repository.BotConfigRepository, log *logger.Logger, webhookBaseURL string) *UseCase {
	return &UseCase{repo: repo, log: log, webhookBaseURL: webhookBaseURL}
}

// Espelho da entidade com ponteiros: campo ausente no documento fica nil e
// preserva o padrão na fusão.
type partialConfig struct {
	Active         *bool             `json:"bot_ativo"`
	PromptTemplate *string           `json:"prompt_template"`
	AttendanceMode *string           `json:"attendance_mode"`
	Evolution      *partialEvolution `json:"evolution_settings"`
	Hours          *partialHours     `json:"horario_atendimento"`
	Webhook        *partialWebhook   `json:"webhook_settings"`
}

type partialEvolution struct {
	RejectCalls  *bool `json:"reject_calls"`
	ReadMessages *bool `json:"read_messages"`
	GroupsIgnore *bool `json:"groups_ignore"`
}

type partialHours struct {
	Start *string `json:"inicio"`
	End   *string `json:"fim"`
}

type partialWebhook struct {
	Enabled *bool     `json:"enabled"`
	URL     *string   `json:"url"`
	Events  *[]string `json:"events"`
}

// Load devolve a configuração efetiva do owner: padrões quando nada foi
// salvo, senão o documento salvo fundido por cima dos padrões. Documento
// ilegível é tratado como ausente (e registrado no log).
func (uc *UseCase) Load(ctx context.Context, owner string) (*entity.BotConfig, error) {
	cfg := entity.DefaultBotConfig(owner, uc.webhookBaseURL)
	stored, err := uc.repo.Get(ctx, owner)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return &cfg, nil
	}

	var partial partialConfig
	if err := json.Unmarshal(stored.Document, &partial); err != nil {
		uc.log.Warn().Err(err).Str("owner", owner).Msg("documento de configuração ilegível, usando padrões")
		return &cfg, nil
	}
	merge(&cfg, &partial)
	cfg.UpdatedAt = stored.UpdatedAt
	return &cfg, nil
}

func merge(cfg *entity.BotConfig, p *partialConfig) {
	if p.Active != nil {
		cfg.Active = *p.Active
	}
	if p.PromptTemplate != nil {
		cfg.PromptTemplate = *p.PromptTemplate
	}
	if p.AttendanceMode != nil {
		cfg.AttendanceMode = *p.AttendanceMode
	}
	if p.Evolution != nil {
		if p.Evolution.RejectCalls != nil {
			cfg.Evolution.RejectCalls = *p.Evolution.RejectCalls
		}
		if p.Evolution.ReadMessages != nil {
			cfg.Evolution.ReadMessages = *p.Evolution.ReadMessages
		}
		if p.Evolution.GroupsIgnore != nil {
			cfg.Evolution.GroupsIgnore = *p.Evolution.GroupsIgnore
		}
	}
	if p.Hours != nil {
		if p.Hours.Start != nil {
			cfg.Hours.Start = *p.Hours.Start
		}
		if p.Hours.End != nil {
			cfg.Hours.End = *p.Hours.End
		}
	}
	if p.Webhook != nil {
		if p.Webhook.Enabled != nil {
			cfg.Webhook.Enabled = *p.Webhook.Enabled
		}
		if p.Webhook.URL != nil {
			cfg.Webhook.URL = *p.Webhook.URL
		}
		if p.Webhook.Events != nil {
			cfg.Webhook.Events = append([]string(nil), (*p.Webhook.Events)...)
		}
	}
	// Bot desligado implica webhook desligado, com url e events limpos —
	// inclusive para documentos antigos que gravaram null no lugar de
	// lista vazia ou que nunca gravaram webhook_settings.
	if !cfg.Active || !cfg.Webhook.Enabled {
		cfg.Webhook.Enabled = false
		cfg.Webhook.URL = ""
		cfg.Webhook.Events = nil
	}
}

// Save valida, aplica o invariante webhook↔bot e persiste a configuração
// canônica. Devolve a cópia persistida com o updated_at do servidor.
func (uc *UseCase) Save(ctx context.Context, cfg *entity.BotConfig) (*entity.BotConfig, error) {
	if cfg == nil || cfg.Owner == "" {
		return nil, domain.ErrInvalidInput
	}
	switch cfg.AttendanceMode {
	case entity.AttendanceAuto, entity.AttendanceSemi, entity.AttendanceManual:
	default:
		return nil, domain.ErrInvalidInput
	}
	if !validHour(cfg.Hours.Start) || !validHour(cfg.Hours.End) {
		return nil, domain.ErrInvalidInput
	}

	canonical := *cfg
	canonical.Webhook.Enabled = canonical.Active
	if canonical.Active {
		if canonical.Webhook.URL == "" {
			canonical.Webhook.URL = uc.webhookBaseURL + "/api/webhooks/" + canonical.Owner + "/"
		}
		if len(canonical.Webhook.Events) == 0 {
			canonical.Webhook.Events = append([]string(nil), entity.DefaultWebhookEvents...)
		}
	} else {
		// Lista vazia, não nil: o documento precisa gravar [] para que a
		// fusão na releitura veja o campo presente e não ressuscite os
		// eventos padrão.
		canonical.Webhook.URL = ""
		canonical.Webhook.Events = []string{}
	}

	stored, err := uc.repo.Save(ctx, &canonical)
	if err != nil {
		return nil, err
	}
	canonical.UpdatedAt = stored.UpdatedAt
	return &canonical, nil
}

// ToggleActive liga ou desliga o bot. Se a gravação falhar, a configuração
// vigente é recarregada da storage e devolvida junto com o erro, para que o
// chamador nunca fique exibindo um estado que não foi persistido.
func (uc *UseCase) ToggleActive(ctx context.Context, owner string, active bool) (*entity.BotConfig, error) {
	cfg, err := uc.Load(ctx, owner)
	if err != nil {
		return nil, err
	}
	cfg.Active = active
	saved, err := uc.Save(ctx, cfg)
	if err != nil {
		current, loadErr := uc.Load(ctx, owner)
		if loadErr != nil {
			uc.log.Error().Err(loadErr).Str("owner", owner).Msg("falha ao recarregar configuração após erro de gravação")
			return nil, err
		}
		return current, err
	}
	return saved, nil
}

// WebhookFor expõe a configuração de webhook vigente do owner para o
// gerenciador de instâncias.
func (uc *UseCase) WebhookFor(ctx context.Context, owner string) (bool, string, []string, error) {
	cfg, err := uc.Load(ctx, owner)
	if err != nil {
		return false, "", nil, err
	}
	return cfg.Webhook.Enabled, cfg.Webhook.URL, cfg.Webhook.Events, nil
}

func validHour(v string) bool {
	_, err := time.Parse("15:04", v)
	return err == nil
}
