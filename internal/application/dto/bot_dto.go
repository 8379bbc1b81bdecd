package dto

import (
	"time"

	"github.com/tu-usuario/salao-pro/internal/domain/entity"
)

// BotConfigResponse configuração canônica do bot + carimbo do servidor.
type BotConfigResponse struct {
	Owner          string                   `json:"owner"`
	Active         bool                     `json:"bot_ativo"`
	PromptTemplate string                   `json:"prompt_template"`
	AttendanceMode string                   `json:"attendance_mode"`
	Evolution      entity.EvolutionSettings `json:"evolution_settings"`
	Hours          entity.BusinessHours     `json:"horario_atendimento"`
	Webhook        entity.WebhookSettings   `json:"webhook_settings"`
	UpdatedAt      time.Time                `json:"updated_at,omitempty"`
}

// FromBotConfig converte a entidade para a resposta HTTP.
func FromBotConfig(cfg *entity.BotConfig) *BotConfigResponse {
	if cfg == nil {
		return nil
	}
	return &BotConfigResponse{
		Owner:          cfg.Owner,
		Active:         cfg.Active,
		PromptTemplate: cfg.PromptTemplate,
		AttendanceMode: cfg.AttendanceMode,
		Evolution:      cfg.Evolution,
		Hours:          cfg.Hours,
		Webhook:        cfg.Webhook,
		UpdatedAt:      cfg.UpdatedAt,
	}
}

// ToggleBotRequest liga/desliga o bot de um owner.
type ToggleBotRequest struct {
	Active bool `json:"bot_ativo"`
}
