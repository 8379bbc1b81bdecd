package entity

import "time"

// Modos de atendimento do bot.
const (
	AttendanceAuto   = "auto"
	AttendanceSemi   = "semi"
	AttendanceManual = "manual"
)

// DefaultPromptTemplate é o prompt usado quando o estabelecimento ainda não
// personalizou o seu.
const DefaultPromptTemplate = `Você é o assistente virtual de um salão de beleza. ` +
	`Atenda com cordialidade, responda dúvidas sobre serviços, preços e horários ` +
	`e ajude o cliente a agendar, remarcar ou cancelar um horário. ` +
	`Se não souber responder, encaminhe para um atendente humano.`

// DefaultWebhookEvents são os eventos da Evolution assinados por padrão.
var DefaultWebhookEvents = []string{
	"MESSAGES_UPSERT",
	"MESSAGES_UPDATE",
	"SEND_MESSAGE",
	"CONNECTION_UPDATE",
	"QR_UPDATE",
}

// EvolutionSettings opções operacionais repassadas à ponte.
type EvolutionSettings struct {
	RejectCalls  bool `json:"reject_calls"`
	ReadMessages bool `json:"read_messages"`
	GroupsIgnore bool `json:"groups_ignore"`
}

// BusinessHours janela de atendimento do bot (HH:MM).
type BusinessHours struct {
	Start string `json:"inicio"`
	End   string `json:"fim"`
}

// WebhookSettings configuração do webhook da instância.
// Invariante: Enabled acompanha BotConfig.Active — bot desligado implica
// webhook desligado, com URL e eventos limpos.
type WebhookSettings struct {
	Enabled bool     `json:"enabled"`
	URL     string   `json:"url"`
	Events  []string `json:"events"`
}

// BotConfig configuração operacional do bot de um estabelecimento (ou do
// suporte da plataforma).
type BotConfig struct {
	Owner          string            `json:"-"`
	Active         bool              `json:"bot_ativo"`
	PromptTemplate string            `json:"prompt_template"`
	AttendanceMode string            `json:"attendance_mode"`
	Evolution      EvolutionSettings `json:"evolution_settings"`
	Hours          BusinessHours     `json:"horario_atendimento"`
	Webhook        WebhookSettings   `json:"webhook_settings"`
	UpdatedAt      time.Time         `json:"-"`
}

// DefaultBotConfig devolve a configuração padrão de um owner: bot ativo,
// horário 09:00–18:00, chamadas rejeitadas, mensagens marcadas como lidas,
// grupos ignorados e webhook apontando para a rota do owner.
func DefaultBotConfig(owner, webhookBaseURL string) BotConfig {
	return BotConfig{
		Owner:          owner,
		Active:         true,
		PromptTemplate: DefaultPromptTemplate,
		AttendanceMode: AttendanceAuto,
		Evolution: EvolutionSettings{
			RejectCalls:  true,
			ReadMessages: true,
			GroupsIgnore: true,
		},
		Hours: BusinessHours{Start: "09:00", End: "18:00"},
		Webhook: WebhookSettings{
			Enabled: true,
			URL:     webhookBaseURL + "/api/webhooks/" + owner + "/",
			Events:  append([]string(nil), DefaultWebhookEvents...),
		},
	}
}
