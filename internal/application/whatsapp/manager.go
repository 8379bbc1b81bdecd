package whatsapp

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tu-usuario/salao-pro/internal/domain"
	"github.com/tu-usuario/salao-pro/internal/domain/entity"
	"github.com/tu-usuario/salao-pro/pkg/logger"
)

// Manager dirige o ciclo de vida das instâncias WhatsApp: uma por salão mais
// a reservada ao suporte, todas no mesmo mapa, cada uma com seu contador de
// sequência e seu poller.
//
// Regra de ordenação: cada chamada do usuário à ponte recebe uma tag
// monotônica por instância; respostas cuja tag não é a mais recente emitida
// são descartadas, para que um check atrasado nunca sobrescreva o
// "connecting" de um código recém-gerado. O poller só observa a sequência
// (ver pollOnce).
type Manager struct {
	bridge    Bridge
	webhooks  WebhookSource // opcional
	log       *logger.Logger
	pollEvery time.Duration

	mu        sync.Mutex
	instances map[string]*instanceState
}

type instanceState struct {
	inst             entity.Instance
	seq              uint64 // última tag emitida para esta instância
	checkInFlight    bool
	generateInFlight bool
	cancelPoll       context.CancelFunc
}

// NewManager constrói o gerenciador de instâncias.
func NewManager(bridge Bridge, webhooks WebhookSource, log *logger.Logger, pollEvery time.Duration) *Manager {
	if pollEvery <= 0 {
		pollEvery = 2 * time.Minute
	}
	return &Manager{
		bridge:    bridge,
		webhooks:  webhooks,
		log:       log,
		pollEvery: pollEvery,
		instances: make(map[string]*instanceState),
	}
}

// NormalizeQRPayload converte o payload cru da ponte em um data-URI
// renderizável. Idempotente: payload já normalizado não ganha prefixo duplo.
func NormalizeQRPayload(code string) string {
	if code == "" || strings.HasPrefix(code, "data:image") {
		return code
	}
	return "data:image/png;base64," + code
}

// get devolve (criando se preciso) o estado da instância. Chamar com mu preso.
func (m *Manager) get(owner string) *instanceState {
	st, ok := m.instances[owner]
	if !ok {
		st = &instanceState{inst: entity.Instance{Owner: owner, State: entity.StateUnknown}}
		m.instances[owner] = st
	}
	return st
}

func snapshot(st *instanceState) entity.Instance {
	inst := st.inst
	if st.inst.LastCode != nil {
		code := *st.inst.LastCode
		inst.LastCode = &code
	}
	return inst
}

// Snapshot devolve o estado corrente da instância sem tocar na ponte.
func (m *Manager) Snapshot(owner string) entity.Instance {
	m.mu.Lock()
	defer m.mu.Unlock()
	return snapshot(m.get(owner))
}

// Snapshots devolve todas as instâncias conhecidas, ordenadas por owner
// (visão geral do admin).
func (m *Manager) Snapshots() []entity.Instance {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]entity.Instance, 0, len(m.instances))
	for _, st := range m.instances {
		out = append(out, snapshot(st))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Owner < out[j].Owner })
	return out
}

// CheckExistingInstance consulta a ponte: a instância existe? em que estado?
// Só uma verificação em andamento por instância; uma segunda é rejeitada com
// ErrRequestInFlight em vez de intercalar respostas.
func (m *Manager) CheckExistingInstance(ctx context.Context, owner string) (entity.Instance, error) {
	m.mu.Lock()
	st := m.get(owner)
	if st.checkInFlight {
		inst := snapshot(st)
		m.mu.Unlock()
		return inst, domain.ErrRequestInFlight
	}
	st.checkInFlight = true
	st.seq++
	tag := st.seq
	m.mu.Unlock()

	exists, err := m.bridge.InstanceExists(ctx, owner)
	var bridgeState string
	if err == nil && exists {
		bridgeState, err = m.bridge.ConnectionState(ctx, owner)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	st.checkInFlight = false
	if err != nil {
		// Falha não transiciona nada: o chamador decide o que mostrar.
		return snapshot(st), err
	}
	if tag != st.seq {
		m.log.Debug().Str("owner", owner).Uint64("tag", tag).Uint64("seq", st.seq).
			Msg("resposta obsoleta de check descartada")
		return snapshot(st), nil
	}
	st.inst.Exists = exists
	switch {
	case !exists:
		st.inst.State = entity.StateNotProvisioned
		st.inst.LastCode = nil
	case bridgeState == entity.BridgeStateOpen:
		st.inst.State = entity.StateConnected
		st.inst.LastCode = nil
	default:
		st.inst.State = entity.StateDisconnected
		st.inst.LastCode = nil
	}
	return snapshot(st), nil
}

// CreateInstance provisiona a instância na ponte. Em caso de sucesso a
// instância passa a existir, desconectada; a configuração de webhook vigente
// do owner é aplicada em seguida (melhor esforço).
func (m *Manager) CreateInstance(ctx context.Context, owner, number string) (entity.Instance, error) {
	m.mu.Lock()
	st := m.get(owner)
	if st.checkInFlight {
		inst := snapshot(st)
		m.mu.Unlock()
		return inst, domain.ErrRequestInFlight
	}
	st.checkInFlight = true
	st.seq++
	tag := st.seq
	m.mu.Unlock()

	err := m.bridge.CreateInstance(ctx, owner, number)
	if err == nil {
		m.applyWebhook(ctx, owner)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	st.checkInFlight = false
	if err != nil {
		return snapshot(st), err // retryable, estado intacto
	}
	if tag != st.seq {
		return snapshot(st), nil
	}
	st.inst.Exists = true
	st.inst.State = entity.StateDisconnected
	st.inst.LastCode = nil
	m.log.Info().Str("owner", owner).Msg("instância provisionada na ponte")
	return snapshot(st), nil
}

// GenerateCode pede um artefato de pareamento novo. A transição para
// "connecting" é otimista e revertida para "disconnected" se a ponte falhar.
func (m *Manager) GenerateCode(ctx context.Context, owner string) (entity.Instance, error) {
	m.mu.Lock()
	st := m.get(owner)
	if st.generateInFlight {
		inst := snapshot(st)
		m.mu.Unlock()
		return inst, domain.ErrRequestInFlight
	}
	if st.inst.State == entity.StateNotProvisioned {
		inst := snapshot(st)
		m.mu.Unlock()
		return inst, domain.ErrInstanceNotProvisioned
	}
	st.generateInFlight = true
	st.seq++
	tag := st.seq
	st.inst.State = entity.StateConnecting // provisório
	m.mu.Unlock()

	art, err := m.bridge.GenerateCode(ctx, owner)

	m.mu.Lock()
	defer m.mu.Unlock()
	st.generateInFlight = false
	if tag != st.seq {
		return snapshot(st), nil
	}
	if err != nil {
		st.inst.State = entity.StateDisconnected // reverte o otimismo
		return snapshot(st), err
	}
	code := *art
	code.Code = NormalizeQRPayload(code.Code)
	st.inst.LastCode = &code
	st.inst.State = entity.StateConnecting
	m.log.Info().Str("owner", owner).Int("count", code.Count).Msg("código de pareamento gerado")
	return snapshot(st), nil
}

// Disconnect encerra o pareamento na ponte e volta a instância para
// "disconnected". O poller da instância, se houver, é cancelado.
func (m *Manager) Disconnect(ctx context.Context, owner string) (entity.Instance, error) {
	m.mu.Lock()
	st := m.get(owner)
	st.seq++
	tag := st.seq
	m.mu.Unlock()

	err := m.bridge.Logout(ctx, owner)

	m.mu.Lock()
	if err != nil {
		inst := snapshot(st)
		m.mu.Unlock()
		return inst, err
	}
	if tag == st.seq {
		st.inst.State = entity.StateDisconnected
		st.inst.LastCode = nil
	}
	inst := snapshot(st)
	m.mu.Unlock()

	m.StopPolling(owner)
	m.log.Info().Str("owner", owner).Msg("instância desconectada")
	return inst, nil
}

// applyWebhook aplica à ponte a configuração de webhook vigente do owner.
// Melhor esforço: falha vira log, nunca erro do provisionamento.
func (m *Manager) applyWebhook(ctx context.Context, owner string) {
	if m.webhooks == nil {
		return
	}
	enabled, url, events, err := m.webhooks.WebhookFor(ctx, owner)
	if err != nil {
		m.log.Warn().Err(err).Str("owner", owner).Msg("não foi possível ler a configuração de webhook")
		return
	}
	if !enabled {
		return
	}
	if err := m.bridge.SetWebhook(ctx, owner, url, events); err != nil {
		m.log.Warn().Err(err).Str("owner", owner).Msg("falha ao configurar webhook na ponte")
	}
}
