package whatsapp

import (
	"context"
	"time"

	"github.com/tu-usuario/salao-pro/internal/domain/entity"
)

// StartPolling dispara a verificação periódica da instância até a ponte
// reportar pareamento. Intervalo em minutos, configurado na construção.
// Chamadas repetidas para a mesma instância não criam um segundo poller.
func (m *Manager) StartPolling(ctx context.Context, owner string) {
	m.mu.Lock()
	st := m.get(owner)
	if st.cancelPoll != nil {
		m.mu.Unlock()
		return
	}
	pctx, cancel := context.WithCancel(ctx)
	st.cancelPoll = cancel
	m.mu.Unlock()

	m.log.Debug().Str("owner", owner).Dur("every", m.pollEvery).Msg("poller de pareamento iniciado")
	go m.pollLoop(pctx, owner)
}

// StopPolling cancela o poller da instância, se houver.
func (m *Manager) StopPolling(owner string) {
	m.mu.Lock()
	st := m.get(owner)
	cancel := st.cancelPoll
	st.cancelPoll = nil
	m.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// StopAll cancela todos os pollers (shutdown).
func (m *Manager) StopAll() {
	m.mu.Lock()
	cancels := make([]context.CancelFunc, 0, len(m.instances))
	for _, st := range m.instances {
		if st.cancelPoll != nil {
			cancels = append(cancels, st.cancelPoll)
			st.cancelPoll = nil
		}
	}
	m.mu.Unlock()
	for _, cancel := range cancels {
		cancel()
	}
}

func (m *Manager) pollLoop(ctx context.Context, owner string) {
	ticker := time.NewTicker(m.pollEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if m.pollOnce(ctx, owner) {
				m.StopPolling(owner)
				return
			}
		}
	}
}

// pollOnce consulta o estado na ponte e devolve true quando detecta o
// pareamento. Só promove para connected; um "close" transitório durante o
// pareamento não rebaixa a instância.
//
// O poller apenas observa a sequência, nunca emite tag nova: um tick não
// pode invalidar uma chamada do usuário em andamento (e descartar o artefato
// de pareamento que ela acabou de obter). O inverso vale: qualquer chamada
// do usuário concluída durante o tick torna a resposta do tick obsoleta.
func (m *Manager) pollOnce(ctx context.Context, owner string) bool {
	m.mu.Lock()
	st := m.get(owner)
	tag := st.seq
	m.mu.Unlock()

	state, err := m.bridge.ConnectionState(ctx, owner)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.log.Warn().Err(err).Str("owner", owner).Msg("poll de pareamento falhou")
		return false
	}
	if tag != st.seq || st.generateInFlight {
		return false
	}
	if state != entity.BridgeStateOpen {
		return false
	}
	st.inst.Exists = true
	st.inst.State = entity.StateConnected
	st.inst.LastCode = nil
	m.log.Info().Str("owner", owner).Msg("pareamento confirmado pela ponte")
	return true
}
