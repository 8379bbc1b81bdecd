package whatsapp_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/salao-pro/internal/application/whatsapp"
	"github.com/tu-usuario/salao-pro/internal/domain"
	"github.com/tu-usuario/salao-pro/internal/domain/entity"
	"github.com/tu-usuario/salao-pro/pkg/logger"
)

// fakeBridge ponte controlável: respostas fixas, erros injetáveis e canais
// para segurar uma chamada em andamento nos testes de concorrência.
type fakeBridge struct {
	mu sync.Mutex

	exists   bool
	state    string
	artifact entity.PairingArtifact

	existsErr   error
	stateErr    error
	createErr   error
	generateErr error
	logoutErr   error

	logoutCalls  int
	webhookCalls int

	// Se definidos, GenerateCode sinaliza em started e espera release.
	generateStarted chan struct{}
	generateRelease chan struct{}
	// Idem para InstanceExists (segura um check inteiro).
	existsStarted chan struct{}
	existsRelease chan struct{}
}

func (f *fakeBridge) InstanceExists(_ context.Context, _ string) (bool, error) {
	f.mu.Lock()
	started, release := f.existsStarted, f.existsRelease
	exists, err := f.exists, f.existsErr
	f.mu.Unlock()
	if started != nil {
		started <- struct{}{}
		<-release
		// Relê depois de liberado: o teste pode ter mudado a resposta.
		f.mu.Lock()
		exists, err = f.exists, f.existsErr
		f.mu.Unlock()
	}
	return exists, err
}

func (f *fakeBridge) CreateInstance(_ context.Context, _, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr == nil {
		f.exists = true
	}
	return f.createErr
}

func (f *fakeBridge) ConnectionState(_ context.Context, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state, f.stateErr
}

func (f *fakeBridge) GenerateCode(_ context.Context, _ string) (*entity.PairingArtifact, error) {
	f.mu.Lock()
	started, release := f.generateStarted, f.generateRelease
	art, err := f.artifact, f.generateErr
	f.mu.Unlock()
	if started != nil {
		started <- struct{}{}
		<-release
	}
	if err != nil {
		return nil, err
	}
	cp := art
	return &cp, nil
}

func (f *fakeBridge) Logout(_ context.Context, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logoutCalls++
	return f.logoutErr
}

func (f *fakeBridge) SetWebhook(_ context.Context, _, _ string, _ []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.webhookCalls++
	return nil
}

func (f *fakeBridge) setState(state string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = state
}

// staticWebhooks fonte fixa de configuração de webhook.
type staticWebhooks struct {
	enabled bool
}

func (s staticWebhooks) WebhookFor(_ context.Context, owner string) (bool, string, []string, error) {
	return s.enabled, "https://app.test/api/webhooks/" + owner + "/", entity.DefaultWebhookEvents, nil
}

func newManager(bridge *fakeBridge) *whatsapp.Manager {
	return whatsapp.NewManager(bridge, staticWebhooks{enabled: true}, logger.Nop(), time.Minute)
}

func TestNormalizeQRPayload(t *testing.T) {
	raw := "iVBORw0KGgoAAAANSUhEUg=="
	normalized := whatsapp.NormalizeQRPayload(raw)
	assert.Equal(t, "data:image/png;base64,"+raw, normalized)

	// Idempotente: normalizar de novo não duplica o prefixo.
	assert.Equal(t, normalized, whatsapp.NormalizeQRPayload(normalized))
	assert.Equal(t, "", whatsapp.NormalizeQRPayload(""))
	already := "data:image/jpeg;base64,abc"
	assert.Equal(t, already, whatsapp.NormalizeQRPayload(already))
}

func TestCheck_InstanciaInexistente(t *testing.T) {
	m := newManager(&fakeBridge{exists: false})
	inst, err := m.CheckExistingInstance(context.Background(), "salon_1")
	require.NoError(t, err)
	assert.False(t, inst.Exists)
	assert.Equal(t, entity.StateNotProvisioned, inst.State)
}

func TestCheck_InstanciaPareada(t *testing.T) {
	m := newManager(&fakeBridge{exists: true, state: entity.BridgeStateOpen})
	inst, err := m.CheckExistingInstance(context.Background(), "salon_1")
	require.NoError(t, err)
	assert.True(t, inst.Exists)
	assert.Equal(t, entity.StateConnected, inst.State)
	assert.Nil(t, inst.LastCode)
}

func TestCheck_InstanciaExisteMasNaoPareada(t *testing.T) {
	m := newManager(&fakeBridge{exists: true, state: "close"})
	inst, err := m.CheckExistingInstance(context.Background(), "salon_1")
	require.NoError(t, err)
	assert.Equal(t, entity.StateDisconnected, inst.State)
}

// Falha da ponte nunca transiciona o estado.
func TestCheck_FalhaDaPonteMantemEstado(t *testing.T) {
	bridge := &fakeBridge{existsErr: domain.ErrBridgeUnavailable}
	m := newManager(bridge)

	inst, err := m.CheckExistingInstance(context.Background(), "salon_1")
	assert.ErrorIs(t, err, domain.ErrBridgeUnavailable)
	assert.Equal(t, entity.StateUnknown, inst.State, "o estado fica como estava")
}

func TestCreate_ProvisionaEAplicaWebhook(t *testing.T) {
	bridge := &fakeBridge{}
	m := newManager(bridge)

	inst, err := m.CreateInstance(context.Background(), "salon_1", "5511988887777")
	require.NoError(t, err)
	assert.True(t, inst.Exists)
	assert.Equal(t, entity.StateDisconnected, inst.State)
	assert.Equal(t, 1, bridge.webhookCalls, "o webhook vigente é aplicado após provisionar")
}

func TestCreate_FalhaEhRetryable(t *testing.T) {
	bridge := &fakeBridge{createErr: domain.ErrBridgeUnavailable}
	m := newManager(bridge)

	_, err := m.CreateInstance(context.Background(), "salon_1", "5511988887777")
	assert.ErrorIs(t, err, domain.ErrBridgeUnavailable)
	assert.Equal(t, entity.StateUnknown, m.Snapshot("salon_1").State)
	assert.Zero(t, bridge.webhookCalls)

	// A mesma chamada repetida funciona quando a ponte volta.
	bridge.mu.Lock()
	bridge.createErr = nil
	bridge.mu.Unlock()
	inst, err := m.CreateInstance(context.Background(), "salon_1", "5511988887777")
	require.NoError(t, err)
	assert.Equal(t, entity.StateDisconnected, inst.State)
}

func TestGenerate_CodigoNormalizado(t *testing.T) {
	bridge := &fakeBridge{artifact: entity.PairingArtifact{PairingCode: "ABCD-1234", Code: "payloadcru", Count: 1}}
	m := newManager(bridge)
	_, err := m.CreateInstance(context.Background(), "salon_1", "5511988887777")
	require.NoError(t, err)

	inst, err := m.GenerateCode(context.Background(), "salon_1")
	require.NoError(t, err)
	assert.Equal(t, entity.StateConnecting, inst.State)
	require.NotNil(t, inst.LastCode)
	assert.Equal(t, "data:image/png;base64,payloadcru", inst.LastCode.Code)
	assert.Equal(t, "ABCD-1234", inst.LastCode.PairingCode)
}

// Transição provisória: falha na geração reverte connecting → disconnected.
func TestGenerate_FalhaReverteConnecting(t *testing.T) {
	bridge := &fakeBridge{generateErr: domain.ErrBridgeUnavailable}
	m := newManager(bridge)
	_, err := m.CreateInstance(context.Background(), "salon_1", "5511988887777")
	require.NoError(t, err)

	inst, err := m.GenerateCode(context.Background(), "salon_1")
	assert.ErrorIs(t, err, domain.ErrBridgeUnavailable)
	assert.Equal(t, entity.StateDisconnected, inst.State)
	assert.Nil(t, inst.LastCode)
}

func TestGenerate_SemInstanciaProvisionada(t *testing.T) {
	m := newManager(&fakeBridge{exists: false})
	_, err := m.CheckExistingInstance(context.Background(), "salon_1")
	require.NoError(t, err)

	_, err = m.GenerateCode(context.Background(), "salon_1")
	assert.ErrorIs(t, err, domain.ErrInstanceNotProvisioned)
}

// Duas gerações concorrentes para a mesma instância: a segunda é rejeitada.
func TestGenerate_SingleFlight(t *testing.T) {
	bridge := &fakeBridge{
		artifact:        entity.PairingArtifact{Code: "payload"},
		generateStarted: make(chan struct{}, 1),
		generateRelease: make(chan struct{}),
	}
	m := newManager(bridge)
	_, err := m.CreateInstance(context.Background(), "salon_1", "5511988887777")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := m.GenerateCode(context.Background(), "salon_1")
		done <- err
	}()
	<-bridge.generateStarted // a primeira está presa dentro da ponte

	_, err = m.GenerateCode(context.Background(), "salon_1")
	assert.ErrorIs(t, err, domain.ErrRequestInFlight)

	close(bridge.generateRelease)
	require.NoError(t, <-done)
	assert.Equal(t, entity.StateConnecting, m.Snapshot("salon_1").State)
}

// Corrida entre um check lento e uma geração de código: a resposta do check,
// emitida antes, chega depois e é descartada — o connecting prevalece.
func TestCheck_RespostaObsoletaDescartada(t *testing.T) {
	bridge := &fakeBridge{
		exists:        true,
		state:         "close",
		artifact:      entity.PairingArtifact{Code: "payload"},
		existsStarted: make(chan struct{}, 1),
		existsRelease: make(chan struct{}),
	}
	m := newManager(bridge)
	_, err := m.CreateInstance(context.Background(), "salon_1", "5511988887777")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := m.CheckExistingInstance(context.Background(), "salon_1")
		done <- err
	}()
	<-bridge.existsStarted // check preso dentro da ponte

	// Enquanto isso o usuário gera um código: sequência mais nova.
	inst, err := m.GenerateCode(context.Background(), "salon_1")
	require.NoError(t, err)
	require.Equal(t, entity.StateConnecting, inst.State)

	close(bridge.existsRelease)
	require.NoError(t, <-done)

	final := m.Snapshot("salon_1")
	assert.Equal(t, entity.StateConnecting, final.State,
		"o check atrasado não pode rebaixar o connecting")
	require.NotNil(t, final.LastCode)
}

func TestDisconnect_LimpaCodigoEPara(t *testing.T) {
	bridge := &fakeBridge{artifact: entity.PairingArtifact{Code: "payload"}}
	m := newManager(bridge)
	_, err := m.CreateInstance(context.Background(), "salon_1", "5511988887777")
	require.NoError(t, err)
	_, err = m.GenerateCode(context.Background(), "salon_1")
	require.NoError(t, err)

	inst, err := m.Disconnect(context.Background(), "salon_1")
	require.NoError(t, err)
	assert.Equal(t, entity.StateDisconnected, inst.State)
	assert.Nil(t, inst.LastCode)
	assert.Equal(t, 1, bridge.logoutCalls)
	assert.True(t, inst.Exists, "desconectar não desprovisiona")
}

func TestDisconnect_FalhaNaoMudaEstado(t *testing.T) {
	bridge := &fakeBridge{artifact: entity.PairingArtifact{Code: "payload"}, logoutErr: errors.New("timeout")}
	m := newManager(bridge)
	_, err := m.CreateInstance(context.Background(), "salon_1", "5511988887777")
	require.NoError(t, err)
	_, err = m.GenerateCode(context.Background(), "salon_1")
	require.NoError(t, err)

	inst, err := m.Disconnect(context.Background(), "salon_1")
	assert.Error(t, err)
	assert.Equal(t, entity.StateConnecting, inst.State)
	assert.NotNil(t, inst.LastCode)
}

// O poller promove a instância para connected quando a ponte reporta "open"
// e para sozinho em seguida.
func TestPoller_DetectaPareamento(t *testing.T) {
	bridge := &fakeBridge{exists: true, state: "close", artifact: entity.PairingArtifact{Code: "payload"}}
	m := whatsapp.NewManager(bridge, nil, logger.Nop(), 10*time.Millisecond)
	defer m.StopAll()

	_, err := m.CreateInstance(context.Background(), "salon_1", "5511988887777")
	require.NoError(t, err)
	_, err = m.GenerateCode(context.Background(), "salon_1")
	require.NoError(t, err)

	m.StartPolling(context.Background(), "salon_1")

	// Alguns ticks com "close": continua connecting.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, entity.StateConnecting, m.Snapshot("salon_1").State,
		"um 'close' transitório durante o pareamento não rebaixa a instância")

	bridge.setState(entity.BridgeStateOpen)
	require.Eventually(t, func() bool {
		return m.Snapshot("salon_1").State == entity.StateConnected
	}, time.Second, 10*time.Millisecond)
	assert.Nil(t, m.Snapshot("salon_1").LastCode)
}

// Ticks do poller durante uma geração de código em andamento não podem
// invalidar a chamada do usuário: o artefato recém-emitido prevalece.
func TestPoller_NaoInvalidaGeracaoEmAndamento(t *testing.T) {
	bridge := &fakeBridge{
		exists:          true,
		state:           "close",
		artifact:        entity.PairingArtifact{Code: "payload"},
		generateStarted: make(chan struct{}, 1),
		generateRelease: make(chan struct{}),
	}
	m := whatsapp.NewManager(bridge, nil, logger.Nop(), 10*time.Millisecond)
	defer m.StopAll()

	_, err := m.CreateInstance(context.Background(), "salon_1", "5511988887777")
	require.NoError(t, err)
	m.StartPolling(context.Background(), "salon_1")

	done := make(chan error, 1)
	go func() {
		_, err := m.GenerateCode(context.Background(), "salon_1")
		done <- err
	}()
	<-bridge.generateStarted // geração presa dentro da ponte

	// Vários ticks do poller acontecem com a geração ainda em voo.
	time.Sleep(50 * time.Millisecond)

	close(bridge.generateRelease)
	require.NoError(t, <-done)

	final := m.Snapshot("salon_1")
	assert.Equal(t, entity.StateConnecting, final.State)
	require.NotNil(t, final.LastCode, "o artefato gerado sobrevive aos ticks do poller")
	assert.Equal(t, "data:image/png;base64,payload", final.LastCode.Code)
}

// Cancelar o contexto mata o poller sem vazamento de transição.
func TestPoller_CancelamentoInterrompe(t *testing.T) {
	bridge := &fakeBridge{exists: true, state: "close"}
	m := whatsapp.NewManager(bridge, nil, logger.Nop(), 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	_, err := m.CreateInstance(ctx, "salon_1", "5511988887777")
	require.NoError(t, err)
	m.StartPolling(ctx, "salon_1")

	cancel()
	time.Sleep(30 * time.Millisecond)
	bridge.setState(entity.BridgeStateOpen)
	time.Sleep(50 * time.Millisecond)

	assert.NotEqual(t, entity.StateConnected, m.Snapshot("salon_1").State,
		"poller cancelado não pode continuar promovendo estado")
}

func TestSnapshots_OrdenadosPorOwner(t *testing.T) {
	m := newManager(&fakeBridge{})
	_, _ = m.CreateInstance(context.Background(), "salon_b", "1")
	_, _ = m.CreateInstance(context.Background(), "salon_a", "2")
	_, _ = m.CreateInstance(context.Background(), entity.SupportOwner, "3")

	out := m.Snapshots()
	require.Len(t, out, 3)
	assert.Equal(t, "salon_a", out[0].Owner)
	assert.Equal(t, "salon_b", out[1].Owner)
	assert.Equal(t, entity.SupportOwner, out[2].Owner)
}
