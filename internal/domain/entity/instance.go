package entity

// Estados do ciclo de vida de uma instância WhatsApp.
// As transições são dirigidas pelas respostas da ponte, nunca de forma
// otimista — exceto o "connecting" provisório logo após gerar um código.
type ConnectionState string

const (
	StateUnknown        ConnectionState = "unknown"
	StateNotProvisioned ConnectionState = "not_provisioned"
	StateDisconnected   ConnectionState = "disconnected"
	StateConnecting     ConnectionState = "connecting"
	StateConnected      ConnectionState = "connected"
)

// BridgeStateOpen é o estado que a ponte reporta quando o número está pareado.
const BridgeStateOpen = "open"

// SupportOwner é a chave da instância reservada ao suporte da plataforma.
const SupportOwner = "support"

// SalonOwnerKey devolve a chave de instância de um salão.
func SalonOwnerKey(salonID string) string {
	return "salon_" + salonID
}

// PairingArtifact é o artefato de pareamento emitido pela ponte: um payload
// escaneável (QR) e/ou um código numérico curto.
type PairingArtifact struct {
	PairingCode string `json:"pairingCode,omitempty"`
	Code        string `json:"code,omitempty"` // payload do QR, normalizado para data-URI
	Count       int    `json:"count,omitempty"`
}

// Instance é o snapshot de uma instância de conexão (uma por salão, mais a
// de suporte).
type Instance struct {
	Owner    string           `json:"owner"`
	Exists   bool             `json:"exists"`
	State    ConnectionState  `json:"state"`
	LastCode *PairingArtifact `json:"last_code,omitempty"`
}
