package network

import (
	"encoding/json"
)

// Message é o envelope padrão para toda a comunicação.
// Ele contém um tipo para roteamento e um payload com os dados.
// As structs tag como json:"type" servem para manter a convenção de cada linguagem
// (o cliente do jogo no navegador fala o mesmo envelope em JavaScript).
type Message struct {
	Type    string          `json:"type"`    // Ex: "find-match", "opponent-update",
	Payload json.RawMessage `json:"payload"` // Dados específicos, mantidos em formato JSON bruto para decodificação posterior.
}

// NewMessage monta um envelope a partir de um payload qualquer.
// A serialização acontece aqui, uma única vez, para que os handlers
// trabalhem apenas com structs tipadas.
func NewMessage(msgType string, payload any) Message {
	if payload == nil {
		return Message{Type: msgType}
	}
	payloadBytes, _ := json.Marshal(payload)
	return Message{
		Type:    msgType,
		Payload: payloadBytes,
	}
}
