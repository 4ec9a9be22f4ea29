package session

import (
	"github.com/weldeborn/crystal-grid/internal/network"
)

// Constantes de estado da sessão para evitar erros de digitação.
// A máquina de estados por conexão é explícita: cada estado tem o seu
// próprio roteador de comandos, então um evento fora de hora simplesmente
// não encontra handler — nada de inferir estado por presença em mapas.
const (
	state_LOBBY    = "lobby"    // Conectado, sem fila e sem partida.
	state_IN_QUEUE = "in-queue" // Esperando por um oponente.
	state_IN_MATCH = "in-match" // Em uma partida ativa.
)

// Conn é a visão que a camada de sessão tem de uma conexão: uma identidade
// estável e um canal de saída. *network.Client implementa a interface; os
// testes usam uma conexão falsa.
type Conn interface {
	ID() string
	Send() chan<- network.Message
}

// PlayerSession representa um jogador único e conectado ao servidor.
type PlayerSession struct {
	Client Conn
	State  string // Usará as constantes state_LOBBY, state_IN_QUEUE ou state_IN_MATCH.
}

// NewPlayerSession cria e inicializa uma nova sessão de jogador.
func NewPlayerSession(client Conn) *PlayerSession {
	return &PlayerSession{
		Client: client,
		State:  state_LOBBY, // Todo jogador começa no lobby.
	}
}
