package session

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/weldeborn/crystal-grid/internal/events"
	"github.com/weldeborn/crystal-grid/internal/network"
	"github.com/weldeborn/crystal-grid/internal/session/message"
)

// CommandHandlerFunc define a assinatura para todas as nossas funções que lidam com comandos.
// Elas recebem o contexto da sessão e o payload bruto da mensagem.
type CommandHandlerFunc func(h *GameHandler, session *PlayerSession, payload json.RawMessage)

// GameHandler implementa network.EventHandler. É o roteador de eventos:
// despacha cada evento de entrada para o Matchmaker, o Directory ou a
// GameRoom certa, e emite as notificações de saída.
//
// Todos os callbacks rodam na goroutine única do Hub, então os mapas aqui
// dispensam locks.
type GameHandler struct {
	sessions   map[string]*PlayerSession // chave: ID da conexão
	matchmaker *Matchmaker
	directory  *Directory
	rooms      map[string]*GameRoom

	publisher events.Publisher

	// Um roteador por estado do jogador.
	lobbyRouter map[string]CommandHandlerFunc
	queueRouter map[string]CommandHandlerFunc
	matchRouter map[string]CommandHandlerFunc
}

// NewGameHandler também inicializa e registra os handlers dos roteadores.
// Um publisher nil vira o Noop — o jogo nunca depende da telemetria.
func NewGameHandler(publisher events.Publisher) *GameHandler {
	if publisher == nil {
		publisher = events.Noop{}
	}
	h := &GameHandler{
		sessions:    make(map[string]*PlayerSession),
		matchmaker:  NewMatchmaker(),
		directory:   NewDirectory(),
		rooms:       make(map[string]*GameRoom),
		publisher:   publisher,
		lobbyRouter: make(map[string]CommandHandlerFunc),
		queueRouter: make(map[string]CommandHandlerFunc),
		matchRouter: make(map[string]CommandHandlerFunc),
	}
	// Populamos os roteadores com seus respectivos comandos.
	h.registerLobbyHandlers()
	h.registerQueueHandlers()
	h.registerMatchHandlers()
	return h
}

// --- Implementação da Interface network.EventHandler ---

func (h *GameHandler) OnConnect(c *network.Client) { h.handleConnect(c) }

func (h *GameHandler) OnDisconnect(c *network.Client) { h.handleDisconnect(c) }

func (h *GameHandler) OnMessage(c *network.Client, msg network.Message) { h.handleMessage(c, msg) }

// handleConnect é chamado pela goroutine do Hub. É seguro modificar o estado aqui.
func (h *GameHandler) handleConnect(c Conn) {
	h.sessions[c.ID()] = NewPlayerSession(c)
	log.Info().Str("conn", c.ID()).Int("sessions", len(h.sessions)).Msg("player connected")
}

// handleMessage seleciona o roteador do estado atual do jogador e despacha.
func (h *GameHandler) handleMessage(c Conn, msg network.Message) {
	session, ok := h.sessions[c.ID()]
	if !ok {
		return // Ignora mensagens de clientes sem sessão.
	}

	var router map[string]CommandHandlerFunc
	switch session.State {
	case state_LOBBY:
		router = h.lobbyRouter
	case state_IN_QUEUE:
		router = h.queueRouter
	case state_IN_MATCH:
		router = h.matchRouter
	default:
		return
	}

	handler, found := router[msg.Type]
	if !found {
		// Evento fora de hora ou desconhecido. Pelo desenho, isso é um
		// no-op silencioso para o cliente — só fica registrado no log.
		// É aqui que um find-match duplicado morre, em vez de criar uma
		// segunda entrada órfã na fila.
		log.Debug().
			Str("conn", c.ID()).
			Str("event", msg.Type).
			Str("state", session.State).
			Msg("event ignored for current state")
		return
	}

	handler(h, session, msg.Payload)
}

// handleDisconnect limpa qualquer entrada pendente ou ativa da conexão.
// Desconexão de transporte, por qualquer causa, passa por aqui.
func (h *GameHandler) handleDisconnect(c Conn) {
	connID := c.ID()
	session, ok := h.sessions[connID]
	if !ok {
		// Se não havia sessão, não há nada para limpar.
		return
	}

	switch session.State {
	case state_IN_QUEUE:
		// Estava na fila: descarta a entrada. Nenhum aviso é necessário,
		// ainda não havia oponente.
		h.matchmaker.Cancel(connID)
		log.Info().Str("conn", connID).Msg("player disconnected while in queue")

	case state_IN_MATCH:
		// Estava em partida: o jogador restante é avisado uma única vez e
		// a partida é descartada na hora, sem comparação de pontuação.
		if roomID, bound := h.directory.Lookup(connID); bound {
			if room, active := h.rooms[roomID]; active {
				opponent := room.OpponentOf(connID)
				if oppSession, online := h.sessions[opponent.ConnID]; online {
					oppSession.Client.Send() <- message.CreateOpponentDisconnected()
					oppSession.State = state_LOBBY
				}
				h.directory.Unbind(opponent.ConnID)
				delete(h.rooms, roomID)
				h.publisher.MatchFinished(roomID, "", "opponent_disconnected")
				log.Info().Str("conn", connID).Str("room", roomID).Msg("player disconnected from active match")
			}
		}
	}

	h.directory.Unbind(connID)
	delete(h.sessions, connID)
	log.Info().Str("conn", connID).Int("sessions", len(h.sessions)).Msg("session removed")
}
