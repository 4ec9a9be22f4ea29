package session

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/weldeborn/crystal-grid/internal/session/message"
)

// handleFindMatch processa o pedido de partida de um jogador no lobby.
//
// Como o comando só existe no roteador do lobby, uma conexão que já está
// pendente ou em partida nunca chega aqui — o find-match duplicado é
// descartado pelo despacho por estado, nunca vira entrada órfã.
func handleFindMatch(h *GameHandler, session *PlayerSession, payload json.RawMessage) {
	var req struct {
		GameMode   string `json:"gameMode"`
		Difficulty int    `json:"difficulty"`
		PlayerName string `json:"playerName"`
	}
	if err := json.Unmarshal(payload, &req); err != nil {
		// Payload quebrado é no-op, como todo evento malformado.
		log.Debug().Str("conn", session.Client.ID()).Err(err).Msg("malformed find-match payload ignored")
		return
	}

	connID := session.Client.ID()
	room, entry := h.matchmaker.Submit(connID, req.GameMode, req.Difficulty, req.PlayerName)

	if room == nil {
		// Ninguém compatível: o jogador vira uma entrada pendente.
		h.directory.Bind(connID, entry.RoomID)
		session.State = state_IN_QUEUE
		session.Client.Send() <- message.CreateWaitingForPlayer()
		log.Info().
			Str("conn", connID).
			Str("room", entry.RoomID).
			Str("mode", entry.GameMode).
			Str("player", entry.Name).
			Msg("player waiting for match")
		return
	}

	// Pareou! A entrada antiga é o lado A ("player 1"), o solicitante o lado B.
	players := room.Players()
	sideA, sideB := players[0], players[1]

	h.rooms[room.ID] = room
	// O lado A já estava vinculado a este mesmo ID desde que entrou na fila;
	// só o solicitante precisa do Bind novo.
	h.directory.Bind(sideB.ConnID, room.ID)

	sessionA, okA := h.sessions[sideA.ConnID]
	sessionB := session
	if !okA {
		// Inalcançável na prática: uma desconexão teria removido a entrada
		// pendente antes de chegarmos aqui.
		log.Error().Str("room", room.ID).Msg("paired player has no session, dropping match")
		delete(h.rooms, room.ID)
		h.directory.Unbind(sideB.ConnID)
		return
	}

	sessionA.State = state_IN_MATCH
	sessionB.State = state_IN_MATCH
	room.Start()

	// Cada lado recebe a visão do SEU oponente e o flag estável de lado.
	sessionA.Client.Send() <- message.CreateGameFound(sideB.Name, sideB.Difficulty, true)
	sessionB.Client.Send() <- message.CreateGameFound(sideA.Name, sideA.Difficulty, false)

	h.publisher.MatchCreated(room.ID, [2]string{sideA.Name, sideB.Name})
	log.Info().
		Str("room", room.ID).
		Str("player1", sideA.Name).
		Str("player2", sideB.Name).
		Msg("match started")
}

// registerLobbyHandlers popula o roteador com os comandos disponíveis no lobby.
func (h *GameHandler) registerLobbyHandlers() {
	h.lobbyRouter["find-match"] = handleFindMatch
}
