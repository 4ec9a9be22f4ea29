package session

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/weldeborn/crystal-grid/internal/session/message"
)

// handleCancelMatchmaking remove a entrada pendente do jogador.
// Se o pareamento já aconteceu no meio do caminho, o cancelamento é
// silenciosamente ignorado — sem retry, sem escalação.
func handleCancelMatchmaking(h *GameHandler, session *PlayerSession, _ json.RawMessage) {
	connID := session.Client.ID()

	if !h.matchmaker.Cancel(connID) {
		log.Debug().Str("conn", connID).Msg("cancel with no pending entry ignored")
		return
	}

	h.directory.Unbind(connID)
	session.State = state_LOBBY
	session.Client.Send() <- message.CreateMatchmakingCancelled()
	log.Info().Str("conn", connID).Msg("matchmaking cancelled")
}

func (h *GameHandler) registerQueueHandlers() {
	h.queueRouter["cancel-matchmaking"] = handleCancelMatchmaking
}
