package session

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/weldeborn/crystal-grid/internal/session/message"
)

// handleUpdateGameState aplica o update do remetente na partida, devolve o
// estado do oponente e, se a partida foi decidida neste update, emite o
// resultado terminal para os dois lados e descarta a sala.
func handleUpdateGameState(h *GameHandler, session *PlayerSession, payload json.RawMessage) {
	connID := session.Client.ID()

	var req struct {
		Board Board `json:"board"`
		// Ponteiro para diferenciar "score: 0" de campo ausente.
		Score    *int `json:"score"`
		GameOver bool `json:"gameOver"`
	}
	if err := json.Unmarshal(payload, &req); err != nil || req.Score == nil || *req.Score < 0 {
		log.Debug().Str("conn", connID).Msg("malformed update-game-state payload ignored")
		return
	}

	roomID, bound := h.directory.Lookup(connID)
	if !bound {
		return
	}
	room, active := h.rooms[roomID]
	if !active {
		// Referência velha: a partida já saiu do conjunto ativo.
		return
	}

	// Ordem de avaliação documentada: a vitória por pontuação vem ANTES do
	// forfeit por travamento. Se o mesmo update cruza o limiar E reporta
	// gameOver, o remetente vence por pontuação.
	room.ApplyUpdate(connID, req.Board, *req.Score)
	if req.GameOver {
		room.ReportStall(connID)
	}

	// O remetente sempre recebe o último estado conhecido do oponente.
	opponent := room.OpponentOf(connID)
	session.Client.Send() <- message.CreateOpponentUpdate(
		opponent.Score, opponent.Board, opponent.GameOver, opponent.Won,
	)

	if room.Winner() != nil {
		h.finishRoom(room)
	}
}

// finishRoom emite o game-over para os dois lados, com os campos relativos
// a cada destinatário, e remove a partida do conjunto ativo.
func (h *GameHandler) finishRoom(room *GameRoom) {
	winner := room.Winner()
	players := room.Players()

	for _, player := range players {
		recipientSession, online := h.sessions[player.ConnID]
		if online {
			reason := message.ReasonOpponentGameOver
			if player == winner {
				reason = message.ReasonVictory
			}
			opponent := room.OpponentOf(player.ConnID)
			recipientSession.Client.Send() <- message.CreateGameOver(
				player == winner,
				winner.Name,
				player.Score,
				opponent.Score,
				reason,
			)
			recipientSession.State = state_LOBBY
		}
		h.directory.Unbind(player.ConnID)
	}

	delete(h.rooms, room.ID)
	h.publisher.MatchFinished(room.ID, winner.Name, "completed")
	log.Info().Str("room", room.ID).Str("winner", winner.Name).Msg("match ended")
}

func (h *GameHandler) registerMatchHandlers() {
	h.matchRouter["update-game-state"] = handleUpdateGameState
}
