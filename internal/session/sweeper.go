package session

import (
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"

	"github.com/weldeborn/crystal-grid/internal/session/message"
)

// ExpireIdleMatches descarta toda partida sem atualização de estado há mais
// de timeout. Os dois lados recebem um aviso terminal e voltam ao lobby.
// Retorna quantas partidas foram descartadas.
//
// Precisa rodar na goroutine do Hub — use StartIdleSweeper, que injeta a
// varredura lá, em vez de chamar isto de outra goroutine.
func (h *GameHandler) ExpireIdleMatches(timeout time.Duration) int {
	now := time.Now()
	expired := 0

	for roomID, room := range h.rooms {
		if now.Sub(room.IdleSince()) < timeout {
			continue
		}

		for _, player := range room.Players() {
			if sess, online := h.sessions[player.ConnID]; online {
				sess.Client.Send() <- message.CreateMatchExpired()
				sess.State = state_LOBBY
			}
			h.directory.Unbind(player.ConnID)
		}

		delete(h.rooms, roomID)
		h.publisher.MatchFinished(roomID, "", "expired")
		expired++
		log.Info().Str("room", roomID).Dur("idle", now.Sub(room.IdleSince())).Msg("idle match expired")
	}

	return expired
}

// StartIdleSweeper agenda a varredura periódica de partidas ociosas.
// 'do' deve executar a função recebida na goroutine do Hub
// (network.Server.Do), preservando o modelo de serialização do §5.
func StartIdleSweeper(h *GameHandler, do func(func()), interval, timeout time.Duration) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			do(func() {
				h.ExpireIdleMatches(timeout)
			})
		}),
	)
	if err != nil {
		return nil, err
	}

	sched.Start()
	log.Info().Dur("interval", interval).Dur("timeout", timeout).Msg("idle match sweeper started")
	return sched, nil
}
