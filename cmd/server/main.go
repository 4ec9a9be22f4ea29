// cmd/server/main.go
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/weldeborn/crystal-grid/internal/config"
	"github.com/weldeborn/crystal-grid/internal/events"
	"github.com/weldeborn/crystal-grid/internal/network"
	"github.com/weldeborn/crystal-grid/internal/session"
)

func main() {
	cfg := config.Load()

	// Log estruturado com saída legível no terminal.
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level)

	// Telemetria de partidas é opcional: sem NATS_URL, vira no-op.
	var publisher events.Publisher = events.Noop{}
	if cfg.NATSURL != "" {
		natsPub, err := events.Connect(cfg.NATSURL)
		if err != nil {
			log.Warn().Err(err).Str("url", cfg.NATSURL).Msg("NATS unavailable, match events disabled")
		} else {
			publisher = natsPub
			defer natsPub.Close()
			log.Info().Str("url", cfg.NATSURL).Msg("publishing match events to NATS")
		}
	}

	// 1. Crie uma instância da lógica de jogo.
	gameHandler := session.NewGameHandler(publisher)

	// 2. Crie um novo servidor, injetando sua lógica de jogo nele.
	server := network.NewServer(gameHandler, cfg.StaticDir)

	// 3. Sweeper opcional de partidas ociosas. As varreduras rodam na
	// goroutine do Hub via server.Do, então não há corrida com os eventos.
	if cfg.MatchIdleTimeout > 0 {
		sched, err := session.StartIdleSweeper(gameHandler, server.Do, cfg.SweepInterval, cfg.MatchIdleTimeout)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to start idle match sweeper")
		}
		defer sched.Shutdown()
	}

	// 4. Inicie o servidor.
	if err := server.Listen(cfg.ListenAddr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
