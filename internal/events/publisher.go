// Package events publica o ciclo de vida das partidas em um stream NATS.
//
// É telemetria pura: o servidor continua sendo a única autoridade sobre o
// estado das partidas, e uma falha de publicação nunca afeta o jogo.
package events

import (
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

const (
	subjectMatchCreated  = "crystalgrid.match.created"
	subjectMatchFinished = "crystalgrid.match.finished"
)

// Publisher é a interface que a camada de sessão usa para anunciar partidas.
type Publisher interface {
	MatchCreated(matchID string, players [2]string)
	MatchFinished(matchID, winnerName, reason string)
	Close()
}

// MatchCreatedEvent é o payload publicado quando dois jogadores são pareados.
type MatchCreatedEvent struct {
	MatchID   string    `json:"matchId"`
	Players   [2]string `json:"players"`
	CreatedAt time.Time `json:"createdAt"`
}

// MatchFinishedEvent é o payload publicado quando uma partida sai do
// conjunto ativo, por qualquer motivo terminal.
type MatchFinishedEvent struct {
	MatchID    string    `json:"matchId"`
	WinnerName string    `json:"winnerName,omitempty"`
	Reason     string    `json:"reason"`
	FinishedAt time.Time `json:"finishedAt"`
}

// NATSPublisher publica os eventos em um servidor NATS.
type NATSPublisher struct {
	nc *nats.Conn
}

// Connect abre a conexão com o NATS. A reconexão automática fica por conta
// da própria biblioteca.
func Connect(url string) (*NATSPublisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("crystal-grid-server"),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, err
	}
	return &NATSPublisher{nc: nc}, nil
}

func (p *NATSPublisher) MatchCreated(matchID string, players [2]string) {
	p.publish(subjectMatchCreated, MatchCreatedEvent{
		MatchID:   matchID,
		Players:   players,
		CreatedAt: time.Now(),
	})
}

func (p *NATSPublisher) MatchFinished(matchID, winnerName, reason string) {
	p.publish(subjectMatchFinished, MatchFinishedEvent{
		MatchID:    matchID,
		WinnerName: winnerName,
		Reason:     reason,
		FinishedAt: time.Now(),
	})
}

func (p *NATSPublisher) Close() {
	p.nc.Drain()
}

func (p *NATSPublisher) publish(subject string, event any) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("subject", subject).Msg("failed to marshal match event")
		return
	}
	if err := p.nc.Publish(subject, data); err != nil {
		// Telemetria nunca derruba o jogo: loga e segue.
		log.Warn().Err(err).Str("subject", subject).Msg("failed to publish match event")
	}
}

// Noop é o publisher usado quando nenhum NATS_URL foi configurado.
type Noop struct{}

func (Noop) MatchCreated(string, [2]string)    {}
func (Noop) MatchFinished(string, string, string) {}
func (Noop) Close()                            {}
