package session

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weldeborn/crystal-grid/internal/network"
	"github.com/weldeborn/crystal-grid/internal/session/message"
)

// fakeConn substitui *network.Client nos testes: mesma interface Conn, mas
// as mensagens de saída ficam em um canal bufferizado que o teste inspeciona.
type fakeConn struct {
	id string
	ch chan network.Message
}

func newFakeConn(id string) *fakeConn {
	return &fakeConn{id: id, ch: make(chan network.Message, 32)}
}

func (c *fakeConn) ID() string                        { return c.id }
func (c *fakeConn) Send() chan<- network.Message      { return c.ch }

// received esvazia o canal e retorna tudo que o servidor mandou até agora.
// O handler roda síncrono no teste, então não há nada em trânsito.
func (c *fakeConn) received() []network.Message {
	var msgs []network.Message
	for {
		select {
		case msg := <-c.ch:
			msgs = append(msgs, msg)
		default:
			return msgs
		}
	}
}

func decodePayload[T any](t *testing.T, msg network.Message) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(msg.Payload, &out))
	return out
}

func findMatchMsg(mode string, difficulty int, name string) network.Message {
	return network.NewMessage("find-match", map[string]any{
		"gameMode":   mode,
		"difficulty": difficulty,
		"playerName": name,
	})
}

func updateMsg(score int, board Board, gameOver bool) network.Message {
	return network.NewMessage("update-game-state", map[string]any{
		"score":    score,
		"board":    board,
		"gameOver": gameOver,
	})
}

// pairUp conecta dois jogadores, pareia os dois no modo "classic" e
// descarta as notificações de pareamento.
func pairUp(t *testing.T, h *GameHandler) (*fakeConn, *fakeConn) {
	t.Helper()
	a := newFakeConn("conn-a")
	b := newFakeConn("conn-b")
	h.handleConnect(a)
	h.handleConnect(b)
	h.handleMessage(a, findMatchMsg("classic", 2, "Alice"))
	h.handleMessage(b, findMatchMsg("classic", 3, "Bob"))
	a.received()
	b.received()
	require.Len(t, h.rooms, 1)
	return a, b
}

func TestFindMatchWithoutPeerWaits(t *testing.T) {
	h := NewGameHandler(nil)
	a := newFakeConn("conn-a")
	h.handleConnect(a)

	h.handleMessage(a, findMatchMsg("classic", 2, "Alice"))

	msgs := a.received()
	require.Len(t, msgs, 1)
	assert.Equal(t, message.EventWaitingForPlayer, msgs[0].Type)
	assert.Equal(t, state_IN_QUEUE, h.sessions["conn-a"].State)

	roomID, bound := h.directory.Lookup("conn-a")
	assert.True(t, bound)
	assert.NotEmpty(t, roomID)
}

func TestEndToEndVictoryScenario(t *testing.T) {
	h := NewGameHandler(nil)
	a := newFakeConn("conn-a")
	b := newFakeConn("conn-b")
	h.handleConnect(a)
	h.handleConnect(b)

	// A procura partida e espera.
	h.handleMessage(a, findMatchMsg("classic", 2, "Alice"))
	msgs := a.received()
	require.Len(t, msgs, 1)
	require.Equal(t, message.EventWaitingForPlayer, msgs[0].Type)

	// B chega com o mesmo modo: ambos recebem game-found com visões
	// mutuamente corretas e flags de lado complementares.
	h.handleMessage(b, findMatchMsg("classic", 3, "Bob"))

	msgsA := a.received()
	require.Len(t, msgsA, 1)
	require.Equal(t, message.EventGameFound, msgsA[0].Type)
	foundA := decodePayload[message.GameFoundPayload](t, msgsA[0])
	assert.True(t, foundA.IsPlayer1)
	assert.Equal(t, "Bob", foundA.Opponent.Name)
	assert.Equal(t, 3, foundA.Opponent.Difficulty)

	msgsB := b.received()
	require.Len(t, msgsB, 1)
	require.Equal(t, message.EventGameFound, msgsB[0].Type)
	foundB := decodePayload[message.GameFoundPayload](t, msgsB[0])
	assert.False(t, foundB.IsPlayer1)
	assert.Equal(t, "Alice", foundB.Opponent.Name)
	assert.Equal(t, 2, foundB.Opponent.Difficulty)

	// A identidade da vaga pendente virou o ID da partida.
	roomIDA, _ := h.directory.Lookup("conn-a")
	roomIDB, _ := h.directory.Lookup("conn-b")
	assert.Equal(t, roomIDA, roomIDB)

	// A cruza o limiar de pontuação.
	board := NewEmptyBoard()
	board[4][7] = 3
	h.handleMessage(a, updateMsg(WinningScore, board, false))

	// A recebe primeiro o estado (ainda vazio) de B, depois o resultado.
	msgsA = a.received()
	require.Len(t, msgsA, 2)
	require.Equal(t, message.EventOpponentUpdate, msgsA[0].Type)
	update := decodePayload[message.OpponentUpdatePayload](t, msgsA[0])
	assert.Zero(t, update.Score)
	assert.False(t, update.Won)

	require.Equal(t, message.EventGameOver, msgsA[1].Type)
	overA := decodePayload[message.GameOverPayload](t, msgsA[1])
	assert.True(t, overA.Winner)
	assert.Equal(t, "Alice", overA.WinnerName)
	assert.Equal(t, WinningScore, overA.FinalScore)
	assert.Zero(t, overA.OpponentScore)
	assert.Equal(t, message.ReasonVictory, overA.Reason)

	msgsB = b.received()
	require.Len(t, msgsB, 1)
	require.Equal(t, message.EventGameOver, msgsB[0].Type)
	overB := decodePayload[message.GameOverPayload](t, msgsB[0])
	assert.False(t, overB.Winner)
	assert.Equal(t, "Alice", overB.WinnerName)
	assert.Zero(t, overB.FinalScore)
	assert.Equal(t, WinningScore, overB.OpponentScore)
	assert.Equal(t, message.ReasonOpponentGameOver, overB.Reason)

	// A partida saiu do conjunto ativo e todo o bookkeeping foi liberado.
	assert.Empty(t, h.rooms)
	_, bound := h.directory.Lookup("conn-a")
	assert.False(t, bound)
	assert.Equal(t, state_LOBBY, h.sessions["conn-a"].State)
	assert.Equal(t, state_LOBBY, h.sessions["conn-b"].State)
}

func TestScoreBelowThresholdRelaysWithoutEnding(t *testing.T) {
	h := NewGameHandler(nil)
	a, b := pairUp(t, h)

	h.handleMessage(a, updateMsg(WinningScore-1, NewEmptyBoard(), false))

	msgs := a.received()
	require.Len(t, msgs, 1)
	assert.Equal(t, message.EventOpponentUpdate, msgs[0].Type)
	assert.Empty(t, b.received())
	assert.Len(t, h.rooms, 1)
}

func TestScoreWinTakesPrecedenceOverStall(t *testing.T) {
	h := NewGameHandler(nil)
	a, b := pairUp(t, h)

	// O mesmo update cruza o limiar E reporta o travamento: a vitória por
	// pontuação é avaliada primeiro, então o remetente vence.
	h.handleMessage(a, updateMsg(WinningScore, NewEmptyBoard(), true))

	msgsA := a.received()
	require.Len(t, msgsA, 2)
	overA := decodePayload[message.GameOverPayload](t, msgsA[1])
	assert.True(t, overA.Winner)
	assert.Equal(t, message.ReasonVictory, overA.Reason)

	msgsB := b.received()
	require.Len(t, msgsB, 1)
	overB := decodePayload[message.GameOverPayload](t, msgsB[0])
	assert.False(t, overB.Winner)
}

func TestSelfReportedStallForfeitsMatch(t *testing.T) {
	h := NewGameHandler(nil)
	a, b := pairUp(t, h)

	h.handleMessage(a, updateMsg(120, NewEmptyBoard(), true))

	msgsA := a.received()
	require.Len(t, msgsA, 2)
	overA := decodePayload[message.GameOverPayload](t, msgsA[1])
	assert.False(t, overA.Winner)
	assert.Equal(t, "Bob", overA.WinnerName)
	assert.Equal(t, message.ReasonOpponentGameOver, overA.Reason)

	msgsB := b.received()
	require.Len(t, msgsB, 1)
	overB := decodePayload[message.GameOverPayload](t, msgsB[0])
	assert.True(t, overB.Winner)
	assert.Equal(t, message.ReasonVictory, overB.Reason)
	assert.Empty(t, h.rooms)
}

func TestDisconnectDuringMatchNotifiesOpponentOnce(t *testing.T) {
	h := NewGameHandler(nil)
	a, b := pairUp(t, h)

	h.handleDisconnect(a)

	// O jogador restante recebe exatamente um opponent-disconnected,
	// nunca um game-over.
	msgs := b.received()
	require.Len(t, msgs, 1)
	assert.Equal(t, message.EventOpponentDisconnected, msgs[0].Type)

	assert.Empty(t, h.rooms)
	assert.NotContains(t, h.sessions, "conn-a")
	assert.Equal(t, state_LOBBY, h.sessions["conn-b"].State)
	_, bound := h.directory.Lookup("conn-b")
	assert.False(t, bound)
}

func TestDisconnectWhileQueuedDiscardsEntry(t *testing.T) {
	h := NewGameHandler(nil)
	a := newFakeConn("conn-a")
	h.handleConnect(a)
	h.handleMessage(a, findMatchMsg("classic", 2, "Alice"))
	a.received()

	h.handleDisconnect(a)

	assert.Zero(t, h.matchmaker.Len())
	assert.NotContains(t, h.sessions, "conn-a")

	// Quem chegar depois forma uma fila nova, não pareia com um fantasma.
	b := newFakeConn("conn-b")
	h.handleConnect(b)
	h.handleMessage(b, findMatchMsg("classic", 3, "Bob"))
	msgs := b.received()
	require.Len(t, msgs, 1)
	assert.Equal(t, message.EventWaitingForPlayer, msgs[0].Type)
}

func TestCancelMatchmaking(t *testing.T) {
	h := NewGameHandler(nil)
	a := newFakeConn("conn-a")
	h.handleConnect(a)
	h.handleMessage(a, findMatchMsg("classic", 2, "Alice"))
	a.received()

	h.handleMessage(a, network.NewMessage("cancel-matchmaking", nil))

	msgs := a.received()
	require.Len(t, msgs, 1)
	assert.Equal(t, message.EventMatchmakingCancelled, msgs[0].Type)
	assert.Equal(t, state_LOBBY, h.sessions["conn-a"].State)
	assert.Zero(t, h.matchmaker.Len())
	_, bound := h.directory.Lookup("conn-a")
	assert.False(t, bound)
}

func TestCancelWithoutPendingEntryIsSilent(t *testing.T) {
	h := NewGameHandler(nil)
	a := newFakeConn("conn-a")
	h.handleConnect(a)

	// No lobby não existe o comando: nenhum evento de saída é produzido.
	h.handleMessage(a, network.NewMessage("cancel-matchmaking", nil))

	assert.Empty(t, a.received())
}

func TestDuplicateFindMatchIsIgnored(t *testing.T) {
	h := NewGameHandler(nil)
	a := newFakeConn("conn-a")
	h.handleConnect(a)
	h.handleMessage(a, findMatchMsg("classic", 2, "Alice"))
	a.received()

	// Já pendente: o segundo find-match não cria entrada órfã nem responde.
	h.handleMessage(a, findMatchMsg("classic", 2, "Alice"))

	assert.Empty(t, a.received())
	assert.Equal(t, 1, h.matchmaker.Len())
}

func TestUpdateFromLobbyIsIgnored(t *testing.T) {
	h := NewGameHandler(nil)
	a := newFakeConn("conn-a")
	h.handleConnect(a)

	h.handleMessage(a, updateMsg(100, NewEmptyBoard(), false))

	assert.Empty(t, a.received())
}

func TestMalformedUpdateIsIgnored(t *testing.T) {
	h := NewGameHandler(nil)
	a, b := pairUp(t, h)

	// Sem campo score.
	h.handleMessage(a, network.NewMessage("update-game-state", map[string]any{"board": NewEmptyBoard()}))
	// Pontuação negativa.
	h.handleMessage(a, updateMsg(-5, NewEmptyBoard(), false))

	assert.Empty(t, a.received())
	assert.Empty(t, b.received())
	assert.Len(t, h.rooms, 1)
}

func TestExpireIdleMatches(t *testing.T) {
	h := NewGameHandler(nil)
	a, b := pairUp(t, h)

	var roomID string
	for id, room := range h.rooms {
		roomID = id
		room.lastActivity = time.Now().Add(-10 * time.Minute)
	}

	expired := h.ExpireIdleMatches(5 * time.Minute)

	assert.Equal(t, 1, expired)
	assert.NotContains(t, h.rooms, roomID)
	for _, conn := range []*fakeConn{a, b} {
		msgs := conn.received()
		require.Len(t, msgs, 1)
		assert.Equal(t, message.EventMatchExpired, msgs[0].Type)
		assert.Equal(t, state_LOBBY, h.sessions[conn.id].State)
		_, bound := h.directory.Lookup(conn.id)
		assert.False(t, bound)
	}
}

func TestFreshMatchSurvivesSweep(t *testing.T) {
	h := NewGameHandler(nil)
	a, b := pairUp(t, h)

	expired := h.ExpireIdleMatches(5 * time.Minute)

	assert.Zero(t, expired)
	assert.Len(t, h.rooms, 1)
	assert.Empty(t, a.received())
	assert.Empty(t, b.received())
}
