package session

import (
	"time"
)

const (
	// Pontuação que encerra a partida na hora.
	WinningScore = 5000

	// O tabuleiro do cliente é uma grade fixa de 10x10 células.
	BoardSize = 10
)

// Board é a representação opaca do tabuleiro de um jogador.
// O servidor nunca interpreta o conteúdo das células: ele só guarda a
// última versão enviada e a retransmite para o oponente.
type Board [][]any

// NewEmptyBoard cria a grade vazia de 10x10 com que todo jogador começa.
func NewEmptyBoard() Board {
	board := make(Board, BoardSize)
	for i := range board {
		board[i] = make([]any, BoardSize)
	}
	return board
}

// PlayerRecord é o estado autoritativo de um lado da partida.
// Pertence exclusivamente à sua GameRoom.
type PlayerRecord struct {
	ConnID     string
	Name       string
	Difficulty int
	Score      int
	Board      Board
	GameOver   bool
	Won        bool
}

// GameRoom representa uma partida pareada: dois PlayerRecords, o flag de
// início e o vencedor derivado.
//
// O campo winner é write-once: uma vez decidida, a partida é terminal e
// nenhuma atualização posterior pode contestar o resultado. Quem remove a
// sala do conjunto ativo é o GameHandler, depois das notificações finais.
type GameRoom struct {
	ID      string
	players [2]*PlayerRecord

	started bool
	winner  *PlayerRecord

	// Momento da última atualização de estado. Usado pelo sweeper de
	// partidas ociosas.
	lastActivity time.Time
}

// NewGameRoom cria uma partida entre o jogador que esperava na fila (lado A,
// "player 1") e o que acabou de chegar (lado B, "player 2").
func NewGameRoom(id string, sideA, sideB *PlayerRecord) *GameRoom {
	sideA.Board = NewEmptyBoard()
	sideB.Board = NewEmptyBoard()
	return &GameRoom{
		ID:           id,
		players:      [2]*PlayerRecord{sideA, sideB},
		lastActivity: time.Now(),
	}
}

// Start marca a partida como iniciada. Chamado pelo GameHandler depois de
// notificar os dois lados.
func (gr *GameRoom) Start() {
	gr.started = true
}

// Players retorna os dois registros na ordem [lado A, lado B].
func (gr *GameRoom) Players() [2]*PlayerRecord {
	return gr.players
}

// Winner retorna o registro vencedor, ou nil enquanto a partida não foi
// decidida.
func (gr *GameRoom) Winner() *PlayerRecord {
	return gr.winner
}

// IdleSince retorna o momento da última atualização de estado.
func (gr *GameRoom) IdleSince() time.Time {
	return gr.lastActivity
}

// ApplyUpdate sobrescreve o tabuleiro e a pontuação do lado que enviou a
// atualização (last-write-wins, sem validação de ordem) e em seguida avalia
// a condição de vitória por pontuação.
//
// Deve ser chamado no máximo uma vez por vez por partida: a goroutine do Hub
// garante isso serializando todos os eventos.
func (gr *GameRoom) ApplyUpdate(connID string, board Board, score int) {
	player := gr.recordOf(connID)
	if player == nil {
		return
	}

	player.Board = board
	player.Score = score
	gr.lastActivity = time.Now()

	gr.checkWin(player)
}

// checkWin decide a partida no instante em que um lado atinge a pontuação
// de vitória — desde que ninguém tenha vencido antes (guarda write-once).
func (gr *GameRoom) checkWin(player *PlayerRecord) {
	if player.Score >= WinningScore && gr.winner == nil {
		gr.winner = player
		player.Won = true
		gr.opponentRecord(player).GameOver = true
	}
}

// ReportStall trata o auto-reporte de travamento: o remetente ficou sem
// jogadas legais, então o oponente vence. A mesma guarda write-once se
// aplica — se a partida já foi decidida (inclusive por esta mesma
// atualização, via pontuação), o reporte é ignorado.
func (gr *GameRoom) ReportStall(connID string) {
	staller := gr.recordOf(connID)
	if staller == nil || gr.winner != nil {
		return
	}

	opponent := gr.opponentRecord(staller)
	gr.winner = opponent
	opponent.Won = true
	staller.GameOver = true
}

// OpponentOf retorna o registro do lado que o chamador NÃO ocupa.
// O roteador só chama isso depois do lookup no diretório garantir que a
// conexão pertence à sala.
func (gr *GameRoom) OpponentOf(connID string) *PlayerRecord {
	if gr.players[0].ConnID == connID {
		return gr.players[1]
	}
	return gr.players[0]
}

func (gr *GameRoom) recordOf(connID string) *PlayerRecord {
	for _, p := range gr.players {
		if p.ConnID == connID {
			return p
		}
	}
	return nil
}

func (gr *GameRoom) opponentRecord(player *PlayerRecord) *PlayerRecord {
	if gr.players[0] == player {
		return gr.players[1]
	}
	return gr.players[0]
}
