package message

// Isso aqui são as mensagens que vão no sentido servidor -> client
import (
	"github.com/weldeborn/crystal-grid/internal/network"
)

// Nomes dos eventos de saída. O cliente do jogo escuta exatamente estes.
const (
	EventWaitingForPlayer      = "waiting-for-player"
	EventGameFound             = "game-found"
	EventMatchmakingCancelled  = "matchmaking-cancelled"
	EventOpponentUpdate        = "opponent-update"
	EventGameOver              = "game-over"
	EventOpponentDisconnected  = "opponent-disconnected"
	EventMatchExpired          = "match-expired"
)

// Motivos possíveis no payload de game-over, relativos ao destinatário.
const (
	ReasonVictory          = "victory"
	ReasonOpponentGameOver = "opponent_game_over"
)

// OpponentInfo é a visão que um jogador tem do seu oponente no pareamento.
type OpponentInfo struct {
	Name       string `json:"name"`
	Difficulty int    `json:"difficulty"`
}

// GameFoundPayload avisa um lado que a partida começou.
// IsPlayer1 é o flag estável de identidade de lado: true para quem estava
// esperando na fila, false para quem acabou de chegar.
type GameFoundPayload struct {
	Opponent  OpponentInfo `json:"opponent"`
	IsPlayer1 bool         `json:"isPlayer1"`
}

// OpponentUpdatePayload devolve ao remetente de um update o último estado
// conhecido do oponente.
type OpponentUpdatePayload struct {
	Score    int  `json:"score"`
	Board    any  `json:"board"`
	GameOver bool `json:"gameOver"`
	Won      bool `json:"won"`
}

// GameOverPayload é o resultado terminal, com todos os campos relativos ao
// destinatário.
type GameOverPayload struct {
	Winner        bool   `json:"winner"`
	WinnerName    string `json:"winnerName"`
	FinalScore    int    `json:"finalScore"`
	OpponentScore int    `json:"opponentScore"`
	Reason        string `json:"reason"`
}

func CreateWaitingForPlayer() network.Message {
	return network.NewMessage(EventWaitingForPlayer, nil)
}

func CreateGameFound(opponentName string, opponentDifficulty int, isPlayer1 bool) network.Message {
	return network.NewMessage(EventGameFound, GameFoundPayload{
		Opponent: OpponentInfo{
			Name:       opponentName,
			Difficulty: opponentDifficulty,
		},
		IsPlayer1: isPlayer1,
	})
}

func CreateMatchmakingCancelled() network.Message {
	return network.NewMessage(EventMatchmakingCancelled, nil)
}

func CreateOpponentUpdate(score int, board any, gameOver, won bool) network.Message {
	return network.NewMessage(EventOpponentUpdate, OpponentUpdatePayload{
		Score:    score,
		Board:    board,
		GameOver: gameOver,
		Won:      won,
	})
}

func CreateGameOver(winner bool, winnerName string, finalScore, opponentScore int, reason string) network.Message {
	return network.NewMessage(EventGameOver, GameOverPayload{
		Winner:        winner,
		WinnerName:    winnerName,
		FinalScore:    finalScore,
		OpponentScore: opponentScore,
		Reason:        reason,
	})
}

func CreateOpponentDisconnected() network.Message {
	return network.NewMessage(EventOpponentDisconnected, nil)
}

// CreateMatchExpired é o aviso terminal do sweeper: a partida ficou ociosa
// por tempo demais e foi descartada.
func CreateMatchExpired() network.Message {
	return network.NewMessage(EventMatchExpired, nil)
}
