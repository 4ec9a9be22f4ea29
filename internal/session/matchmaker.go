package session

import (
	"github.com/google/uuid"
)

// PendingEntry é um jogador esperando por oponente na fila.
// O RoomID gerado aqui é reaproveitado como o ID da partida quando o
// pareamento acontece, então nenhum remapeamento é necessário na transição
// pendente -> ativo.
type PendingEntry struct {
	RoomID     string
	ConnID     string
	Name       string
	Difficulty int
	GameMode   string
}

// Matchmaker guarda as entradas pendentes em ordem de inserção.
// Ele NÃO tem goroutine própria: todo acesso vem da goroutine do Hub,
// então um slice simples basta.
type Matchmaker struct {
	pending []*PendingEntry
}

// NewMatchmaker cria e inicializa um novo Matchmaker.
func NewMatchmaker() *Matchmaker {
	return &Matchmaker{
		pending: make([]*PendingEntry, 0),
	}
}

// Submit procura a primeira entrada pendente com o mesmo modo de jogo.
//
// Varredura linear, primeira compatível vence — o pareamento é por ordem de
// chegada, nunca por pontuação ou habilidade. Um modo de jogo desconhecido
// não é rejeitado: ele simplesmente forma a sua própria fila.
//
// Se encontrou: remove a entrada, cria a GameRoom (entrada antiga = lado A,
// solicitante = lado B) e a retorna. Se não: enfileira o solicitante e
// retorna a nova entrada pendente.
func (m *Matchmaker) Submit(connID, gameMode string, difficulty int, name string) (*GameRoom, *PendingEntry) {
	for i, entry := range m.pending {
		// A checagem de ConnID protege contra submissões reentrantes;
		// um jogador nunca pareia consigo mesmo.
		if entry.GameMode != gameMode || entry.ConnID == connID {
			continue
		}

		// Encontramos um par! Remove a entrada usando o truque de slice do Go.
		m.pending = append(m.pending[:i], m.pending[i+1:]...)

		sideA := &PlayerRecord{
			ConnID:     entry.ConnID,
			Name:       entry.Name,
			Difficulty: entry.Difficulty,
		}
		sideB := &PlayerRecord{
			ConnID:     connID,
			Name:       defaultName(name, "Player 2"),
			Difficulty: difficulty,
		}

		return NewGameRoom(entry.RoomID, sideA, sideB), nil
	}

	// Ninguém compatível esperando: vira uma entrada pendente.
	entry := &PendingEntry{
		RoomID:     newRoomID(),
		ConnID:     connID,
		Name:       defaultName(name, "Player 1"),
		Difficulty: difficulty,
		GameMode:   gameMode,
	}
	m.pending = append(m.pending, entry)

	return nil, entry
}

// Cancel remove a entrada pendente do chamador, se ela ainda existir.
// Cancelar depois do pareamento (ou sem entrada nenhuma) é um no-op
// silencioso: retorna false e nada mais acontece.
func (m *Matchmaker) Cancel(connID string) bool {
	for i, entry := range m.pending {
		if entry.ConnID == connID {
			m.pending = append(m.pending[:i], m.pending[i+1:]...)
			return true
		}
	}
	return false
}

// Len retorna quantos jogadores esperam na fila.
func (m *Matchmaker) Len() int {
	return len(m.pending)
}

// newRoomID gera um identificador curto e opaco para uma vaga de
// matchmaking. Os 8 primeiros caracteres de um uuid são hexadecimais puros
// (o primeiro hífen vem depois), o que dá um ID legível em logs.
func newRoomID() string {
	return uuid.NewString()[:8]
}

func defaultName(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}
