package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitQueuesWhenNoCompatiblePeer(t *testing.T) {
	m := NewMatchmaker()

	room, entry := m.Submit("conn-a", "classic", 2, "Alice")

	assert.Nil(t, room)
	require.NotNil(t, entry)
	assert.Equal(t, "conn-a", entry.ConnID)
	assert.Equal(t, "classic", entry.GameMode)
	assert.NotEmpty(t, entry.RoomID)
	assert.Equal(t, 1, m.Len())
}

func TestSubmitPairsFirstCompatibleEntry(t *testing.T) {
	m := NewMatchmaker()

	_, first := m.Submit("conn-a", "classic", 2, "Alice")
	m.Submit("conn-b", "classic", 4, "Bruna")

	// O terceiro pedido pareia com a PRIMEIRA entrada compatível, nunca com
	// a mais recente: FIFO por modo, sem critério de habilidade.
	room, entry := m.Submit("conn-c", "classic", 3, "Carol")

	require.NotNil(t, room)
	assert.Nil(t, entry)
	players := room.Players()
	assert.Equal(t, "conn-a", players[0].ConnID)
	assert.Equal(t, "conn-c", players[1].ConnID)
	assert.Equal(t, first.RoomID, room.ID, "match reuses the pending entry's identifier")
	assert.Equal(t, 1, m.Len(), "conn-b keeps waiting")
}

func TestSubmitDoesNotPairAcrossModes(t *testing.T) {
	m := NewMatchmaker()

	m.Submit("conn-a", "classic", 2, "Alice")
	room, entry := m.Submit("conn-b", "blitz", 2, "Bob")

	assert.Nil(t, room)
	require.NotNil(t, entry)
	assert.Equal(t, 2, m.Len())

	// Um modo desconhecido nunca é rejeitado: vira a própria fila.
	room, _ = m.Submit("conn-c", "blitz", 1, "Carol")
	require.NotNil(t, room)
	assert.Equal(t, "conn-b", room.Players()[0].ConnID)
}

func TestSubmitNeverPairsWithItself(t *testing.T) {
	m := NewMatchmaker()

	m.Submit("conn-a", "classic", 2, "Alice")
	room, entry := m.Submit("conn-a", "classic", 2, "Alice")

	assert.Nil(t, room)
	require.NotNil(t, entry)
	assert.Equal(t, 2, m.Len())
}

func TestSubmitDefaultsPlayerNames(t *testing.T) {
	m := NewMatchmaker()

	m.Submit("conn-a", "classic", 2, "")
	room, _ := m.Submit("conn-b", "classic", 3, "")

	require.NotNil(t, room)
	assert.Equal(t, "Player 1", room.Players()[0].Name)
	assert.Equal(t, "Player 2", room.Players()[1].Name)
}

func TestCancelRemovesPendingEntry(t *testing.T) {
	m := NewMatchmaker()
	m.Submit("conn-a", "classic", 2, "Alice")

	assert.True(t, m.Cancel("conn-a"))
	assert.Equal(t, 0, m.Len())

	// Cancelar de novo (ou sem entrada nenhuma) é um no-op.
	assert.False(t, m.Cancel("conn-a"))
	assert.False(t, m.Cancel("conn-x"))
}

func TestNewRoomIDIsShortAndUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := newRoomID()
		assert.Len(t, id, 8)
		assert.False(t, seen[id], "duplicate room id %s", id)
		seen[id] = true
	}
}
