package session

// Directory mapeia cada conexão ao ID da sua entrada pendente ou partida
// ativa, dando lookup O(1) em todo evento de entrada.
//
// As referências aqui são não-proprietárias: quem é dono das entradas é o
// Matchmaker, e das partidas é o mapa de salas do GameHandler. É
// responsabilidade do roteador chamar Unbind em TODO caminho terminal
// (cancelamento, fim de partida, desconexão) para não acumular referências
// velhas pela vida do processo.
type Directory struct {
	byConn map[string]string
}

func NewDirectory() *Directory {
	return &Directory{
		byConn: make(map[string]string),
	}
}

// Bind associa a conexão ao ID. No máximo uma associação por conexão;
// um Bind repetido sobrescreve.
func (d *Directory) Bind(connID, roomID string) {
	d.byConn[connID] = roomID
}

// Lookup retorna o ID associado à conexão, se houver.
func (d *Directory) Lookup(connID string) (string, bool) {
	roomID, ok := d.byConn[connID]
	return roomID, ok
}

// Unbind remove a associação da conexão. Remover uma conexão sem
// associação é um no-op.
func (d *Directory) Unbind(connID string) {
	delete(d.byConn, connID)
}
