package network

// clientMessage é uma estrutura para empacotar uma mensagem com o cliente que a enviou.
// O Hub precisa de ambos para passar para o EventHandler.
type clientMessage struct {
	client *Client
	msg    Message
}

// Hub mantém o conjunto de clientes ativos e roteia eventos para o handler.
//
// Toda mutação de estado do jogo passa pela goroutine única do Hub: é ela
// quem chama OnConnect/OnDisconnect/OnMessage e quem executa as tasks
// injetadas por Do. Isso serializa o acesso aos mapas da camada de sessão
// sem precisar de locks.
type Hub struct {
	// Clientes registrados. O mapa de *Client para bool é um "set" em Go.
	// Acessado SOMENTE pela goroutine do Hub.
	clients map[*Client]bool

	// Canal para registrar novos clientes.
	register chan *Client

	// Canal para desregistrar clientes.
	unregister chan *Client

	// Canal para mensagens de entrada dos clientes.
	// As goroutines readLoop dos clientes enviam mensagens para este canal.
	incoming chan clientMessage

	// Canal para funções que precisam rodar na goroutine do Hub.
	// É assim que jobs periódicos (ex: expirar partidas ociosas) tocam o
	// estado do jogo sem corrida.
	tasks chan func()

	// O handler da lógica do jogo que processará os eventos.
	handler EventHandler
}

// NewHub cria, inicializa e retorna um novo Hub.
func NewHub(handler EventHandler) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		incoming:   make(chan clientMessage),
		tasks:      make(chan func()),
		handler:    handler,
	}
}

// Do agenda fn para executar na goroutine do Hub. Bloqueia até o Hub
// aceitar a task, não até ela terminar.
func (h *Hub) Do(fn func()) {
	h.tasks <- fn
}

func (h *Hub) Run() {

	for {
		select {
		case client := <-h.register:

			// Adiciona o cliente ao nosso mapa de registros.
			h.clients[client] = true
			// Notifica o handler da lógica do jogo que um novo cliente chegou.
			h.handler.OnConnect(client)

		case client := <-h.unregister:

			// Verifica se o cliente realmente está no nosso registro.
			if _, ok := h.clients[client]; ok {
				// Remove o cliente do mapa.
				delete(h.clients, client)
				// Fecha o canal 'send' do cliente. Isso é MUITO IMPORTANTE.
				// É o sinal para a goroutine writeLoop daquele cliente parar.
				close(client.send)
				// Notifica o handler da lógica do jogo que o cliente saiu.
				h.handler.OnDisconnect(client)
			}

		// --- Uma nova mensagem chegou de um cliente ---
		case clientMsg := <-h.incoming:
			// O Hub não se importa com o conteúdo da mensagem.
			// Ele simplesmente a delega para o handler da lógica do jogo processar.
			h.handler.OnMessage(clientMsg.client, clientMsg.msg)

		// --- Uma task injetada (sweeper, etc.) ---
		case fn := <-h.tasks:
			fn()
		}
	}

}
