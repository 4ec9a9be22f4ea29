package network

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Server é a estrutura principal do nosso servidor de rede.
// Ele gerencia um Hub e a rota HTTP que promove conexões para WebSocket.
type Server struct {
	hub *Hub

	// Diretório opcional com os arquivos estáticos do cliente do jogo.
	// Vazio = servidor puro de WebSocket.
	staticDir string
}

// upgrader armazena as configurações para promover uma conexão HTTP para WebSocket.
var upgrader = websocket.Upgrader{
	// CheckOrigin permite controlar quais domínios podem se conectar.
	// Para desenvolvimento, retornamos 'true' para permitir qualquer origem.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// NewServer aceita um EventHandler para passá-lo ao Hub.
// Este é o ponto de injeção da lógica do seu jogo.
func NewServer(handler EventHandler, staticDir string) *Server {
	return &Server{
		hub:       NewHub(handler), // Cria o Hub associado a este servidor
		staticDir: staticDir,
	}
}

// Do agenda uma função para rodar na goroutine do Hub.
// Veja Hub.Do.
func (s *Server) Do(fn func()) {
	s.hub.Do(fn)
}

// wsHandler é o nosso ponto de entrada para conexões de clientes.
// Ele lida com a requisição HTTP e a promove para uma conexão WebSocket.
func (s *Server) wsHandler(w http.ResponseWriter, r *http.Request) {
	// 1. Promove a conexão HTTP para uma conexão WebSocket persistente.
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	// 2. Cria o nosso Client, agora usando a conexão WebSocket.
	// O uuid é a identidade estável da conexão para a camada de sessão.
	client := &Client{
		id:   uuid.NewString(),
		conn: conn,
		hub:  s.hub,
		send: make(chan Message, 256),
	}

	// 3. Registra o novo cliente no Hub.
	client.hub.register <- client

	// 4. Inicia as goroutines de leitura e escrita.
	go client.writeLoop()
	go client.readLoop()
}

// Listen inicia um servidor HTTP e configura a rota para o WebSocket.
func (s *Server) Listen(address string) error {
	// Inicia a goroutine do Hub.
	go s.hub.Run()

	mux := http.NewServeMux()

	// Configura o handler para a rota "/ws". Todas as conexões WebSocket virão por aqui.
	mux.HandleFunc("/ws", s.wsHandler)

	// Os arquivos do cliente (HTML/CSS/JS do jogo) são apenas servidos,
	// nunca interpretados pelo servidor.
	if s.staticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(s.staticDir)))
	}

	log.Info().Str("addr", address).Msg("websocket server listening on /ws")

	// Inicia o servidor HTTP. http.ListenAndServe é bloqueante.
	return http.ListenAndServe(address, mux)
}
