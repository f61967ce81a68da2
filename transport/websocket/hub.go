package websocket

import (
	"bytes"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/mpiech/connect4-server/game/hub"
	"github.com/mpiech/connect4-server/protocol"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins in development
		// TODO: Configure this for production
		return true
	},
}

// Handler upgrades HTTP requests into game connections. The first
// binary frame must carry the four-byte game key; every later frame
// is a full game record whose move field is forwarded to the hub.
type Handler struct {
	hub   *hub.Hub
	codec *protocol.Codec
}

// NewHandler creates a WebSocket game endpoint.
func NewHandler(h *hub.Hub, codec *protocol.Codec) *Handler {
	return &Handler{hub: h, codec: codec}
}

// ServeHTTP handles WebSocket requests from players.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	key, err := readHandshakeFrame(conn)
	if err != nil {
		log.Printf("dropping %s: unreadable handshake frame: %v", conn.RemoteAddr(), err)
		conn.Close()
		return
	}

	p := newWSPeer(conn, h.codec)
	log.Printf("websocket connection from %s joined game %d", conn.RemoteAddr(), key)

	go p.writePump()
	h.hub.Join(p, key)

	go p.readPump(
		func(move int32) { h.hub.Submit(p, move) },
		func() { h.hub.Leave(p) },
	)
}

func readHandshakeFrame(conn *websocket.Conn) (int32, error) {
	_, data, err := conn.ReadMessage()
	if err != nil {
		return 0, err
	}
	return protocol.ReadHandshake(bytes.NewReader(data))
}
