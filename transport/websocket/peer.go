package websocket

import (
	"bytes"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/mpiech/connect4-server/protocol"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
)

var errPeerClosed = errors.New("websocket peer closed")

// wsPeer adapts a WebSocket connection to the game loop's peer
// contract. Outbound records are queued on a buffered channel and
// written by a single pump goroutine.
type wsPeer struct {
	id    string
	conn  *websocket.Conn
	codec *protocol.Codec

	send      chan []byte
	closed    chan struct{}
	closeOnce sync.Once
}

func newWSPeer(conn *websocket.Conn, codec *protocol.Codec) *wsPeer {
	return &wsPeer{
		id:     uuid.NewString(),
		conn:   conn,
		codec:  codec,
		send:   make(chan []byte, 16),
		closed: make(chan struct{}),
	}
}

func (p *wsPeer) ID() string { return p.id }

func (p *wsPeer) Send(m *protocol.GameMessage) error {
	data, err := p.codec.Encode(m)
	if err != nil {
		return err
	}
	return p.queue(data)
}

func (p *wsPeer) SendAssignment(player int32) error {
	var buf bytes.Buffer
	if err := protocol.WriteAssignment(&buf, player); err != nil {
		return err
	}
	return p.queue(buf.Bytes())
}

func (p *wsPeer) queue(data []byte) error {
	select {
	case p.send <- data:
		return nil
	case <-p.closed:
		return errPeerClosed
	}
}

// Close signals shutdown; the write pump flushes what is queued and
// closes the socket.
func (p *wsPeer) Close() error {
	p.closeOnce.Do(func() { close(p.closed) })
	return nil
}

// writePump drains the send queue onto the socket and keeps the
// connection alive with pings.
func (p *wsPeer) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		p.conn.Close()
	}()

	for {
		select {
		case data := <-p.send:
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
				return
			}

		case <-p.closed:
			// Flush anything queued before the close, like a final
			// terminal notice.
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			for {
				select {
				case data := <-p.send:
					if err := p.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
						return
					}
				default:
					p.conn.WriteMessage(websocket.CloseMessage, []byte{})
					return
				}
			}

		case <-ticker.C:
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump delivers decoded move records until the connection drops.
func (p *wsPeer) readPump(submit func(move int32), leave func()) {
	defer func() {
		leave()
		p.Close()
	}()

	p.conn.SetReadLimit(int64(p.codec.MessageSize()))
	p.conn.SetReadDeadline(time.Now().Add(pongWait))
	p.conn.SetPongHandler(func(string) error {
		p.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := p.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("websocket peer %s: %v", p.id, err)
			}
			return
		}
		msg, err := p.codec.Decode(data)
		if err != nil {
			log.Printf("websocket peer %s sent a malformed record: %v", p.id, err)
			return
		}
		submit(msg.Move)
	}
}
