// Package tcp provides the raw-socket game endpoint: it accepts
// connections, performs the game-key handshake, and pumps decoded
// records into the hub. One goroutine reads per connection; all
// arbitration stays in the hub loop.
package tcp

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"

	"github.com/mpiech/connect4-server/game/hub"
	"github.com/mpiech/connect4-server/protocol"
)

// Server owns the listening socket of the game protocol.
type Server struct {
	addr     string
	hub      *hub.Hub
	codec    *protocol.Codec
	listener net.Listener
}

// NewServer creates a TCP game server bound to addr once started.
func NewServer(addr string, h *hub.Hub, codec *protocol.Codec) *Server {
	return &Server{addr: addr, hub: h, codec: codec}
}

// Listen opens the listening socket. Split from Serve so callers (and
// tests) can learn the bound address before serving.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.addr, err)
	}
	s.listener = ln
	return nil
}

// Addr returns the bound address; nil before Listen.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Serve accepts connections until the context is cancelled. A listener
// failure is fatal and propagates; per-connection failures are not.
func (s *Server) Serve(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.listener.Close()
	}()

	log.Printf("game server listening on %s", s.listener.Addr())

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			return fmt.Errorf("accept: %w", err)
		}
		go s.handleConn(conn)
	}
}

// ListenAndServe is Listen followed by Serve.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}
	return s.Serve(ctx)
}

// handleConn reads the handshake synchronously, joins the peer, then
// pumps game records until the stream ends. A short or unreadable
// record means the connection is gone.
func (s *Server) handleConn(conn net.Conn) {
	key, err := protocol.ReadHandshake(conn)
	if err != nil {
		log.Printf("dropping %s: unreadable handshake: %v", conn.RemoteAddr(), err)
		conn.Close()
		return
	}

	p := newPeer(conn, s.codec)
	log.Printf("connection from %s joined game %d", conn.RemoteAddr(), key)
	s.hub.Join(p, key)

	for {
		msg, err := s.codec.ReadMessage(conn)
		if err != nil {
			if !errors.Is(err, net.ErrClosed) {
				log.Printf("peer %s read ended: %v", p.ID(), err)
			}
			s.hub.Leave(p)
			p.Close()
			return
		}
		s.hub.Submit(p, msg.Move)
	}
}
