// Package hub runs the event loop that serializes all matchmaking and
// move arbitration. Transports feed it decoded protocol events over
// channels; the loop is the only goroutine that mutates sessions, so a
// session never sees two in-flight mutations.
package hub

import (
	"context"
	"log"

	"github.com/mpiech/connect4-server/game/board"
	"github.com/mpiech/connect4-server/game/session"
	"github.com/mpiech/connect4-server/protocol"
)

type joinRequest struct {
	peer session.Peer
	key  int32
}

type moveRequest struct {
	peer   session.Peer
	column int32
}

// Hub multiplexes every live connection onto one arbitration loop.
type Hub struct {
	registry *session.Registry

	joins  chan joinRequest
	moves  chan moveRequest
	leaves chan session.Peer
	done   chan struct{}
}

// New creates a hub over a matchmaking registry. Call Run before
// feeding it events.
func New(registry *session.Registry) *Hub {
	return &Hub{
		registry: registry,
		joins:    make(chan joinRequest),
		moves:    make(chan moveRequest),
		leaves:   make(chan session.Peer),
		done:     make(chan struct{}),
	}
}

// Registry exposes the matchmaking table for read-only admin surfaces.
func (h *Hub) Registry() *session.Registry { return h.registry }

// Run processes events until the context is cancelled. Each handler
// runs to completion before the next event is taken.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-h.joins:
			h.handleJoin(req.peer, req.key)
		case req := <-h.moves:
			h.handleMove(req.peer, req.column)
		case peer := <-h.leaves:
			h.handleLeave(peer)
		}
	}
}

// Join hands a freshly handshaken peer to the loop.
func (h *Hub) Join(p session.Peer, key int32) {
	select {
	case h.joins <- joinRequest{peer: p, key: key}:
	case <-h.done:
		p.Close()
	}
}

// Submit hands one decoded move to the loop.
func (h *Hub) Submit(p session.Peer, column int32) {
	select {
	case h.moves <- moveRequest{peer: p, column: column}:
	case <-h.done:
	}
}

// Leave reports a closed connection to the loop.
func (h *Hub) Leave(p session.Peer) {
	select {
	case h.leaves <- p:
	case <-h.done:
	}
}

func (h *Hub) handleJoin(p session.Peer, key int32) {
	sess, role, err := h.registry.Join(key, p)
	if err != nil {
		// Capacity errors drop the connection without notification.
		log.Printf("rejecting peer %s for game %d: %v", p.ID(), key, err)
		p.Close()
		return
	}

	if role == session.RoleStarter {
		log.Printf("game %d: peer %s waiting for an opponent", key, p.ID())
		return
	}

	log.Printf("game %d: pair found, player 1 starts", key)
	grid := sess.GridSnapshot()
	for _, part := range sess.Participants() {
		if part == nil {
			continue
		}
		if err := part.Peer.SendAssignment(int32(part.Number)); err != nil {
			log.Printf("game %d: assignment write to %s failed: %v", key, part.Peer.ID(), err)
			part.Peer.Close()
			continue
		}
		// Player 1 moves first; only they are told the game is theirs
		// to open.
		text := session.TextOpponentStart
		if part.Number == board.Player1 {
			text = session.TextStart
		}
		h.send(part.Peer, &protocol.GameMessage{
			CurrentMover: 1,
			Text:         text,
			Grid:         grid,
		})
	}
}

func (h *Hub) handleMove(p session.Peer, column int32) {
	sess := h.registry.ByPeer(p.ID())
	if sess == nil {
		return
	}

	res := sess.SubmitMove(p.ID(), int(column))
	grid := sess.GridSnapshot()

	switch res.Status {
	case session.MoveIgnored:
		// Out-of-turn traffic is dropped, never answered.
	case session.MoveFinished:
		h.send(p, &protocol.GameMessage{Text: res.Text, Terminal: true, Grid: grid})
	case session.MoveInvalid:
		// Only the submitter learns about its bad move.
		h.send(p, &protocol.GameMessage{CurrentMover: int32(res.Mover), Text: res.Text, Grid: grid})
	case session.MoveAccepted:
		h.broadcast(sess, &protocol.GameMessage{CurrentMover: int32(res.Mover), Text: res.Text, Grid: grid})
	case session.MoveWin:
		log.Printf("game %d: %s", sess.Key(), res.Text)
		h.broadcast(sess, &protocol.GameMessage{Text: res.Text, Terminal: true, Grid: grid})
	}
}

func (h *Hub) handleLeave(p session.Peer) {
	sess, survivor := h.registry.Remove(p.ID())
	if sess == nil {
		return
	}
	log.Printf("game %d: peer %s disconnected", sess.Key(), p.ID())

	if survivor == nil {
		return
	}
	notice := &protocol.GameMessage{
		Text:     sess.Reason(),
		Terminal: true,
		Grid:     sess.GridSnapshot(),
	}
	h.send(survivor.Peer, notice)
	survivor.Peer.Close()
}

// send writes one message to a peer; write failures are fatal to that
// connection only.
func (h *Hub) send(p session.Peer, m *protocol.GameMessage) {
	if err := p.Send(m); err != nil {
		log.Printf("write to peer %s failed: %v", p.ID(), err)
		p.Close()
	}
}

// broadcast sends the authoritative state to both participants.
func (h *Hub) broadcast(sess *session.Session, m *protocol.GameMessage) {
	for _, part := range sess.Participants() {
		if part != nil {
			h.send(part.Peer, m)
		}
	}
}
