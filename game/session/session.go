package session

import (
	"fmt"
	"sync"

	"github.com/mpiech/connect4-server/game/board"
	"github.com/mpiech/connect4-server/protocol"
)

// Status texts carried in the protocol's free-text field. These are the
// exact strings clients display, so they are part of the contract.
const (
	TextStart         = "You start the game."
	TextOpponentStart = "Your opponent starts the game."
	TextMoveAccepted  = "Move accepted."
	TextInvalidMove   = "Invalid move."
	TextGameOver      = "Game over."
	TextDisconnected  = "Another player disconnected"
)

// Peer is a live transport endpoint attached to a session. The session
// holds peers only for directed writes; transports own their lifecycle.
type Peer interface {
	ID() string
	Send(*protocol.GameMessage) error
	SendAssignment(player int32) error
	Close() error
}

// State is the session lifecycle phase.
type State int

const (
	StatePending State = iota
	StateActive
	StateTerminal
)

// String implements fmt.Stringer for logs and admin snapshots.
func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateActive:
		return "active"
	case StateTerminal:
		return "terminal"
	default:
		return "unknown"
	}
}

// MoveStatus classifies the outcome of a SubmitMove call.
type MoveStatus int

const (
	// MoveIgnored means the submitter is not the current mover (or not a
	// participant at all). Silently dropped at the protocol boundary.
	MoveIgnored MoveStatus = iota
	// MoveFinished means the session was already terminal; the submitter
	// gets a terminal notice and nothing mutates.
	MoveFinished
	// MoveInvalid means the column was out of range or full; the turn
	// does not advance and only the submitter is told.
	MoveInvalid
	// MoveAccepted means the move was applied and the turn flipped.
	MoveAccepted
	// MoveWin means the move was applied and won the game.
	MoveWin
)

// MoveResult is what the hub turns into outbound protocol messages.
type MoveResult struct {
	Status MoveStatus
	Text   string
	Mover  board.Player // current mover after the call
}

// Participant binds a peer to its player number.
type Participant struct {
	Peer   Peer
	Number board.Player
}

// Session is one match: pending while it waits for its second
// participant, active while moves are arbitrated, terminal once a win
// or disconnect is recorded.
type Session struct {
	mu sync.Mutex

	key          int32
	grid         *board.Grid
	state        State
	mover        board.Player
	reason       string
	participants [2]*Participant // index 0 = player 1
}

// newSession creates a pending session for a game key with its first
// participant attached as player 1.
func newSession(key int32, rows, cols int, first Peer) *Session {
	s := &Session{
		key:  key,
		grid: board.New(rows, cols),
	}
	s.participants[0] = &Participant{Peer: first, Number: board.Player1}
	return s
}

// attach completes a pending session with its second participant:
// player roles are fixed, the grid is reset to empty, and player 1
// becomes the current mover.
func (s *Session) attach(second Peer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.participants[1] = &Participant{Peer: second, Number: board.Player2}
	s.grid = board.New(s.grid.Rows(), s.grid.Cols())
	s.mover = board.Player1
	s.state = StateActive
}

// Key returns the game key the session was created under.
func (s *Session) Key() int32 { return s.key }

// State returns the current lifecycle phase.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Mover returns the participant currently permitted to move, or
// board.NoPlayer once the session is over.
func (s *Session) Mover() board.Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mover
}

// Reason returns the terminal message, empty while the session lives.
func (s *Session) Reason() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reason
}

// GridSnapshot returns the row-major board contents.
func (s *Session) GridSnapshot() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid.Snapshot()
}

// Participants returns the attached participants; either entry may be
// nil while the session is pending or draining.
func (s *Session) Participants() [2]*Participant {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.participants
}

// participantFor looks up the participant owning a peer ID.
func (s *Session) participantFor(peerID string) *Participant {
	for _, p := range s.participants {
		if p != nil && p.Peer.ID() == peerID {
			return p
		}
	}
	return nil
}

// SubmitMove validates and applies one move from the peer identified by
// peerID. See MoveStatus for the possible outcomes; the grid, mover, and
// terminal reason never change except on MoveAccepted and MoveWin.
func (s *Session) SubmitMove(peerID string, column int) MoveResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.participantFor(peerID)
	if p == nil {
		return MoveResult{Status: MoveIgnored, Mover: s.mover}
	}
	if s.state == StateTerminal {
		return MoveResult{Status: MoveFinished, Text: TextGameOver}
	}
	if s.state != StateActive || p.Number != s.mover {
		return MoveResult{Status: MoveIgnored, Mover: s.mover}
	}

	if _, err := s.grid.ApplyMove(column, p.Number); err != nil {
		return MoveResult{Status: MoveInvalid, Text: TextInvalidMove, Mover: s.mover}
	}

	if s.grid.CheckWin(p.Number) {
		s.state = StateTerminal
		s.mover = board.NoPlayer
		s.reason = fmt.Sprintf("%s wins!", p.Number)
		return MoveResult{Status: MoveWin, Text: s.reason, Mover: board.NoPlayer}
	}

	s.mover = p.Number.Opponent()
	return MoveResult{Status: MoveAccepted, Text: TextMoveAccepted, Mover: s.mover}
}

// terminate records a terminal reason. Already-terminal sessions keep
// their original reason; the return reports whether a transition
// actually happened.
func (s *Session) terminate(reason string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateTerminal {
		return false
	}
	s.state = StateTerminal
	s.mover = board.NoPlayer
	s.reason = reason
	return true
}

// detach removes the participant owning peerID and returns the other
// participant if one is still attached.
func (s *Session) detach(peerID string) (removed, remaining *Participant) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.participants {
		if p != nil && p.Peer.ID() == peerID {
			removed = p
			s.participants[i] = nil
			continue
		}
	}
	for _, p := range s.participants {
		if p != nil {
			remaining = p
		}
	}
	return removed, remaining
}
