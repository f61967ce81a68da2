package hub

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mpiech/connect4-server/game/session"
	"github.com/mpiech/connect4-server/protocol"
)

// stubPeer is a thread-safe recording peer for hub tests.
type stubPeer struct {
	id string

	mu          sync.Mutex
	sent        []*protocol.GameMessage
	assignments []int32
	closed      bool
}

func (s *stubPeer) ID() string { return s.id }

func (s *stubPeer) Send(m *protocol.GameMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, m)
	return nil
}

func (s *stubPeer) SendAssignment(player int32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assignments = append(s.assignments, player)
	return nil
}

func (s *stubPeer) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *stubPeer) messages() []*protocol.GameMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*protocol.GameMessage, len(s.sent))
	copy(out, s.sent)
	return out
}

func (s *stubPeer) assigned() []int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int32, len(s.assignments))
	copy(out, s.assignments)
	return out
}

func (s *stubPeer) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// startHub runs a hub for the duration of the test.
func startHub(t *testing.T, capacity int) *Hub {
	t.Helper()
	h := New(session.NewRegistry(9, 8, capacity))
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go h.Run(ctx)
	return h
}

// waitFor polls until cond holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool, what string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func pairUp(t *testing.T, h *Hub, key int32) (*stubPeer, *stubPeer) {
	t.Helper()
	p1 := &stubPeer{id: "p1-" + t.Name()}
	p2 := &stubPeer{id: "p2-" + t.Name()}
	h.Join(p1, key)
	h.Join(p2, key)
	waitFor(t, func() bool {
		return len(p1.messages()) >= 1 && len(p2.messages()) >= 1
	}, "pairing notifications")
	return p1, p2
}

func TestPairing_NotifiesBothParticipants(t *testing.T) {
	h := startHub(t, 10)
	p1, p2 := pairUp(t, h, 7)

	if got := p1.assigned(); len(got) != 1 || got[0] != 1 {
		t.Errorf("player 1 assignment: got %v", got)
	}
	if got := p2.assigned(); len(got) != 1 || got[0] != 2 {
		t.Errorf("player 2 assignment: got %v", got)
	}

	wantText := map[*stubPeer]string{
		p1: session.TextStart,
		p2: session.TextOpponentStart,
	}
	for _, p := range []*stubPeer{p1, p2} {
		msgs := p.messages()
		if len(msgs) != 1 {
			t.Fatalf("%s: expected exactly one start message, got %d", p.id, len(msgs))
		}
		m := msgs[0]
		if m.CurrentMover != 1 {
			t.Errorf("%s: expected player 1 to move first, got %d", p.id, m.CurrentMover)
		}
		if m.Text != wantText[p] {
			t.Errorf("%s: expected %q, got %q", p.id, wantText[p], m.Text)
		}
		if m.Terminal {
			t.Errorf("%s: start message must not be terminal", p.id)
		}
		if strings.Trim(string(m.Grid), " ") != "" {
			t.Errorf("%s: expected an empty starting grid", p.id)
		}
	}
}

func TestMove_BroadcastToBoth(t *testing.T) {
	h := startHub(t, 10)
	p1, p2 := pairUp(t, h, 7)

	h.Submit(p1, 3)
	waitFor(t, func() bool {
		return len(p1.messages()) >= 2 && len(p2.messages()) >= 2
	}, "move broadcast")

	for _, p := range []*stubPeer{p1, p2} {
		m := p.messages()[1]
		if m.Text != session.TextMoveAccepted {
			t.Errorf("%s: expected %q, got %q", p.id, session.TextMoveAccepted, m.Text)
		}
		if m.CurrentMover != 2 {
			t.Errorf("%s: expected mover to flip to player 2, got %d", p.id, m.CurrentMover)
		}
		if m.Grid[len(m.Grid)-8+3] != '*' {
			t.Errorf("%s: expected player 1 piece at the bottom of column 3", p.id)
		}
	}
}

func TestMove_InvalidGoesToSubmitterOnly(t *testing.T) {
	h := startHub(t, 10)
	p1, p2 := pairUp(t, h, 7)

	h.Submit(p1, 99)
	waitFor(t, func() bool { return len(p1.messages()) >= 2 }, "invalid-move reply")

	m := p1.messages()[1]
	if m.Text != session.TextInvalidMove {
		t.Errorf("expected %q, got %q", session.TextInvalidMove, m.Text)
	}
	if m.CurrentMover != 1 {
		t.Errorf("turn must not advance on an invalid move, got mover %d", m.CurrentMover)
	}
	if len(p2.messages()) != 1 {
		t.Errorf("opponent must not hear about the invalid move, got %d messages", len(p2.messages()))
	}
}

func TestMove_OutOfTurnIsSilentlyDropped(t *testing.T) {
	h := startHub(t, 10)
	p1, p2 := pairUp(t, h, 7)

	h.Submit(p2, 0)
	// Give the loop a chance to (incorrectly) answer.
	h.Submit(p1, 0)
	waitFor(t, func() bool { return len(p1.messages()) >= 2 }, "follow-up move")

	msgs := p2.messages()
	// p2 sees only the start message and the broadcast of p1's move.
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages for p2, got %d", len(msgs))
	}
	if msgs[1].Text != session.TextMoveAccepted {
		t.Errorf("expected broadcast of the legal move, got %q", msgs[1].Text)
	}
}

func TestWin_BroadcastsTerminalToBoth(t *testing.T) {
	h := startHub(t, 10)
	p1, p2 := pairUp(t, h, 7)

	plan := []struct {
		peer *stubPeer
		col  int32
	}{
		{p1, 0}, {p2, 7}, {p1, 1}, {p2, 7}, {p1, 2}, {p2, 7}, {p1, 3},
	}
	for _, m := range plan {
		h.Submit(m.peer, m.col)
	}
	waitFor(t, func() bool {
		msgs := p2.messages()
		return len(msgs) > 0 && msgs[len(msgs)-1].Terminal
	}, "win broadcast")

	for _, p := range []*stubPeer{p1, p2} {
		msgs := p.messages()
		last := msgs[len(msgs)-1]
		if !last.Terminal {
			t.Errorf("%s: final message must be terminal", p.id)
		}
		if !strings.Contains(last.Text, "Player 1") {
			t.Errorf("%s: winner message must name player 1, got %q", p.id, last.Text)
		}
		if last.CurrentMover != 0 {
			t.Errorf("%s: no mover after a win, got %d", p.id, last.CurrentMover)
		}
	}
}

func TestLeave_ScenarioD(t *testing.T) {
	h := startHub(t, 10)
	p1, p2 := pairUp(t, h, 7)

	h.Leave(p1)
	waitFor(t, func() bool { return p2.isClosed() }, "survivor teardown")

	msgs := p2.messages()
	var notices int
	for _, m := range msgs {
		if m.Terminal {
			notices++
			if m.Text != session.TextDisconnected {
				t.Errorf("expected %q, got %q", session.TextDisconnected, m.Text)
			}
		}
	}
	if notices != 1 {
		t.Errorf("survivor must receive exactly one terminal notice, got %d", notices)
	}
	if m := msgs[len(msgs)-1]; !m.Terminal {
		t.Error("no further messages may follow the terminal notice")
	}
}

func TestJoin_CapacityDropsConnection(t *testing.T) {
	h := startHub(t, 1)

	h.Join(&stubPeer{id: "a"}, 1)
	overflow := &stubPeer{id: "b"}
	h.Join(overflow, 2)

	waitFor(t, func() bool { return overflow.isClosed() }, "overflow rejection")
	if len(overflow.messages()) != 0 {
		t.Error("a rejected connection must not receive any notification")
	}
}
