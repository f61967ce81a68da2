package session

import (
	"errors"
	"sync"
)

var (
	// ErrCapacityExceeded is returned by Join when every slot is taken.
	// Capacity is a hard limit: joins beyond it are rejected, not queued.
	ErrCapacityExceeded = errors.New("matchmaking table is full")
)

// Role tells a caller which side of the pairing a join landed on.
type Role int

const (
	// RoleStarter created a new pending session and waits for a peer.
	RoleStarter Role = iota
	// RoleJoiner completed a pending session; the match is now active.
	RoleJoiner
)

// GameInfo is a read-only snapshot of one slot for admin surfaces.
type GameInfo struct {
	Key          int32  `json:"key"`
	State        string `json:"state"`
	CurrentMover int    `json:"current_mover"`
	Participants int    `json:"participants"`
	Reason       string `json:"reason,omitempty"`
	Grid         string `json:"grid"`
}

// Registry is the matchmaking table: a bounded arena of session slots
// indexed by game key (for pending pairings) and by peer ID (for move
// routing). Slots released by finished sessions return to a free list,
// so the table reuses capacity instead of growing.
type Registry struct {
	mu sync.RWMutex

	rows int
	cols int

	slots   []*Session
	free    []int
	pending map[int32]int // game key -> slot of the one pending session
	byPeer  map[string]int
}

// NewRegistry creates a registry for rows×cols boards with a fixed
// number of concurrent session slots.
func NewRegistry(rows, cols, capacity int) *Registry {
	r := &Registry{
		rows:    rows,
		cols:    cols,
		slots:   make([]*Session, capacity),
		free:    make([]int, 0, capacity),
		pending: make(map[int32]int),
		byPeer:  make(map[string]int),
	}
	for i := capacity - 1; i >= 0; i-- {
		r.free = append(r.free, i)
	}
	return r
}

// Capacity returns the fixed slot count.
func (r *Registry) Capacity() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.slots)
}

// Len returns the number of occupied slots.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.slots) - len(r.free)
}

// Join attaches a peer to the session for a game key. The first peer of
// a key allocates a pending session (RoleStarter); the second completes
// it (RoleJoiner): player 1 is the first joiner, player 2 the second,
// the grid starts empty, and player 1 moves first. A key whose prior
// session is already full or finished simply starts a fresh pairing.
// Join fails with ErrCapacityExceeded when no slot is free; the caller
// must drop the connection.
func (r *Registry) Join(key int32, p Peer) (*Session, Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if idx, ok := r.pending[key]; ok {
		s := r.slots[idx]
		s.attach(p)
		delete(r.pending, key)
		r.byPeer[p.ID()] = idx
		return s, RoleJoiner, nil
	}

	if len(r.free) == 0 {
		return nil, RoleStarter, ErrCapacityExceeded
	}
	idx := r.free[len(r.free)-1]
	r.free = r.free[:len(r.free)-1]

	s := newSession(key, r.rows, r.cols, p)
	r.slots[idx] = s
	r.pending[key] = idx
	r.byPeer[p.ID()] = idx
	return s, RoleStarter, nil
}

// ByPeer resolves the session a peer is attached to, or nil.
func (r *Registry) ByPeer(peerID string) *Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx, ok := r.byPeer[peerID]
	if !ok {
		return nil
	}
	return r.slots[idx]
}

// Remove detaches a disconnected peer from its session. If the session
// was still live, it becomes terminal with the disconnect reason and the
// surviving participant is returned so the caller can deliver exactly
// one terminal notice; survivor is nil when no notice is owed. Once the
// last participant is gone the slot returns to the free list.
func (r *Registry) Remove(peerID string) (sess *Session, survivor *Participant) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx, ok := r.byPeer[peerID]
	if !ok {
		return nil, nil
	}
	delete(r.byPeer, peerID)

	sess = r.slots[idx]
	removed, remaining := sess.detach(peerID)
	if removed == nil {
		return sess, nil
	}

	notified := sess.terminate(TextDisconnected)

	if remaining == nil {
		r.slots[idx] = nil
		r.free = append(r.free, idx)
		if p, ok := r.pending[sess.Key()]; ok && p == idx {
			delete(r.pending, sess.Key())
		}
	}

	if notified {
		survivor = remaining
	}
	return sess, survivor
}

// Snapshot returns admin-facing information about every occupied slot.
func (r *Registry) Snapshot() []GameInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]GameInfo, 0, len(r.slots)-len(r.free))
	for _, s := range r.slots {
		if s == nil {
			continue
		}
		info := GameInfo{
			Key:    s.Key(),
			State:  s.State().String(),
			Reason: s.Reason(),
			Grid:   string(s.GridSnapshot()),
		}
		info.CurrentMover = int(s.Mover())
		for _, p := range s.Participants() {
			if p != nil {
				info.Participants++
			}
		}
		out = append(out, info)
	}
	return out
}
