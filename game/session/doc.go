// Package session implements match state and matchmaking for the
// connect-four server.
//
// A Session is one pairing's authoritative game state: the grid, the
// two participants, the current mover, and the terminal status. It is a
// strict state machine: pending (one participant), then active (both
// participants, accepting moves from the current mover only), then
// terminal (win or disconnect recorded). No transition ever leaves
// terminal.
//
// The Registry is the matchmaker: it maps a client-supplied game key to
// a session, creating a pending one when the first participant of a key
// arrives and completing it when the second arrives. Capacity is a hard
// limit enforced with an index-based slot arena and free list; a join
// beyond capacity fails with ErrCapacityExceeded rather than queueing.
//
// Concurrency:
//
// Sessions carry their own mutex so the hub's event loop can mutate
// them while admin surfaces take read-only snapshots. The registry is
// guarded the same way. Move arbitration itself is still serialized by
// the hub: only its loop calls SubmitMove.
//
// Usage:
//
//	reg := session.NewRegistry(9, 8, 10)
//	sess, role, err := reg.Join(7, peer)
//	if errors.Is(err, session.ErrCapacityExceeded) {
//		// drop the connection
//	}
//	if role == session.RoleJoiner {
//		// sess is now active, player 1 to move
//	}
package session
