// Package bot implements an automated connect four player. It speaks
// the normal player protocol, so a bot and a human client can share a
// game key, and picks moves with a one-ply lookahead: take a win, deny
// a win, otherwise play center-out.
package bot

import (
	"github.com/mpiech/connect4-server/game/board"
)

// ChooseMove picks a column for p on the given grid. The second return
// is false only when every column is full.
func ChooseMove(g *board.Grid, p board.Player) (int, bool) {
	// A drop that wins outright.
	for _, col := range columnOrder(g.Cols()) {
		if winningDrop(g, col, p) {
			return col, true
		}
	}

	// A drop that denies the opponent a win next turn.
	for _, col := range columnOrder(g.Cols()) {
		if winningDrop(g, col, p.Opponent()) {
			return col, true
		}
	}

	// Center columns keep the most winning lines open.
	for _, col := range columnOrder(g.Cols()) {
		if g.Cell(0, col) == board.Empty {
			return col, true
		}
	}
	return 0, false
}

// winningDrop reports whether dropping p's piece in col wins the game.
// The simulation runs on a copy; g is never mutated.
func winningDrop(g *board.Grid, col int, p board.Player) bool {
	sim := board.New(g.Rows(), g.Cols())
	if err := sim.Restore(g.Snapshot()); err != nil {
		return false
	}
	if _, err := sim.ApplyMove(col, p); err != nil {
		return false
	}
	return sim.CheckWin(p)
}

// columnOrder yields columns center-out: 4 3 5 2 6 1 7 0 for eight
// columns.
func columnOrder(cols int) []int {
	order := make([]int, 0, cols)
	mid := cols / 2
	order = append(order, mid)
	for d := 1; len(order) < cols; d++ {
		if mid-d >= 0 {
			order = append(order, mid-d)
		}
		if mid+d < cols {
			order = append(order, mid+d)
		}
	}
	return order
}
