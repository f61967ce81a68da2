// Package board provides the core connect-four grid logic.
//
// The board package implements the two primitive operations every match
// is arbitrated with:
//   - Gravity-style move application (a piece occupies the lowest empty
//     cell of the chosen column)
//   - Win detection (four contiguous same-player cells horizontally,
//     vertically, or along either diagonal)
//
// A Grid is a plain rows×columns byte matrix with no I/O and no shared
// state; callers own synchronization. Dimensions are fixed at creation
// and default to the classic 9×8 layout used by the server.
//
// Usage:
//
//	g := board.New(9, 8)
//	row, err := g.ApplyMove(3, board.Player1)
//	if err != nil {
//		// board.ErrOutOfRange or board.ErrColumnFull
//	}
//	if g.CheckWin(board.Player1) {
//		// player 1 has four in a row
//	}
package board
