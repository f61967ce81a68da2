package board

import (
	"errors"
	"fmt"
)

// Cell values as they appear both in memory and on the wire.
const (
	Empty   byte = ' '
	Symbol1 byte = '*'
	Symbol2 byte = '@'
)

// Default grid dimensions and winning run length.
const (
	DefaultRows = 9
	DefaultCols = 8
	WinLength   = 4
)

var (
	ErrOutOfRange = errors.New("column out of range")
	ErrColumnFull = errors.New("column is full")
)

// Player identifies one of the two participants of a match.
type Player int

const (
	NoPlayer Player = 0
	Player1  Player = 1
	Player2  Player = 2
)

// Symbol returns the cell byte used for the player's pieces.
func (p Player) Symbol() byte {
	switch p {
	case Player1:
		return Symbol1
	case Player2:
		return Symbol2
	default:
		return Empty
	}
}

// Opponent returns the other participant, or NoPlayer for NoPlayer.
func (p Player) Opponent() Player {
	switch p {
	case Player1:
		return Player2
	case Player2:
		return Player1
	default:
		return NoPlayer
	}
}

// String implements fmt.Stringer for log and status messages.
func (p Player) String() string {
	if p == NoPlayer {
		return "none"
	}
	return fmt.Sprintf("Player %d", int(p))
}

// Grid is a rows×columns board. Row 0 is the top; pieces stack from the
// bottom row upward.
type Grid struct {
	rows  int
	cols  int
	cells [][]byte
}

// New returns an empty grid of the given dimensions. Non-positive
// dimensions fall back to the defaults.
func New(rows, cols int) *Grid {
	if rows <= 0 {
		rows = DefaultRows
	}
	if cols <= 0 {
		cols = DefaultCols
	}
	cells := make([][]byte, rows)
	for i := range cells {
		cells[i] = make([]byte, cols)
		for j := range cells[i] {
			cells[i][j] = Empty
		}
	}
	return &Grid{rows: rows, cols: cols, cells: cells}
}

// Rows returns the number of rows.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of columns.
func (g *Grid) Cols() int { return g.cols }

// Cell returns the byte at (row, col). Out-of-bounds reads return Empty.
func (g *Grid) Cell(row, col int) byte {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		return Empty
	}
	return g.cells[row][col]
}

// ApplyMove drops the player's piece into the given column and returns
// the row it landed in. It fails with ErrOutOfRange for a column outside
// [0, Cols) and ErrColumnFull when the column has no empty cell; the
// grid is left untouched on failure.
func (g *Grid) ApplyMove(col int, p Player) (int, error) {
	if col < 0 || col >= g.cols {
		return 0, ErrOutOfRange
	}
	for row := g.rows - 1; row >= 0; row-- {
		if g.cells[row][col] == Empty {
			g.cells[row][col] = p.Symbol()
			return row, nil
		}
	}
	return 0, ErrColumnFull
}

// CheckWin reports whether the player has four contiguous pieces in a
// horizontal, vertical, or diagonal run. Every cell is scanned as a
// potential run start in the four forward directions.
func (g *Grid) CheckWin(p Player) bool {
	symbol := p.Symbol()
	for i := 0; i < g.rows; i++ {
		for j := 0; j < g.cols; j++ {
			if g.cells[i][j] != symbol {
				continue
			}
			// Horizontal
			if j <= g.cols-WinLength &&
				g.cells[i][j+1] == symbol && g.cells[i][j+2] == symbol && g.cells[i][j+3] == symbol {
				return true
			}
			// Vertical
			if i <= g.rows-WinLength &&
				g.cells[i+1][j] == symbol && g.cells[i+2][j] == symbol && g.cells[i+3][j] == symbol {
				return true
			}
			// Diagonal down-right
			if i <= g.rows-WinLength && j <= g.cols-WinLength &&
				g.cells[i+1][j+1] == symbol && g.cells[i+2][j+2] == symbol && g.cells[i+3][j+3] == symbol {
				return true
			}
			// Diagonal up-right
			if i >= WinLength-1 && j <= g.cols-WinLength &&
				g.cells[i-1][j+1] == symbol && g.cells[i-2][j+2] == symbol && g.cells[i-3][j+3] == symbol {
				return true
			}
		}
	}
	return false
}

// Snapshot returns the grid contents row-major in a freshly allocated
// slice, sized Rows×Cols. This is the layout the wire codec expects.
func (g *Grid) Snapshot() []byte {
	out := make([]byte, 0, g.rows*g.cols)
	for _, row := range g.cells {
		out = append(out, row...)
	}
	return out
}

// Restore overwrites the grid from a row-major snapshot. It fails if the
// snapshot length does not match the grid dimensions.
func (g *Grid) Restore(snapshot []byte) error {
	if len(snapshot) != g.rows*g.cols {
		return fmt.Errorf("snapshot length %d does not match %dx%d grid", len(snapshot), g.rows, g.cols)
	}
	for i := 0; i < g.rows; i++ {
		copy(g.cells[i], snapshot[i*g.cols:(i+1)*g.cols])
	}
	return nil
}
