// Command analyze prints quick, human-readable heuristics about the
// games a running server currently holds. It fetches the JSON game
// list, renders each board, and flags immediate threats: columns where
// the next drop completes four in a row.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mpiech/connect4-server/game/board"
	"github.com/mpiech/connect4-server/game/session"
)

var (
	baseURL = flag.String("url", "http://localhost:8080", "server HTTP base URL")
	rows    = flag.Int("rows", board.DefaultRows, "board rows (must match the server)")
	cols    = flag.Int("cols", board.DefaultCols, "board columns (must match the server)")
)

// gamesResponse mirrors the /api/games payload.
type gamesResponse struct {
	Count    int                `json:"count"`
	Capacity int                `json:"capacity"`
	Games    []session.GameInfo `json:"games"`
}

func main() {
	flag.Parse()

	games, err := fetchGames(*baseURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching games: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Server holds %d/%d games\n", games.Count, games.Capacity)
	for _, g := range games.Games {
		fmt.Printf("\n=== Game %d ===\n", g.Key)
		analyzeGame(g, *rows, *cols)
	}
}

func fetchGames(base string) (*gamesResponse, error) {
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(base + "/api/games")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	var games gamesResponse
	if err := json.NewDecoder(resp.Body).Decode(&games); err != nil {
		return nil, fmt.Errorf("parse game list: %v", err)
	}
	return &games, nil
}

func analyzeGame(g session.GameInfo, rows, cols int) {
	fmt.Printf("State: %s, %d connection(s)\n", g.State, g.Participants)
	if g.CurrentMover != 0 {
		fmt.Printf("Player %d to move\n", g.CurrentMover)
	}
	if g.Reason != "" {
		fmt.Printf("Outcome: %s\n", g.Reason)
	}

	grid := board.New(rows, cols)
	if err := grid.Restore([]byte(g.Grid)); err != nil {
		fmt.Printf("Board unavailable: %v\n", err)
		return
	}

	printBoard(g.Grid, rows, cols)
	fmt.Printf("Pieces played: %d\n", countPieces(g.Grid))

	for _, p := range []board.Player{board.Player1, board.Player2} {
		if threats := winningColumns(grid, p); len(threats) > 0 {
			fmt.Printf("%s wins next by dropping in column(s) %s\n", p, joinInts(threats))
		}
	}
}

func printBoard(grid string, rows, cols int) {
	fmt.Print(" ")
	for c := 0; c < cols; c++ {
		fmt.Printf("%d", c%10)
	}
	fmt.Println()
	for r := 0; r < rows; r++ {
		fmt.Printf("|%s|\n", grid[r*cols:(r+1)*cols])
	}
	fmt.Printf("+%s+\n", strings.Repeat("-", cols))
}

func countPieces(grid string) int {
	n := 0
	for i := 0; i < len(grid); i++ {
		if grid[i] != board.Empty {
			n++
		}
	}
	return n
}

// winningColumns lists every column where p's next drop completes four
// in a row.
func winningColumns(g *board.Grid, p board.Player) []int {
	var out []int
	for col := 0; col < g.Cols(); col++ {
		sim := board.New(g.Rows(), g.Cols())
		if err := sim.Restore(g.Snapshot()); err != nil {
			return nil
		}
		if _, err := sim.ApplyMove(col, p); err != nil {
			continue
		}
		if sim.CheckWin(p) {
			out = append(out, col)
		}
	}
	return out
}

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = fmt.Sprintf("%d", n)
	}
	return strings.Join(parts, ", ")
}
