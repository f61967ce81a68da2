package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mpiech/connect4-server/game/board"
	"github.com/mpiech/connect4-server/game/session"
)

func TestFetchGames(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/games" {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(gamesResponse{
			Count:    1,
			Capacity: 10,
			Games: []session.GameInfo{{
				Key:          42,
				State:        "active",
				CurrentMover: 1,
				Participants: 2,
				Grid:         strings.Repeat(" ", board.DefaultRows*board.DefaultCols),
			}},
		})
	}))
	defer srv.Close()

	games, err := fetchGames(srv.URL)
	if err != nil {
		t.Fatalf("fetchGames: %v", err)
	}
	if games.Count != 1 {
		t.Errorf("count = %d, want 1", games.Count)
	}
	if games.Games[0].Key != 42 {
		t.Errorf("key = %d, want 42", games.Games[0].Key)
	}
}

func TestFetchGames_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	if _, err := fetchGames(srv.URL); err == nil {
		t.Error("expected an error for a non-200 response")
	}
}

func TestWinningColumns(t *testing.T) {
	g := board.New(board.DefaultRows, board.DefaultCols)
	for _, col := range []int{0, 1, 2} {
		if _, err := g.ApplyMove(col, board.Player1); err != nil {
			t.Fatalf("drop: %v", err)
		}
	}

	got := winningColumns(g, board.Player1)
	if len(got) != 1 || got[0] != 3 {
		t.Errorf("winningColumns = %v, want [3]", got)
	}

	if got := winningColumns(g, board.Player2); len(got) != 0 {
		t.Errorf("player 2 threats = %v, want none", got)
	}
}

func TestCountPieces(t *testing.T) {
	grid := strings.Repeat(" ", 70) + "*@"
	if got := countPieces(grid); got != 2 {
		t.Errorf("countPieces = %d, want 2", got)
	}
}
