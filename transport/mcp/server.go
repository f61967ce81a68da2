package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mpiech/connect4-server/game/session"
)

// Admin exposes a read-only MCP surface over the game registry.
// Tools inspect running games; they never submit moves or mutate
// sessions, which stay under the hub's exclusive control.
type Admin struct {
	registry  *session.Registry
	rows      int
	cols      int
	mcpServer *server.MCPServer
}

// NewAdmin creates the MCP admin surface.
func NewAdmin(registry *session.Registry, rows, cols int) *Admin {
	a := &Admin{
		registry: registry,
		rows:     rows,
		cols:     cols,
	}

	a.initMCPServer()
	return a
}

// initMCPServer initializes the MCP server with all tools
func (a *Admin) initMCPServer() {
	a.mcpServer = server.NewMCPServer(
		"Connect Four Server",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Connect Four Server - MCP Admin Interface

Read-only inspection of the running match server. Players connect over
TCP or WebSocket with a shared game key; two connections with the same
key are paired into a game.

AVAILABLE TOOLS:
- list_games: List all games currently held by the server
- get_board: Render the board of one game by its key
- server_stats: Occupancy and capacity counters

These tools never move pieces or end games.`),
	)

	a.registerTools()
}

// registerTools registers all MCP tools
func (a *Admin) registerTools() {
	a.mcpServer.AddTool(mcp.Tool{
		Name:        "list_games",
		Description: "List all games currently held by the server",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, a.handleListGames)

	a.mcpServer.AddTool(mcp.Tool{
		Name:        "get_board",
		Description: "Render the board of a game identified by its game key",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"key": map[string]interface{}{
					"type":        "integer",
					"description": "Game key the players used to pair up",
				},
			},
			Required: []string{"key"},
		},
	}, a.handleGetBoard)

	a.mcpServer.AddTool(mcp.Tool{
		Name:        "server_stats",
		Description: "Get occupancy and capacity counters",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, a.handleServerStats)
}

// GetMCPServer returns the underlying MCP server for serving
func (a *Admin) GetMCPServer() *server.MCPServer {
	return a.mcpServer
}

// ServeStdio blocks serving MCP over stdin/stdout.
func (a *Admin) ServeStdio() error {
	return server.ServeStdio(a.mcpServer)
}

// Tool handlers

func (a *Admin) handleListGames(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	games := a.registry.Snapshot()

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Games (%d/%d slots):\n\n", len(games), a.registry.Capacity()))
	for _, g := range games {
		b.WriteString(fmt.Sprintf("- key %d: %s, %d connection(s)", g.Key, g.State, g.Participants))
		if g.CurrentMover != 0 {
			b.WriteString(fmt.Sprintf(", player %d to move", g.CurrentMover))
		}
		if g.Reason != "" {
			b.WriteString(fmt.Sprintf(" (%s)", g.Reason))
		}
		b.WriteString("\n")
	}
	if len(games) == 0 {
		b.WriteString("(no games)\n")
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (a *Admin) handleGetBoard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("missing arguments"), nil
	}
	keyRaw, ok := args["key"].(float64)
	if !ok {
		return mcp.NewToolResultError("key must be an integer"), nil
	}
	key := int32(keyRaw)

	for _, g := range a.registry.Snapshot() {
		if g.Key != key {
			continue
		}
		result := fmt.Sprintf("Game %d: %s", g.Key, g.State)
		if g.CurrentMover != 0 {
			result += fmt.Sprintf(", player %d to move", g.CurrentMover)
		}
		if g.Reason != "" {
			result += fmt.Sprintf("\n%s", g.Reason)
		}
		result += "\n\n" + a.formatBoard(g.Grid)
		return mcp.NewToolResultText(result), nil
	}

	return mcp.NewToolResultError(fmt.Sprintf("no game with key %d", key)), nil
}

func (a *Admin) handleServerStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	games := a.registry.Snapshot()

	var active, pending, terminal int
	for _, g := range games {
		switch g.State {
		case "active":
			active++
		case "pending":
			pending++
		default:
			terminal++
		}
	}

	result := fmt.Sprintf(`Server stats:
- capacity: %d games
- occupied slots: %d
- pending (waiting for opponent): %d
- active: %d
- terminal: %d
- board: %dx%d`,
		a.registry.Capacity(), len(games), pending, active, terminal, a.rows, a.cols)

	return mcp.NewToolResultText(result), nil
}

// formatBoard renders a row-major cell dump with column indexes and a
// frame, top row first.
func (a *Admin) formatBoard(grid string) string {
	if len(grid) != a.rows*a.cols {
		return "(board unavailable)"
	}

	var b strings.Builder
	b.WriteString(" ")
	for c := 0; c < a.cols; c++ {
		b.WriteString(fmt.Sprintf("%d", c%10))
	}
	b.WriteString("\n")
	for r := 0; r < a.rows; r++ {
		b.WriteString("|")
		b.WriteString(grid[r*a.cols : (r+1)*a.cols])
		b.WriteString("|\n")
	}
	b.WriteString("+")
	b.WriteString(strings.Repeat("-", a.cols))
	b.WriteString("+")
	return b.String()
}
