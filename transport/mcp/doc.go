// Package mcp provides a Model Context Protocol surface for inspecting
// the match server.
//
// The mcp package implements:
//   - MCP server for AI agent integration
//   - Read-only tool definitions over the game registry
//   - Stdio transport mode
//
// MCP Tools:
//
// The package exposes the following tools for AI agents:
//   - list_games: List all games currently held by the server
//   - get_board: Render one game's board by its key
//   - server_stats: Occupancy and capacity counters
//
// The surface is strictly read-only. Moves enter the server only
// through the player transports, so the admin tools can never break a
// game's turn order.
//
// Usage:
//
//	admin := mcp.NewAdmin(registry, rows, cols)
//	admin.ServeStdio()
package mcp
