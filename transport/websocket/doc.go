// Package websocket provides a WebSocket transport for players who
// cannot open a raw TCP socket (browsers, proxied environments).
//
// The websocket package implements:
//   - Upgrading HTTP requests into game connections
//   - The same binary record format as the TCP transport
//   - Connection lifecycle management with ping/pong keepalives
//
// Message Protocol:
//
// All frames are binary. The first frame from the client carries the
// four-byte little-endian game key. The server then sends a four-byte
// player assignment, followed by fixed-size game records. Client frames
// after the handshake are full game records; only the move field is
// examined.
//
// Usage:
//
//	handler := websocket.NewHandler(gameHub, codec)
//	mux.Handle("/ws", handler)
//
// Connection Lifecycle:
//
// 1. Client connects and sends its game key
// 2. Peer is joined into the game hub
// 3. Client submits moves, receives broadcast records
// 4. Disconnection (or a malformed frame) triggers cleanup
//
// Concurrency:
//
// Each connection gets a read pump and a write pump goroutine. All game
// arbitration happens in the hub's single event loop.
package websocket
