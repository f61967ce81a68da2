// Package api provides the HTTP surface of the connect four server.
//
// The api package implements:
//   - Read-only inspection of running games
//   - A health check for supervisors
//   - Mounting the WebSocket player endpoint
//
// Endpoints:
//
// Inspection:
//   - GET /api/games - List all games the server currently holds
//   - GET /healthz - Liveness probe
//
// Players:
//   - /ws - WebSocket game endpoint (binary frames, same record
//     format as the TCP transport)
//
// Moves never enter the server through plain HTTP. The JSON views
// exist so operators can watch games; arbitration stays with the
// game hub.
//
// Usage:
//
//	srv := api.NewServer(registry, wsHandler)
//	http.ListenAndServe(addr, srv)
package api
