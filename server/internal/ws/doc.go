// Package ws implements the WebSocket hub for the lane server.
//
// Hub manages a set of connected clients and pushes the current game to all
// of them whenever the lane changes, plus a heartbeat copy on a configurable
// interval (default 5s in production).
//
// New(lane, interval) creates a Hub.
// Hub.Run(ctx) subscribes to the lane and starts the heartbeat ticker; it
// blocks until ctx is cancelled, then closes all active connections.
// Hub.ServeHTTP upgrades an HTTP connection to WebSocket, sends the current
// game immediately on connect, then streams updates.
//
// Message format sent to clients:
//
//	{
//	  "event": "snapshot",
//	  "data":  { /* same schema as GET /api/v1/game */ }
//	}
//
// Clients whose send buffer fills up are disconnected. The upgrader accepts
// all origins; apply CORS restrictions at the reverse proxy. The endpoint is
// mounted at /ws/stream by the server.
package ws
