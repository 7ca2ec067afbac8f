// Package api implements the HTTP REST API for the lane server.
//
// New(lane) returns an http.Handler that serves:
//
//	GET  /api/v1/health  liveness; always {"status":"ok"}
//	GET  /api/v1/game    current game: id, rolls, frames, score, complete
//	POST /api/v1/rolls   record one roll, body {"pins": n}; 201 + game
//	GET  /api/v1/score   {"score": n, "complete": b}
//	POST /api/v1/reset   discard the game and start a new one; 200 + game
//
// All endpoints:
//   - Respond with Content-Type: application/json
//   - Return 405 with an Allow header for other methods
//   - Report failures as {"error": "..."}; a rejected roll is 400
//
// JSON types are defined in types.go and pkg/types. No external HTTP
// framework is used.
package api
