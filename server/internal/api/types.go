package api

// HealthResponse is the payload for GET /api/v1/health.
type HealthResponse struct {
	Status string `json:"status"`
}

// RollRequest is the body of POST /api/v1/rolls. Pins is a pointer so a
// missing field can be told apart from a gutter ball.
type RollRequest struct {
	Pins *int `json:"pins"`
}

// ScoreResponse is the payload for GET /api/v1/score.
type ScoreResponse struct {
	Score    int  `json:"score"`
	Complete bool `json:"complete"`
}

// errorResponse is a generic JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}
