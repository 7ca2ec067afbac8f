package types

import (
	"time"

	"github.com/tenpin/tenpin/pkg/bowling"
)

// GameSnapshot is the JSON view of one game at a point in time. It is the
// payload of GET /api/v1/game and of every WebSocket broadcast.
type GameSnapshot struct {
	GameID string `json:"game_id"`

	// Version is bumped on every roll or reset of the lane.
	Version uint64 `json:"version"`

	// StartedAt is the RFC3339 time the game was started.
	StartedAt string `json:"started_at"`

	StrictFrames bool            `json:"strict_frames"`
	Rolls        []int           `json:"rolls"`
	Frames       []FrameSnapshot `json:"frames"`
	Score        int             `json:"score"`
	Complete     bool            `json:"complete"`
}

// FrameSnapshot is one frame within a GameSnapshot. Kind is one of
// strike, spare, open or pending.
type FrameSnapshot struct {
	Number     int    `json:"number"`
	Rolls      []int  `json:"rolls"`
	Kind       string `json:"kind"`
	Score      int    `json:"score"`
	Cumulative int    `json:"cumulative"`
	Resolved   bool   `json:"resolved"`
}

// NewGameSnapshot captures g. The Game's own lock keeps each read
// consistent; callers that roll concurrently must serialise around it if
// they need rolls, frames and score from the same instant.
func NewGameSnapshot(id string, version uint64, startedAt time.Time, g *bowling.Game) GameSnapshot {
	frames := g.Frames()
	out := GameSnapshot{
		GameID:       id,
		Version:      version,
		StartedAt:    startedAt.UTC().Format(time.RFC3339),
		StrictFrames: g.Strict(),
		Rolls:        g.Rolls(),
		Frames:       make([]FrameSnapshot, 0, len(frames)),
		Score:        g.Score(),
		Complete:     g.Complete(),
	}
	for _, f := range frames {
		out.Frames = append(out.Frames, FrameSnapshot{
			Number:     f.Number,
			Rolls:      f.Rolls,
			Kind:       f.Kind,
			Score:      f.Score,
			Cumulative: f.Cumulative,
			Resolved:   f.Resolved,
		})
	}
	return out
}
