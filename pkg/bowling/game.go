package bowling

import (
	"fmt"
	"log/slog"
	"sync"
)

const (
	// MaxPins is the number of pins standing at the start of a frame.
	MaxPins = 10

	// FramesPerGame is the number of frames scored in one game.
	FramesPerGame = 10
)

// Option configures a Game.
type Option func(*Game)

// WithStrictFrames makes Roll reject a ball that knocks down more pins than
// are standing: the second ball of an open frame, or a tenth-frame bonus ball
// thrown at a partial rack. Games are lenient by default and accept any roll
// in [0, MaxPins].
func WithStrictFrames() Option {
	return func(g *Game) { g.strict = true }
}

// Game is the roll sequence of one bowling game.
//
// All exported methods are safe for concurrent use.
type Game struct {
	mu     sync.Mutex
	rolls  []int
	strict bool
}

// NewGame returns an empty Game.
func NewGame(opts ...Option) *Game {
	g := &Game{}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Strict reports whether the Game was built with WithStrictFrames.
func (g *Game) Strict() bool {
	return g.strict
}

// Roll records the number of pins knocked down by one ball.
//
// pins outside [0, MaxPins] returns a *PinCountError and nothing is
// recorded. Rolls past the end of a finished game are accepted and ignored
// by Score.
func (g *Game) Roll(pins int) error {
	if pins < 0 || pins > MaxPins {
		return &PinCountError{Pins: pins}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.strict {
		frame, standing := nextBall(g.rolls)
		if pins > standing {
			slog.Debug("bowling: roll rejected", "frame", frame, "pins", pins, "standing", standing)
			return &FrameTotalError{Frame: frame, Standing: standing, Pins: pins}
		}
	}

	g.rolls = append(g.rolls, pins)
	return nil
}

// Score returns the total of every frame whose own balls and bonus balls
// have all been rolled. It does not modify the Game.
func (g *Game) Score() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return score(g.rolls)
}

// Rolls returns a copy of the recorded rolls in the order they were made.
func (g *Game) Rolls() []int {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]int, len(g.rolls))
	copy(out, g.rolls)
	return out
}

// Len returns the number of recorded rolls.
func (g *Game) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.rolls)
}

// ScoreRolls records rolls into a new Game and returns its score.
//
// On a rejected roll it returns the score of the rolls accepted so far and
// an error naming the 1-based position of the bad roll.
func ScoreRolls(rolls []int, opts ...Option) (int, error) {
	g := NewGame(opts...)
	for i, pins := range rolls {
		if err := g.Roll(pins); err != nil {
			return g.Score(), fmt.Errorf("roll %d: %w", i+1, err)
		}
	}
	return g.Score(), nil
}

// score walks up to FramesPerGame frames from the start of rolls and stops
// at the first frame that cannot be scored yet.
func score(rolls []int) int {
	total, i := 0, 0
	for frame := 0; frame < FramesPerGame; frame++ {
		s, advance, ok := frameScore(rolls, i)
		if !ok {
			break
		}
		total += s
		i += advance
	}
	return total
}

// frameScore scores the frame whose first ball is rolls[i].
//
// advance is the number of rolls the frame consumes (1 for a strike,
// otherwise 2). ok is false while any ball the score depends on is missing.
func frameScore(rolls []int, i int) (score, advance int, ok bool) {
	n := len(rolls)
	if i >= n {
		return 0, 0, false
	}

	if rolls[i] == MaxPins {
		if i+2 >= n {
			return 0, 1, false
		}
		return MaxPins + rolls[i+1] + rolls[i+2], 1, true
	}

	if i+1 >= n {
		return 0, 2, false
	}
	if rolls[i]+rolls[i+1] == MaxPins {
		if i+2 >= n {
			return 0, 2, false
		}
		return MaxPins + rolls[i+2], 2, true
	}
	return rolls[i] + rolls[i+1], 2, true
}

// nextBall returns the frame the next roll belongs to and how many pins are
// standing for it. Rolls after a finished game report a full rack.
func nextBall(rolls []int) (frame, standing int) {
	i := 0
	for frame = 1; frame < FramesPerGame; frame++ {
		if i >= len(rolls) {
			return frame, MaxPins
		}
		if rolls[i] == MaxPins {
			i++
			continue
		}
		if i+1 >= len(rolls) {
			return frame, MaxPins - rolls[i]
		}
		i += 2
	}

	tenth := rolls[i:]
	switch len(tenth) {
	case 0:
		return FramesPerGame, MaxPins
	case 1:
		if tenth[0] == MaxPins {
			return FramesPerGame, MaxPins
		}
		return FramesPerGame, MaxPins - tenth[0]
	case 2:
		// After a strike the second bonus ball faces whatever the first
		// one left; after a spare the bonus ball gets a fresh rack.
		if tenth[0] == MaxPins && tenth[1] < MaxPins {
			return FramesPerGame, MaxPins - tenth[1]
		}
		return FramesPerGame, MaxPins
	default:
		return FramesPerGame, MaxPins
	}
}
