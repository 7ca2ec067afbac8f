package bowling

// Frame kinds reported by Frames.
const (
	KindStrike  = "strike"
	KindSpare   = "spare"
	KindOpen    = "open"
	KindPending = "pending" // first ball rolled, second not yet
)

// Frame is one frame of the breakdown returned by Game.Frames.
type Frame struct {
	// Number is the frame number, 1-10.
	Number int

	// Rolls holds the balls thrown in this frame. The tenth frame also
	// carries its bonus balls.
	Rolls []int

	// Kind is one of KindStrike, KindSpare, KindOpen, KindPending.
	Kind string

	// Score is the frame's pins plus bonus. Zero until Resolved.
	Score int

	// Cumulative is the game total through this frame. Zero until Resolved.
	Cumulative int

	// Resolved is true once every ball the frame score depends on is known.
	Resolved bool
}

// Frames returns the frames found in the recorded rolls so far, at most
// FramesPerGame of them. Resolved frames always form a prefix of the result
// and the Cumulative of the last resolved frame equals Score.
func (g *Game) Frames() []Frame {
	g.mu.Lock()
	defer g.mu.Unlock()
	return frames(g.rolls)
}

// Complete reports whether the tenth frame and all of its bonus balls have
// been rolled.
func (g *Game) Complete() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	fs := frames(g.rolls)
	return len(fs) == FramesPerGame && fs[FramesPerGame-1].Resolved
}

func frames(rolls []int) []Frame {
	var out []Frame
	total, i := 0, 0
	for n := 1; n <= FramesPerGame && i < len(rolls); n++ {
		f := Frame{Number: n}

		switch {
		case rolls[i] == MaxPins:
			f.Kind = KindStrike
		case i+1 >= len(rolls):
			f.Kind = KindPending
		case rolls[i]+rolls[i+1] == MaxPins:
			f.Kind = KindSpare
		default:
			f.Kind = KindOpen
		}

		own := 2
		if f.Kind == KindStrike {
			own = 1
		}
		if n == FramesPerGame && (f.Kind == KindStrike || f.Kind == KindSpare) {
			own = 3
		}
		f.Rolls = append([]int(nil), rolls[i:min(i+own, len(rolls))]...)

		s, advance, ok := frameScore(rolls, i)
		if ok {
			total += s
			f.Score = s
			f.Cumulative = total
			f.Resolved = true
		}

		out = append(out, f)
		i += advance
	}
	return out
}
