// Package bowling scores ten-pin bowling games from a flat sequence of rolls.
//
// game.go holds Game, the append-only roll sequence with Roll, Score and
// Rolls. Score walks the sequence with a lookahead cursor: a strike takes the
// next two rolls as its bonus, a spare takes the next one, wherever those
// rolls sit in the sequence. The tenth frame needs no special case because
// its bonus balls are simply the rolls after it. At most ten frames are
// scored; trailing rolls beyond the tenth frame are ignored.
//
// A frame whose balls or bonus balls have not been rolled yet contributes 0,
// so Score under-reports an unfinished game instead of failing.
//
// frames.go derives the per-frame breakdown (Frames) and Complete from the
// same walk.
//
// Roll rejects pin counts outside [0, 10] with ErrInvalidPinCount. It does not
// check that a frame's two balls sum to at most 10 unless the Game was built
// with WithStrictFrames, in which case ErrInvalidFrameTotal is returned for
// rolls that exceed the pins left standing.
//
// All Game methods are safe for concurrent use.
package bowling
