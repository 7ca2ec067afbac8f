package bowling

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPinCount is matched by every error Roll returns for a pin
	// count outside [0, MaxPins].
	ErrInvalidPinCount = errors.New("bowling: invalid pin count")

	// ErrInvalidFrameTotal is matched by errors from a strict Game when a
	// roll knocks down more pins than are standing.
	ErrInvalidFrameTotal = errors.New("bowling: invalid frame total")
)

// PinCountError reports a roll outside [0, MaxPins].
type PinCountError struct {
	Pins int
}

func (e *PinCountError) Error() string {
	return fmt.Sprintf("bowling: invalid pin count %d: must be between 0 and %d", e.Pins, MaxPins)
}

// Is lets errors.Is(err, ErrInvalidPinCount) match.
func (e *PinCountError) Is(target error) bool {
	return target == ErrInvalidPinCount
}

// FrameTotalError reports a roll that exceeds the pins still standing in
// its frame. Only returned by Games built with WithStrictFrames.
type FrameTotalError struct {
	Frame    int // 1-10
	Standing int
	Pins     int
}

func (e *FrameTotalError) Error() string {
	return fmt.Sprintf("bowling: frame %d: %d pins rolled but only %d standing", e.Frame, e.Pins, e.Standing)
}

// Is lets errors.Is(err, ErrInvalidFrameTotal) match.
func (e *FrameTotalError) Is(target error) bool {
	return target == ErrInvalidFrameTotal
}
