package pose

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedFrame is matched by every *MalformedFrameError.
	ErrMalformedFrame = errors.New("malformed landmark frame")
	// ErrDegenerateInput is matched by every *DegenerateInputError.
	ErrDegenerateInput = errors.New("degenerate joint input")
	// ErrWorldSpaceFrame rejects frames in metric world coordinates.
	ErrWorldSpaceFrame = errors.New("world-space landmarks are not accepted")
	// ErrMalformedJoints means a leg was not given as exactly hip, knee, ankle.
	ErrMalformedJoints = errors.New("expected exactly 3 joints (hip, knee, ankle)")
)

// MalformedFrameError is returned when a frame does not hold NumLandmarks points.
type MalformedFrameError struct {
	Got int
}

func (e *MalformedFrameError) Error() string {
	return fmt.Sprintf("%v: got %d landmarks, want %d", ErrMalformedFrame, e.Got, NumLandmarks)
}

func (e *MalformedFrameError) Is(target error) bool {
	return target == ErrMalformedFrame
}

// DegenerateInputError is returned when a joint vector has zero length or a
// coordinate is not finite.
type DegenerateInputError struct {
	Reason string
}

func (e *DegenerateInputError) Error() string {
	return fmt.Sprintf("%v: %s", ErrDegenerateInput, e.Reason)
}

func (e *DegenerateInputError) Is(target error) bool {
	return target == ErrDegenerateInput
}
