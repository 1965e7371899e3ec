package repcounter

import (
	"fmt"
	"math"

	"github.com/lowaak/smart-trainer/lunge-counter/internal/pose"
)

// Selection reduces the left/right knee angle pair to the one angle that drives
// the state machine.
type Selection int

const (
	// SelectMin takes the smaller angle, whichever leg reads as more flexed.
	SelectMin Selection = iota
	// SelectLeft always uses the left knee.
	SelectLeft
	// SelectRight always uses the right knee.
	SelectRight
	// SelectMax takes the larger angle.
	SelectMax
)

var selectionNames = map[Selection]string{
	SelectMin:   "min",
	SelectLeft:  "left",
	SelectRight: "right",
	SelectMax:   "max",
}

func (s Selection) String() string {
	if name, ok := selectionNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Selection(%d)", int(s))
}

// ParseSelection accepts min, left, right or max.
func ParseSelection(s string) (Selection, error) {
	for sel, name := range selectionNames {
		if name == s {
			return sel, nil
		}
	}
	return 0, fmt.Errorf("unknown angle selection %q (want min, left, right or max)", s)
}

// Select returns the driving angle for a frame.
func (s Selection) Select(angles pose.AngleResult) float64 {
	switch s {
	case SelectLeft:
		return angles.Left
	case SelectRight:
		return angles.Right
	case SelectMax:
		return math.Max(angles.Left, angles.Right)
	default:
		return math.Min(angles.Left, angles.Right)
	}
}
