package repcounter

import (
	"fmt"
	"math"

	"github.com/lowaak/smart-trainer/lunge-counter/internal/pose"
)

// Phase is the binary lunge phase.
type Phase int

const (
	Standing Phase = iota
	Lunging
)

func (p Phase) String() string {
	if p == Lunging {
		return "lunging"
	}
	return "standing"
}

// Event is the discrete output of a frame, at most one per frame.
type Event int

const (
	EventNone Event = iota
	// EventMilestone fires on Standing -> Lunging.
	EventMilestone
	// EventRepCompleted fires on Lunging -> Standing.
	EventRepCompleted
)

const (
	MilestoneMessage    = "You've reached the lunge position! Half way there!"
	RepCompletedMessage = "Rep completed!"
)

func (e Event) String() string {
	switch e {
	case EventMilestone:
		return "milestone"
	case EventRepCompleted:
		return "rep-completed"
	default:
		return "none"
	}
}

// Message is the feedback text shown for the event, empty for EventNone.
func (e Event) Message() string {
	switch e {
	case EventMilestone:
		return MilestoneMessage
	case EventRepCompleted:
		return RepCompletedMessage
	default:
		return ""
	}
}

// RepState is the mutable state of one exercise session.
type RepState struct {
	IsLunging bool
	Progress  float64
	Reps      int
}

// Step is the result of one processed frame.
type Step struct {
	Angle    float64
	Progress float64
	Event    Event
	Phase    Phase
	Reps     int
}

// Machine is the hysteresis rep detector. It is not safe for concurrent use;
// frames are expected one at a time.
type Machine struct {
	thresholds Thresholds
	state      RepState
}

// NewMachine panics on invalid thresholds, which are a programming error by
// the time a session starts.
func NewMachine(thresholds Thresholds) *Machine {
	if err := thresholds.Validate(); err != nil {
		panic("Machine: " + err.Error())
	}
	return &Machine{thresholds: thresholds}
}

// Update feeds one selected knee angle. The transition is evaluated first,
// then progress is recomputed from the angle; the recomputed value is the
// only progress a frame reports.
func (m *Machine) Update(angle float64) (Step, error) {
	if math.IsNaN(angle) || math.IsInf(angle, 0) {
		return Step{}, fmt.Errorf("%w: knee angle %v", pose.ErrDegenerateInput, angle)
	}

	event := EventNone
	switch {
	case !m.state.IsLunging && angle <= m.thresholds.MinKneeAngle:
		m.state.IsLunging = true
		event = EventMilestone
	case m.state.IsLunging && angle > m.thresholds.MaxKneeAngle:
		m.state.IsLunging = false
		m.state.Reps++
		event = EventRepCompleted
	}
	m.state.Progress = m.thresholds.Progress(angle)

	return Step{
		Angle:    angle,
		Progress: m.state.Progress,
		Event:    event,
		Phase:    m.Phase(),
		Reps:     m.state.Reps,
	}, nil
}

// State returns a snapshot of the current state.
func (m *Machine) State() RepState {
	return m.state
}

// Phase returns the current phase.
func (m *Machine) Phase() Phase {
	if m.state.IsLunging {
		return Lunging
	}
	return Standing
}

func (m *Machine) Thresholds() Thresholds {
	return m.thresholds
}

// Reset returns the machine to Standing with no reps.
func (m *Machine) Reset() {
	m.state = RepState{}
}
