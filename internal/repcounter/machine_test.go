package repcounter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lowaak/smart-trainer/lunge-counter/internal/pose"
)

func feed(t *testing.T, m *Machine, angles ...float64) []Step {
	t.Helper()
	steps := make([]Step, 0, len(angles))
	for _, a := range angles {
		step, err := m.Update(a)
		require.NoError(t, err)
		steps = append(steps, step)
	}
	return steps
}

func eventsOf(steps []Step) []Event {
	out := make([]Event, len(steps))
	for i, s := range steps {
		out[i] = s.Event
	}
	return out
}

func TestMachine_InitialState(t *testing.T) {
	m := NewMachine(DefaultThresholds())
	assert.Equal(t, RepState{}, m.State())
	assert.Equal(t, Standing, m.Phase())
}

func TestMachine_SingleRep(t *testing.T) {
	m := NewMachine(DefaultThresholds())
	steps := feed(t, m, 170, 150, 90, 70, 75, 165)

	assert.Equal(t, []Event{EventNone, EventNone, EventNone, EventMilestone, EventNone, EventRepCompleted}, eventsOf(steps))
	assert.Equal(t, 1, m.State().Reps)
	assert.Equal(t, Standing, m.Phase())

	wantProgress := []float64{0, 0.125, 0.875, 1, 1, 0}
	for i, s := range steps {
		assert.InDelta(t, wantProgress[i], s.Progress, 1e-12, "frame %d", i)
	}
}

func TestMachine_ThresholdBoundaries(t *testing.T) {
	m := NewMachine(DefaultThresholds())

	// exactly min enters the lunge
	steps := feed(t, m, 80)
	assert.Equal(t, EventMilestone, steps[0].Event)

	// exactly max does not complete the rep
	steps = feed(t, m, 160)
	assert.Equal(t, EventNone, steps[0].Event)
	assert.Equal(t, Lunging, m.Phase())

	steps = feed(t, m, 160.0001)
	assert.Equal(t, EventRepCompleted, steps[0].Event)
}

func TestMachine_HysteresisIgnoresJitter(t *testing.T) {
	m := NewMachine(DefaultThresholds())

	// jitter around the lower threshold: one milestone only
	steps := feed(t, m, 79, 81, 79, 82, 78, 120, 79)
	milestones := 0
	for _, s := range steps {
		if s.Event == EventMilestone {
			milestones++
		}
		assert.NotEqual(t, EventRepCompleted, s.Event)
	}
	assert.Equal(t, 1, milestones)

	// jitter around the upper threshold after completing
	steps = feed(t, m, 161, 159, 161, 155, 162)
	assert.Equal(t, []Event{EventRepCompleted, EventNone, EventNone, EventNone, EventNone}, eventsOf(steps))
	assert.Equal(t, 1, m.State().Reps)
}

func TestMachine_RepeatedLungingAngleIsIdempotent(t *testing.T) {
	m := NewMachine(DefaultThresholds())
	steps := feed(t, m, 70, 70, 70, 70)

	assert.Equal(t, EventMilestone, steps[0].Event)
	for _, s := range steps[1:] {
		assert.Equal(t, EventNone, s.Event)
		assert.Equal(t, 1.0, s.Progress)
	}
	assert.Equal(t, 0, m.State().Reps)
}

func TestMachine_CountsManyReps(t *testing.T) {
	m := NewMachine(DefaultThresholds())
	for i := 0; i < 5; i++ {
		feed(t, m, 170, 100, 75, 100, 170)
	}
	assert.Equal(t, 5, m.State().Reps)
}

func TestMachine_NonFiniteAngleLeavesStateUntouched(t *testing.T) {
	m := NewMachine(DefaultThresholds())
	feed(t, m, 70)
	before := m.State()

	for _, a := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := m.Update(a)
		assert.ErrorIs(t, err, pose.ErrDegenerateInput)
		assert.Equal(t, before, m.State())
	}
}

func TestMachine_Reset(t *testing.T) {
	m := NewMachine(DefaultThresholds())
	feed(t, m, 70, 170, 70)
	require.Equal(t, 1, m.State().Reps)

	m.Reset()
	assert.Equal(t, RepState{}, m.State())
}

func TestNewMachine_InvalidThresholdsPanics(t *testing.T) {
	assert.Panics(t, func() {
		NewMachine(Thresholds{MinKneeAngle: 160, MaxKneeAngle: 80})
	})
}

func TestThresholds_Validate(t *testing.T) {
	tests := []struct {
		name    string
		t       Thresholds
		wantErr bool
	}{
		{"defaults", DefaultThresholds(), false},
		{"full range", Thresholds{MinKneeAngle: 0, MaxKneeAngle: 180}, false},
		{"equal", Thresholds{MinKneeAngle: 90, MaxKneeAngle: 90}, true},
		{"inverted", Thresholds{MinKneeAngle: 150, MaxKneeAngle: 90}, true},
		{"negative", Thresholds{MinKneeAngle: -1, MaxKneeAngle: 90}, true},
		{"above 180", Thresholds{MinKneeAngle: 80, MaxKneeAngle: 181}, true},
		{"NaN", Thresholds{MinKneeAngle: math.NaN(), MaxKneeAngle: 90}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.t.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestThresholds_ProgressMonotone(t *testing.T) {
	th := DefaultThresholds()

	assert.Equal(t, 1.0, th.Progress(th.MinKneeAngle))
	assert.Equal(t, 1.0, th.Progress(10))
	assert.Equal(t, 0.0, th.Progress(th.MaxKneeAngle))
	assert.Equal(t, 0.0, th.Progress(179))

	prev := th.Progress(th.MinKneeAngle)
	for a := th.MinKneeAngle; a <= th.MaxKneeAngle; a += 0.5 {
		p := th.Progress(a)
		assert.LessOrEqual(t, p, prev, "angle %g", a)
		assert.GreaterOrEqual(t, p, 0.0)
		assert.LessOrEqual(t, p, 1.0)
		prev = p
	}
}

func TestEvent_Message(t *testing.T) {
	assert.Equal(t, "You've reached the lunge position! Half way there!", EventMilestone.Message())
	assert.Equal(t, "Rep completed!", EventRepCompleted.Message())
	assert.Empty(t, EventNone.Message())
}
