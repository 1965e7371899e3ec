package repcounter

import (
	"fmt"
	"math"
)

// Angles in degrees bounding the hysteresis band. A full lunge and a fully
// straight stance are not required; these leave room for differing technique.
const (
	DefaultMinKneeAngle = 80.0
	DefaultMaxKneeAngle = 160.0
)

// Thresholds is the hysteresis band of the rep state machine.
type Thresholds struct {
	MinKneeAngle float64 `mapstructure:"min_knee_angle" json:"min_knee_angle"`
	MaxKneeAngle float64 `mapstructure:"max_knee_angle" json:"max_knee_angle"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{MinKneeAngle: DefaultMinKneeAngle, MaxKneeAngle: DefaultMaxKneeAngle}
}

// Validate requires 0 <= min < max <= 180.
func (t Thresholds) Validate() error {
	if math.IsNaN(t.MinKneeAngle) || math.IsNaN(t.MaxKneeAngle) {
		return fmt.Errorf("knee angle thresholds must be numbers")
	}
	if t.MinKneeAngle < 0 || t.MaxKneeAngle > 180 {
		return fmt.Errorf("knee angle thresholds must lie in [0, 180], got [%g, %g]", t.MinKneeAngle, t.MaxKneeAngle)
	}
	if t.MinKneeAngle >= t.MaxKneeAngle {
		return fmt.Errorf("min knee angle %g must be below max knee angle %g", t.MinKneeAngle, t.MaxKneeAngle)
	}
	return nil
}

// Progress maps an angle onto [0, 1]: 0 at or above MaxKneeAngle, 1 at or
// below MinKneeAngle, linear in between.
func (t Thresholds) Progress(angle float64) float64 {
	p := (t.MaxKneeAngle - angle) / (t.MaxKneeAngle - t.MinKneeAngle)
	return math.Max(0, math.Min(1, p))
}
