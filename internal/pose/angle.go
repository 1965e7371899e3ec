package pose

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Convention picks how the shin vector is directed.
type Convention int

const (
	// ConventionSegment uses A = hip-knee and B = knee-ankle. Anti-parallel
	// segments give 180 degrees, parallel segments give 0. Rep thresholds are
	// calibrated against this convention.
	ConventionSegment Convention = iota
	// ConventionInterior uses A = hip-knee and B = ankle-knee, the anatomical
	// angle at the knee.
	ConventionInterior
)

func (c Convention) String() string {
	switch c {
	case ConventionSegment:
		return "segment"
	case ConventionInterior:
		return "interior"
	default:
		return fmt.Sprintf("Convention(%d)", int(c))
	}
}

// ParseConvention accepts "segment" or "interior".
func ParseConvention(s string) (Convention, error) {
	switch s {
	case "segment", "":
		return ConventionSegment, nil
	case "interior":
		return ConventionInterior, nil
	default:
		return 0, fmt.Errorf("unknown angle convention %q (want segment or interior)", s)
	}
}

// AngleResult holds the knee angle of each leg in degrees.
type AngleResult struct {
	Left  float64
	Right float64
}

// Estimator computes knee angles. The zero value uses ConventionSegment.
type Estimator struct {
	Convention Convention
}

// ComputeAngle returns the knee angle in degrees for one leg.
func (e Estimator) ComputeAngle(hip, knee, ankle Point3D) (float64, error) {
	for _, p := range [...]Point3D{hip, knee, ankle} {
		if !finite(p) {
			return 0, &DegenerateInputError{Reason: fmt.Sprintf("non-finite coordinate %+v", p)}
		}
	}

	k := vec(knee)
	a := r3.Sub(vec(hip), k)
	var b r3.Vec
	if e.Convention == ConventionInterior {
		b = r3.Sub(vec(ankle), k)
	} else {
		b = r3.Sub(k, vec(ankle))
	}

	normA, normB := r3.Norm(a), r3.Norm(b)
	if normA == 0 {
		return 0, &DegenerateInputError{Reason: "hip and knee coincide"}
	}
	if normB == 0 {
		return 0, &DegenerateInputError{Reason: "knee and ankle coincide"}
	}

	// rounding can push |cos| just past 1 on (anti)parallel segments
	cos := math.Max(-1, math.Min(1, r3.Dot(a, b)/(normA*normB)))
	return math.Acos(cos) * 180 / math.Pi, nil
}

// ComputeJointAngle takes one leg as [hip, knee, ankle].
func (e Estimator) ComputeJointAngle(joints []Point3D) (float64, error) {
	if len(joints) != 3 {
		return 0, fmt.Errorf("%w: got %d", ErrMalformedJoints, len(joints))
	}
	return e.ComputeAngle(joints[0], joints[1], joints[2])
}

// ComputeKneeAngles returns the left and right knee angles of a frame.
func (e Estimator) ComputeKneeAngles(frame LandmarkFrame) (AngleResult, error) {
	if err := frame.Validate(); err != nil {
		return AngleResult{}, err
	}
	left, err := e.ComputeJointAngle(frame.Leg(Left))
	if err != nil {
		return AngleResult{}, fmt.Errorf("left knee: %w", err)
	}
	right, err := e.ComputeJointAngle(frame.Leg(Right))
	if err != nil {
		return AngleResult{}, fmt.Errorf("right knee: %w", err)
	}
	return AngleResult{Left: left, Right: right}, nil
}

// ComputeAngle uses the default segment convention.
func ComputeAngle(hip, knee, ankle Point3D) (float64, error) {
	return Estimator{}.ComputeAngle(hip, knee, ankle)
}

// ComputeKneeAngles uses the default segment convention.
func ComputeKneeAngles(frame LandmarkFrame) (AngleResult, error) {
	return Estimator{}.ComputeKneeAngles(frame)
}

func vec(p Point3D) r3.Vec {
	return r3.Vec{X: p.X, Y: p.Y, Z: p.Z}
}

func finite(p Point3D) bool {
	for _, v := range [...]float64{p.X, p.Y, p.Z} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
