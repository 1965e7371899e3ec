package pose

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// frameWithLegs builds a valid frame with the given legs, every other landmark at the origin.
func frameWithLegs(left, right [3]Point3D) LandmarkFrame {
	points := make([]Point3D, NumLandmarks)
	points[LeftHip], points[LeftKnee], points[LeftAnkle] = left[0], left[1], left[2]
	points[RightHip], points[RightKnee], points[RightAnkle] = right[0], right[1], right[2]
	return LandmarkFrame{Points: points}
}

func TestLandmarkIndices(t *testing.T) {
	assert.Equal(t, 33, NumLandmarks)
	assert.Equal(t, 23, LeftHip)
	assert.Equal(t, 24, RightHip)
	assert.Equal(t, 25, LeftKnee)
	assert.Equal(t, 26, RightKnee)
	assert.Equal(t, 27, LeftAnkle)
	assert.Equal(t, 28, RightAnkle)
}

func TestComputeAngle_KnownGeometry(t *testing.T) {
	hip := Point3D{X: 0, Y: 0, Z: 0}
	knee := Point3D{X: 0, Y: 1, Z: 0}

	tests := []struct {
		name  string
		ankle Point3D
		want  float64
	}{
		{"perpendicular", Point3D{X: 1, Y: 1, Z: 0}, 90},
		{"anti-parallel segments", Point3D{X: 0, Y: 0.5, Z: 0}, 180},
		{"parallel segments", Point3D{X: 0, Y: 2, Z: 0}, 0},
		{"depth axis", Point3D{X: 0, Y: 1, Z: -1}, 90},
		{"45 degrees", Point3D{X: 1, Y: 2, Z: 0}, 45},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeAngle(hip, knee, tt.ankle)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestComputeAngle_InteriorConvention(t *testing.T) {
	est := Estimator{Convention: ConventionInterior}
	hip := Point3D{X: 0.5, Y: 0.4}
	knee := Point3D{X: 0.5, Y: 0.6}

	straight, err := est.ComputeAngle(hip, knee, Point3D{X: 0.5, Y: 0.8})
	require.NoError(t, err)
	assert.InDelta(t, 180, straight, 1e-9)

	segment, err := ComputeAngle(hip, knee, Point3D{X: 0.5, Y: 0.8})
	require.NoError(t, err)
	assert.InDelta(t, 180-straight, segment, 1e-9)
}

func TestComputeAngle_NonCollinearStrictlyInside(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	point := func() Point3D {
		return Point3D{X: rng.Float64(), Y: rng.Float64(), Z: rng.Float64()*0.2 - 0.1}
	}
	for i := 0; i < 500; i++ {
		hip, knee, ankle := point(), point(), point()
		got, err := ComputeAngle(hip, knee, ankle)
		require.NoError(t, err)
		assert.Greater(t, got, 0.0)
		assert.Less(t, got, 180.0)
	}
}

func TestComputeAngle_Degenerate(t *testing.T) {
	p := Point3D{X: 0.3, Y: 0.3, Z: 0.1}
	q := Point3D{X: 0.3, Y: 0.6, Z: 0.1}

	tests := []struct {
		name             string
		hip, knee, ankle Point3D
	}{
		{"hip on knee", p, p, q},
		{"ankle on knee", q, p, p},
		{"all coincident", p, p, p},
		{"NaN coordinate", Point3D{X: math.NaN()}, p, q},
		{"infinite coordinate", q, p, Point3D{Y: math.Inf(1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeAngle(tt.hip, tt.knee, tt.ankle)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrDegenerateInput))
			var degenerate *DegenerateInputError
			assert.True(t, errors.As(err, &degenerate))
			assert.False(t, math.IsNaN(got))
		})
	}
}

func TestComputeJointAngle_RequiresThreeJoints(t *testing.T) {
	_, err := Estimator{}.ComputeJointAngle([]Point3D{{}, {Y: 1}})
	assert.ErrorIs(t, err, ErrMalformedJoints)

	_, err = Estimator{}.ComputeJointAngle([]Point3D{{}, {Y: 1}, {X: 1, Y: 1}, {}})
	assert.ErrorIs(t, err, ErrMalformedJoints)

	got, err := Estimator{}.ComputeJointAngle([]Point3D{{}, {Y: 1}, {X: 1, Y: 1}})
	require.NoError(t, err)
	assert.InDelta(t, 90, got, 1e-9)
}

func TestComputeKneeAngles(t *testing.T) {
	frame := frameWithLegs(
		[3]Point3D{{X: 0.4, Y: 0.5}, {X: 0.4, Y: 0.7}, {X: 0.5, Y: 0.7}},
		[3]Point3D{{X: 0.6, Y: 0.5}, {X: 0.6, Y: 0.7}, {X: 0.6, Y: 0.6}},
	)

	got, err := ComputeKneeAngles(frame)
	require.NoError(t, err)
	assert.InDelta(t, 90, got.Left, 1e-9)
	assert.InDelta(t, 180, got.Right, 1e-9)
}

func TestComputeKneeAngles_MalformedFrame(t *testing.T) {
	for _, n := range []int{0, 20, 32, 34} {
		_, err := ComputeKneeAngles(LandmarkFrame{Points: make([]Point3D, n)})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMalformedFrame)

		var malformed *MalformedFrameError
		require.True(t, errors.As(err, &malformed))
		assert.Equal(t, n, malformed.Got)
	}
}

func TestComputeKneeAngles_WorldSpaceRejected(t *testing.T) {
	frame := frameWithLegs(
		[3]Point3D{{X: 0.4, Y: 0.5}, {X: 0.4, Y: 0.7}, {X: 0.5, Y: 0.7}},
		[3]Point3D{{X: 0.6, Y: 0.5}, {X: 0.6, Y: 0.7}, {X: 0.7, Y: 0.7}},
	)
	frame.WorldSpace = true

	_, err := ComputeKneeAngles(frame)
	assert.ErrorIs(t, err, ErrWorldSpaceFrame)
}

func TestComputeKneeAngles_DegenerateSideIsNamed(t *testing.T) {
	knee := Point3D{X: 0.6, Y: 0.7}
	frame := frameWithLegs(
		[3]Point3D{{X: 0.4, Y: 0.5}, {X: 0.4, Y: 0.7}, {X: 0.5, Y: 0.7}},
		[3]Point3D{{X: 0.6, Y: 0.5}, knee, knee},
	)

	_, err := ComputeKneeAngles(frame)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDegenerateInput)
	assert.Contains(t, err.Error(), "right knee")
}

func TestParseConvention(t *testing.T) {
	c, err := ParseConvention("interior")
	require.NoError(t, err)
	assert.Equal(t, ConventionInterior, c)

	c, err = ParseConvention("")
	require.NoError(t, err)
	assert.Equal(t, ConventionSegment, c)
	assert.Equal(t, "segment", c.String())

	_, err = ParseConvention("world")
	assert.Error(t, err)
}
