package pose

// Body landmark indices, MediaPipe pose convention.
const (
	Nose = iota
	LeftEyeInner
	LeftEye
	LeftEyeOuter
	RightEyeInner
	RightEye
	RightEyeOuter
	LeftEar
	RightEar
	MouthLeft
	MouthRight
	LeftShoulder
	RightShoulder
	LeftElbow
	RightElbow
	LeftWrist
	RightWrist
	LeftPinky
	RightPinky
	LeftIndex
	RightIndex
	LeftThumb
	RightThumb
	LeftHip
	RightHip
	LeftKnee
	RightKnee
	LeftAnkle
	RightAnkle
	LeftHeel
	RightHeel
	LeftFootIndex
	RightFootIndex
	NumLandmarks
)

// Point3D is a landmark position in normalized image-space units.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// LandmarkFrame is one frame of pose output: NumLandmarks points in index order.
// WorldSpace marks metric world coordinates, which the angle thresholds are not
// calibrated for.
type LandmarkFrame struct {
	Points     []Point3D
	WorldSpace bool
}

// Validate reports whether the frame can be indexed by landmark constants.
func (f LandmarkFrame) Validate() error {
	if f.WorldSpace {
		return ErrWorldSpaceFrame
	}
	if len(f.Points) != NumLandmarks {
		return &MalformedFrameError{Got: len(f.Points)}
	}
	return nil
}

// Side selects one leg.
type Side int

const (
	Left Side = iota
	Right
)

func (s Side) String() string {
	if s == Left {
		return "left"
	}
	return "right"
}

// legJoints maps a side to its hip, knee and ankle indices.
var legJoints = map[Side][3]int{
	Left:  {LeftHip, LeftKnee, LeftAnkle},
	Right: {RightHip, RightKnee, RightAnkle},
}

// Leg returns the hip, knee and ankle of one side. The frame must already be valid.
func (f LandmarkFrame) Leg(side Side) []Point3D {
	idx := legJoints[side]
	return []Point3D{f.Points[idx[0]], f.Points[idx[1]], f.Points[idx[2]]}
}
