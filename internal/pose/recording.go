package pose

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// RecordedLandmark is one landmark as written by the pose pipeline. Other
// per-landmark fields such as visibility or presence are ignored; the angle
// needs positions only.
type RecordedLandmark struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// RecordedFrame is one line of a landmark recording.
type RecordedFrame struct {
	Frame       int                `json:"frame"`
	TimestampMs int64              `json:"timestamp_ms"`
	World       bool               `json:"world,omitempty"`
	Landmarks   []RecordedLandmark `json:"landmarks"`
}

// LandmarkFrame converts the recorded points. The landmark count is not checked
// here; that is left to the consumer.
func (r RecordedFrame) LandmarkFrame() LandmarkFrame {
	points := make([]Point3D, len(r.Landmarks))
	for i, l := range r.Landmarks {
		points[i] = Point3D{X: l.X, Y: l.Y, Z: l.Z}
	}
	return LandmarkFrame{Points: points, WorldSpace: r.World}
}

const maxRecordingLine = 1 << 20

// RecordingReader reads a JSON Lines landmark recording, one frame per line.
type RecordingReader struct {
	scanner *bufio.Scanner
	line    int
}

func NewRecordingReader(r io.Reader) *RecordingReader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxRecordingLine)
	return &RecordingReader{scanner: scanner}
}

// Next returns the next frame, or io.EOF once the recording is exhausted.
// Blank lines are skipped.
func (r *RecordingReader) Next() (RecordedFrame, error) {
	for r.scanner.Scan() {
		r.line++
		text := strings.TrimSpace(r.scanner.Text())
		if text == "" {
			continue
		}
		var frame RecordedFrame
		if err := json.Unmarshal([]byte(text), &frame); err != nil {
			return RecordedFrame{}, fmt.Errorf("recording line %d: %w", r.line, err)
		}
		return frame, nil
	}
	if err := r.scanner.Err(); err != nil {
		return RecordedFrame{}, fmt.Errorf("recording line %d: %w", r.line+1, err)
	}
	return RecordedFrame{}, io.EOF
}

// WriteRecordedFrame appends one frame as a JSON line.
func WriteRecordedFrame(w io.Writer, frame RecordedFrame) error {
	raw, err := json.Marshal(frame)
	if err != nil {
		return err
	}
	raw = append(raw, '\n')
	_, err = w.Write(raw)
	return err
}
