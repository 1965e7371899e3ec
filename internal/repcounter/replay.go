package repcounter

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/lowaak/smart-trainer/lunge-counter/internal/pose"
)

// ReplayOptions controls Replay.
type ReplayOptions struct {
	// Realtime sleeps between frames according to their recorded timestamps.
	Realtime bool
}

// Replay feeds every frame of a recording into the session, serially, until
// the recording ends or ctx is cancelled. Frames the session rejects are
// dropped and replay continues; only read errors stop it.
func Replay(ctx context.Context, reader *pose.RecordingReader, session *Session, opts ReplayOptions) error {
	var (
		prevTimestamp int64
		started       bool
	)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		frame, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		if opts.Realtime && started {
			if gap := time.Duration(frame.TimestampMs-prevTimestamp) * time.Millisecond; gap > 0 {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(gap):
				}
			}
		}
		prevTimestamp, started = frame.TimestampMs, true

		// rejected frames are logged and counted by the session
		_, _ = session.ProcessFrame(frame.LandmarkFrame())
	}
}
