package repcounter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Summary is the end-of-session report written by the CLI.
type Summary struct {
	SessionID  string     `json:"session_id"`
	StartedAt  time.Time  `json:"started_at"`
	Frames     int        `json:"frames"`
	Dropped    int        `json:"dropped_frames"`
	Reps       int        `json:"reps"`
	Selection  string     `json:"selection"`
	Convention string     `json:"convention"`
	Thresholds Thresholds `json:"thresholds"`
}

func (s *Session) Summary() Summary {
	return Summary{
		SessionID:  s.id.String(),
		StartedAt:  s.startedAt,
		Frames:     s.frames,
		Dropped:    s.dropped,
		Reps:       s.machine.State().Reps,
		Selection:  s.config.Selection.String(),
		Convention: s.config.Convention.String(),
		Thresholds: s.config.Thresholds,
	}
}

// WriteSummary writes the session summary as indented JSON, creating parent
// directories as needed.
func (s *Session) WriteSummary(path string) error {
	summary := s.Summary()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create summary directory: %w", err)
	}
	raw, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	if err := os.WriteFile(path, raw, 0644); err != nil {
		return fmt.Errorf("write summary %s: %w", path, err)
	}
	s.logger.Printf("Session: summary written to %s (%d reps, %d/%d frames dropped)",
		path, summary.Reps, summary.Dropped, summary.Frames)
	return nil
}
