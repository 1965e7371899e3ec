package repcounter

import (
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/lowaak/smart-trainer/lunge-counter/internal/events"
	"github.com/lowaak/smart-trainer/lunge-counter/internal/pose"
)

// Config holds everything a Session needs beyond its logger.
type Config struct {
	Thresholds Thresholds
	Selection  Selection
	Convention pose.Convention
}

func DefaultConfig() Config {
	return Config{
		Thresholds: DefaultThresholds(),
		Selection:  SelectMin,
		Convention: pose.ConventionSegment,
	}
}

// Session is the per-frame entry point: landmark frame in, progress and
// feedback out. Frames must be delivered one at a time; listeners may live on
// other goroutines.
type Session struct {
	id        uuid.UUID
	startedAt time.Time
	config    Config
	estimator pose.Estimator
	machine   *Machine
	logger    *log.Logger

	frames  int
	dropped int

	progressEvent     *events.CallbackEvent[float64]
	progressChanEvent *events.ChannelEvent[float64]
	feedbackEvent     *events.CallbackEvent[string]
	repCompletedEvent *events.CallbackEvent[int]
	stepEvent         *events.ChannelEvent[Step]
}

// NewSession starts a session in the Standing phase with no reps.
func NewSession(config Config, logger *log.Logger) *Session {
	if logger == nil {
		panic("Session: logger cannot be nil")
	}
	s := &Session{
		id:                uuid.New(),
		startedAt:         time.Now(),
		config:            config,
		estimator:         pose.Estimator{Convention: config.Convention},
		machine:           NewMachine(config.Thresholds),
		logger:            logger,
		progressEvent:     events.NewCallbackEvent[float64](false),
		progressChanEvent: events.NewChannelEvent[float64](false),
		feedbackEvent:     events.NewCallbackEvent[string](false),
		repCompletedEvent: events.NewCallbackEvent[int](false),
		stepEvent:         events.NewChannelEvent[Step](true),
	}
	s.logger.Printf("Session: %s started (selection=%s, convention=%s, band=[%g, %g])",
		s.id, config.Selection, config.Convention, config.Thresholds.MinKneeAngle, config.Thresholds.MaxKneeAngle)
	return s
}

func (s *Session) ID() uuid.UUID {
	return s.id
}

// ListenToProgress registers a callback for the progress value of every processed frame.
func (s *Session) ListenToProgress(callback func(float64)) func() {
	return s.progressEvent.Listen(callback)
}

// ListenToProgressChan is the channel form of ListenToProgress. Sends are
// non-blocking, so a full channel misses values.
func (s *Session) ListenToProgressChan(ch chan<- float64) func() {
	return s.progressChanEvent.Listen(ch)
}

// ListenToFeedback registers a callback for the feedback message sent on
// entering the lunge and on completing a rep.
func (s *Session) ListenToFeedback(callback func(string)) func() {
	return s.feedbackEvent.Listen(callback)
}

// ListenToRepCompleted registers a callback receiving the new rep count.
func (s *Session) ListenToRepCompleted(callback func(int)) func() {
	return s.repCompletedEvent.Listen(callback)
}

// ListenToSteps registers a channel receiving every processed Step. Sends are
// non-blocking; a new listener receives the latest step immediately.
func (s *Session) ListenToSteps(ch chan<- Step) func() {
	return s.stepEvent.Listen(ch)
}

// ProcessFrame runs one landmark frame through the estimator and state
// machine. On error the frame is dropped: nothing is emitted and the rep
// state is unchanged.
func (s *Session) ProcessFrame(frame pose.LandmarkFrame) (Step, error) {
	s.frames++
	angles, err := s.estimator.ComputeKneeAngles(frame)
	if err != nil {
		return s.drop(err)
	}
	return s.process(s.config.Selection.Select(angles))
}

// ProcessAngle feeds an already selected knee angle, for hosts that measure
// the angle themselves.
func (s *Session) ProcessAngle(angle float64) (Step, error) {
	s.frames++
	return s.process(angle)
}

func (s *Session) process(angle float64) (Step, error) {
	step, err := s.machine.Update(angle)
	if err != nil {
		return s.drop(err)
	}

	// event first, then progress
	switch step.Event {
	case EventMilestone:
		s.logger.Printf("Session: lunge position reached at %.1f°", angle)
		s.feedbackEvent.Notify(step.Event.Message())
	case EventRepCompleted:
		s.logger.Printf("Session: rep %d completed at %.1f°", step.Reps, angle)
		s.feedbackEvent.Notify(step.Event.Message())
		s.repCompletedEvent.Notify(step.Reps)
	}
	s.progressEvent.Notify(step.Progress)
	s.progressChanEvent.Notify(step.Progress)
	s.stepEvent.Notify(step)
	return step, nil
}

func (s *Session) drop(err error) (Step, error) {
	s.dropped++
	s.logger.Printf("Session: dropped frame %d: %v", s.frames, err)
	return Step{}, err
}

// State returns a snapshot of the rep state.
func (s *Session) State() RepState {
	return s.machine.State()
}

// Reps returns the cumulative rep count of the session.
func (s *Session) Reps() int {
	return s.machine.State().Reps
}

// Reset starts a new session: new id, Standing, no reps, counters cleared.
// Listeners stay registered.
func (s *Session) Reset() {
	s.id = uuid.New()
	s.startedAt = time.Now()
	s.frames = 0
	s.dropped = 0
	s.machine.Reset()
	s.logger.Printf("Session: reset, new session %s", s.id)
}
