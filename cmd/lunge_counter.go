package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/rivo/tview"
	"github.com/spf13/pflag"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/lowaak/smart-trainer/lunge-counter/internal/config"
	"github.com/lowaak/smart-trainer/lunge-counter/internal/dashboard"
	"github.com/lowaak/smart-trainer/lunge-counter/internal/go_func_utils"
	"github.com/lowaak/smart-trainer/lunge-counter/internal/pose"
	"github.com/lowaak/smart-trainer/lunge-counter/internal/repcounter"
)

func main() {
	flags := config.NewFlagSet("lunge-counter")
	cfg, err := config.Load(flags, os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "lunge-counter: %v\n", err)
		os.Exit(2)
	}

	logFile := &lumberjack.Logger{
		Filename:   cfg.Log.File,
		MaxSize:    cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAgeDays,
	}
	defer logFile.Close()

	// the dashboard owns the terminal, so logs only go to the file there
	var logOut io.Writer = logFile
	if !cfg.UI {
		logOut = io.MultiWriter(logFile, os.Stderr)
	}
	logger := log.New(logOut, "", log.LstdFlags|log.Lmicroseconds)

	if err := run(cfg, logger); err != nil {
		logger.Printf("lunge-counter: %v", err)
		logFile.Close()
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *log.Logger) error {
	sessionConfig, err := cfg.SessionConfig()
	if err != nil {
		return fmt.Errorf("build session config: %w", err)
	}

	input, err := openInput(cfg.Input)
	if err != nil {
		return err
	}
	defer input.Close()

	session := repcounter.NewSession(sessionConfig, logger)
	reader := pose.NewRecordingReader(input)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.UI {
		err = runDashboard(ctx, cfg, session, reader, logger)
	} else {
		err = runConsole(ctx, cfg, session, reader, logger)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	summary := session.Summary()
	logger.Printf("Session %s: %d reps, %d frames, %d dropped", summary.SessionID, summary.Reps, summary.Frames, summary.Dropped)
	if cfg.SummaryPath != "" {
		return session.WriteSummary(cfg.SummaryPath)
	}
	return nil
}

func openInput(path string) (io.ReadCloser, error) {
	switch path {
	case "":
		return nil, errors.New("no input recording given (use --input, or - for stdin)")
	case "-":
		return io.NopCloser(os.Stdin), nil
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open recording: %w", err)
		}
		return f, nil
	}
}

// runConsole reports feedback through the logger and keeps a single
// progress line on stdout.
func runConsole(ctx context.Context, cfg *config.Config, session *repcounter.Session, reader *pose.RecordingReader, logger *log.Logger) error {
	session.ListenToFeedback(func(msg string) {
		fmt.Println()
		logger.Printf("Feedback: %s", msg)
	})
	session.ListenToRepCompleted(func(reps int) {
		logger.Printf("Reps: %d", reps)
	})
	session.ListenToProgress(func(p float64) {
		fmt.Printf("\rprogress %3.0f%%  reps %d", p*100, session.Reps())
	})

	err := repcounter.Replay(ctx, reader, session, repcounter.ReplayOptions{Realtime: cfg.Realtime})
	fmt.Println()
	return err
}

// runDashboard replays on a background goroutine while the dashboard owns
// the main goroutine, and stops the replay when the user quits.
func runDashboard(ctx context.Context, cfg *config.Config, session *repcounter.Session, reader *pose.RecordingReader, logger *log.Logger) error {
	app := tview.NewApplication()
	d := dashboard.New(session, app, logger)
	defer d.Shutdown()

	replayCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	replayErr := make(chan error, 1)
	go_func_utils.SafeGo(logger, "replay", func() {
		replayErr <- replayTo(replayCtx, d, reader, session, repcounter.ReplayOptions{Realtime: cfg.Realtime})
	})

	go_func_utils.SafeGo(logger, "signal watcher", func() {
		select {
		case <-ctx.Done():
			d.Stop()
		case <-d.Done():
		}
	})

	if err := d.Run(); err != nil {
		return fmt.Errorf("dashboard: %w", err)
	}
	cancel()
	return <-replayErr
}

// replayOutcome shows how a recording ended.
type replayOutcome interface {
	Finish(summary repcounter.Summary)
	Fail(err error)
}

// replayTo replays the recording and reports the outcome: the summary when the
// recording is exhausted, the error when a line cannot be read. Cancellation is
// not reported since the user already quit.
func replayTo(ctx context.Context, out replayOutcome, reader *pose.RecordingReader, session *repcounter.Session, opts repcounter.ReplayOptions) error {
	err := repcounter.Replay(ctx, reader, session, opts)
	switch {
	case err == nil:
		out.Finish(session.Summary())
	case !errors.Is(err, context.Canceled):
		out.Fail(err)
	}
	return err
}
