package dashboard

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/lowaak/smart-trainer/lunge-counter/internal/go_func_utils"
	"github.com/lowaak/smart-trainer/lunge-counter/internal/repcounter"
)

const (
	progressBarWidth = 40
	maxFeedbackLines = 200
)

// Dashboard is a terminal feedback sink for one Session.
//
// Widgets are only touched from the tview event loop. The listener goroutine
// hands every change to the loop and gives up waiting once the dashboard
// stops, since a stopped application never runs queued updates.
type Dashboard struct {
	logger  *log.Logger
	app     *tview.Application
	session *repcounter.Session

	statusView   *tview.TextView
	progressView *tview.TextView
	feedbackView *tview.TextView
	mainFlex     *tview.Flex

	stepChan     chan repcounter.Step
	feedbackChan chan string
	unregister   []func()

	// owned by the listener goroutine
	feedback []string
	// owned by the event loop
	finished bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New builds the widgets and subscribes to the session. Call Run to show it.
func New(session *repcounter.Session, app *tview.Application, logger *log.Logger) *Dashboard {
	if session == nil {
		panic("Dashboard: session cannot be nil")
	}
	if app == nil {
		panic("Dashboard: app cannot be nil")
	}
	if logger == nil {
		panic("Dashboard: logger cannot be nil")
	}
	ctx, cancel := context.WithCancel(context.Background())
	d := &Dashboard{
		logger:       logger,
		app:          app,
		session:      session,
		stepChan:     make(chan repcounter.Step, 1),
		feedbackChan: make(chan string, 16),
		ctx:          ctx,
		cancel:       cancel,
	}
	d.initWidgets()
	d.setupKeyboardHandlers()
	d.subscribe()
	return d
}

func (d *Dashboard) initWidgets() {
	instructions := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter).
		SetText("[yellow]Q[white]/[yellow]Esc[white] Quit")

	d.statusView = tview.NewTextView().SetDynamicColors(true)
	d.statusView.SetBorder(true).SetTitle(" Lunges ")

	d.progressView = tview.NewTextView().SetDynamicColors(true)
	d.progressView.SetBorder(true).SetTitle(" Progress ")

	d.feedbackView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)
	d.feedbackView.SetBorder(true).SetTitle(" Feedback ")

	left := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(d.statusView, 0, 2, false).
		AddItem(d.progressView, 5, 0, false).
		AddItem(instructions, 1, 0, false)

	d.mainFlex = tview.NewFlex().
		AddItem(left, 0, 1, false).
		AddItem(d.feedbackView, 0, 1, false)

	d.statusView.SetText(formatStatus(repcounter.Step{}))
	d.progressView.SetText(formatProgress(0))
}

func (d *Dashboard) setupKeyboardHandlers() {
	d.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEscape || (event.Key() == tcell.KeyRune && (event.Rune() == 'q' || event.Rune() == 'Q')) {
			d.logger.Printf("Dashboard: quit requested")
			d.Stop()
			return nil
		}
		return event
	})
}

// subscribe registers with the session right away so that nothing emitted
// between New and Run is lost.
func (d *Dashboard) subscribe() {
	d.unregister = append(d.unregister, d.session.ListenToSteps(d.stepChan))
	// runs on the frame goroutine, where reading the rep count is safe
	d.unregister = append(d.unregister, d.session.ListenToFeedback(func(msg string) {
		select {
		case d.feedbackChan <- formatFeedback(msg, d.session.Reps()):
		default:
			d.logger.Printf("Dashboard: feedback backlog full, dropped %q", msg)
		}
	}))
}

func (d *Dashboard) startListener() {
	d.wg.Add(1)
	go_func_utils.SafeGo(d.logger, "dashboard listener", func() {
		defer d.wg.Done()
		for {
			select {
			case <-d.ctx.Done():
				return
			case step := <-d.stepChan:
				d.draw(func() {
					// the final status replaces the live one once the recording ends
					if !d.finished {
						d.statusView.SetText(formatStatus(step))
					}
					d.progressView.SetText(formatProgress(step.Progress))
				})
			case line := <-d.feedbackChan:
				text := d.appendFeedback(line)
				d.draw(func() {
					d.feedbackView.SetText(text)
					d.feedbackView.ScrollToEnd()
				})
			}
		}
	})
}

// draw runs update on the event loop and redraws. It returns without waiting
// once the dashboard is stopping.
func (d *Dashboard) draw(update func()) {
	if d.ctx.Err() != nil {
		return
	}
	done := make(chan struct{})
	go_func_utils.SafeGo(d.logger, "dashboard draw", func() {
		d.app.QueueUpdateDraw(update)
		close(done)
	})
	select {
	case <-done:
	case <-d.ctx.Done():
	}
}

func (d *Dashboard) appendFeedback(line string) string {
	d.feedback = append(d.feedback, line)
	if len(d.feedback) > maxFeedbackLines {
		d.feedback = d.feedback[len(d.feedback)-maxFeedbackLines:]
	}
	return strings.Join(d.feedback, "\n")
}

// Finish marks the recording as exhausted and shows the session summary.
func (d *Dashboard) Finish(summary repcounter.Summary) {
	d.draw(func() {
		d.finished = true
		d.statusView.SetText(formatSummary(summary))
	})
}

// Fail shows the error that stopped the recording in place of the live status.
func (d *Dashboard) Fail(err error) {
	d.logger.Printf("Dashboard: recording failed: %v", err)
	d.draw(func() {
		d.finished = true
		d.statusView.SetText(formatFailure(err))
	})
}

// Run shows the dashboard and blocks until the user quits or Stop is called.
func (d *Dashboard) Run() error {
	defer d.cancel()
	d.startListener()
	return d.app.SetRoot(d.mainFlex, true).Run()
}

// Stop releases pending redraws and ends Run.
func (d *Dashboard) Stop() {
	d.cancel()
	d.app.Stop()
}

// Done is closed once the dashboard has quit or been shut down.
func (d *Dashboard) Done() <-chan struct{} {
	return d.ctx.Done()
}

// Shutdown stops the listener goroutine, waits for it and unsubscribes from
// the session.
func (d *Dashboard) Shutdown() {
	d.logger.Println("Dashboard: Shutting down")
	d.cancel()
	d.wg.Wait()
	for _, unregister := range d.unregister {
		unregister()
	}
	d.logger.Println("Dashboard: Shutdown complete")
}

func formatStatus(step repcounter.Step) string {
	var text string
	text = "\n"
	text += fmt.Sprintf("  [gray]Reps:[white]  [green]%d[white]\n\n", step.Reps)
	if step.Phase == repcounter.Lunging {
		text += "  [gray]Phase:[white] [yellow]lunging[white]\n"
	} else {
		text += "  [gray]Phase:[white] standing\n"
	}
	text += fmt.Sprintf("  [gray]Knee:[white]  %.1f°\n", step.Angle)
	return text
}

// progressBar renders p in [0, 1] as a fixed-width bar.
func progressBar(p float64, width int) string {
	if p < 0 {
		p = 0
	} else if p > 1 {
		p = 1
	}
	filled := int(p*float64(width) + 0.5)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func formatProgress(p float64) string {
	return fmt.Sprintf("\n  [green]%s[white] %3.0f%%", progressBar(p, progressBarWidth), p*100)
}

func formatFeedback(msg string, reps int) string {
	return fmt.Sprintf("[yellow]#%d[white] %s", reps, msg)
}

func formatSummary(s repcounter.Summary) string {
	var text string
	text = "\n"
	text += fmt.Sprintf("  [gray]Reps:[white]    [green]%d[white]\n\n", s.Reps)
	text += fmt.Sprintf("  [gray]Frames:[white]  %d\n", s.Frames)
	text += fmt.Sprintf("  [gray]Dropped:[white] %d\n", s.Dropped)
	text += fmt.Sprintf("  [gray]Knee:[white]    %s (%s)\n\n", s.Selection, s.Convention)
	text += "  [gray]Recording finished, press[white] [yellow]Q[white] [gray]to quit[white]\n"
	return text
}

func formatFailure(err error) string {
	var text string
	text = "\n"
	text += "  [red]Recording stopped[white]\n\n"
	text += fmt.Sprintf("  %s\n\n", tview.Escape(err.Error()))
	text += "  [gray]Press[white] [yellow]Q[white] [gray]to quit[white]\n"
	return text
}
