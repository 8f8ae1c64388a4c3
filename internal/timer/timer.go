// Package timer implements the Pomodoro session state machine: a countdown
// alternating work and break phases whose remaining time is derived from a
// wall-clock anchor rather than from counting ticks, so suspended or
// throttled tick sources do not cause drift.
package timer

import (
	"log/slog"
	"time"

	"github.com/marcus/pomo/internal/models"
)

// ProbeInterval is how often a driver should call Tick while running
const ProbeInterval = 100 * time.Millisecond

// Clock supplies wall-clock time
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the real wall clock
var SystemClock Clock = systemClock{}

// Notifier receives exactly one call per naturally completed phase. It must
// not block; the transition has already been committed when it is called.
type Notifier interface {
	PhaseComplete(ended models.Phase)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(ended models.Phase)

// PhaseComplete calls f
func (f NotifierFunc) PhaseComplete(ended models.Phase) { f(ended) }

// Options configures a new Timer
type Options struct {
	WorkMinutes  int
	BreakMinutes int
	// StartPhase is the idle phase the timer begins in, work when empty
	StartPhase models.Phase
	Clock        Clock
	Notifier     Notifier
	Logger       *slog.Logger
}

// State is a read-only snapshot of the timer
type State struct {
	Phase             models.Phase `json:"phase"`
	WorkMinutes       int          `json:"work_minutes"`
	BreakMinutes      int          `json:"break_minutes"`
	RemainingSeconds  int          `json:"remaining_seconds"`
	Running           bool         `json:"running"`
	SessionsCompleted int          `json:"sessions_completed"`
	HasBeenStarted    bool         `json:"has_been_started"`
}

// Transition describes a phase change
type Transition struct {
	From    models.Phase
	To      models.Phase
	Skipped bool
	// StartedAt is when the ended phase was first started, zero if never
	StartedAt time.Time
	EndedAt   time.Time
}

// Timer is the work/break countdown. It is not safe for concurrent use;
// drive it from a single goroutine (the dashboard's update loop or Run).
type Timer struct {
	phase          models.Phase
	workMinutes    int
	breakMinutes   int
	remaining      int
	running        bool
	hasBeenStarted bool
	sessions       int

	// anchor and baseline are valid while running: remaining is
	// baseline minus whole seconds elapsed since anchor
	anchor   time.Time
	baseline int

	// phaseStarted is when the current phase was first started
	phaseStarted time.Time

	// epoch changes on every start/pause/reset/skip/transition so ticks
	// scheduled before a manual intervention can be recognized as stale
	epoch uint64

	clock    Clock
	notifier Notifier
	logger   *slog.Logger
}

// New creates an idle timer with a full countdown, in Work unless
// opts.StartPhase says otherwise
func New(opts Options) *Timer {
	if opts.Clock == nil {
		opts.Clock = SystemClock
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.WorkMinutes == 0 {
		opts.WorkMinutes = models.DefaultWorkMinutes
	}
	if opts.BreakMinutes == 0 {
		opts.BreakMinutes = models.DefaultBreakMinutes
	}
	if opts.StartPhase != models.PhaseBreak {
		opts.StartPhase = models.PhaseWork
	}
	t := &Timer{
		phase:        opts.StartPhase,
		workMinutes:  models.ClampWorkMinutes(opts.WorkMinutes),
		breakMinutes: models.ClampBreakMinutes(opts.BreakMinutes),
		clock:        opts.Clock,
		notifier:     opts.Notifier,
		logger:       opts.Logger,
	}
	t.remaining = t.phaseSeconds(t.phase)
	return t
}

// SetNotifier replaces the phase-complete notifier
func (t *Timer) SetNotifier(n Notifier) {
	t.notifier = n
}

func (t *Timer) phaseSeconds(p models.Phase) int {
	if p == models.PhaseBreak {
		return t.breakMinutes * 60
	}
	return t.workMinutes * 60
}

// State returns a snapshot of the timer
func (t *Timer) State() State {
	return State{
		Phase:             t.phase,
		WorkMinutes:       t.workMinutes,
		BreakMinutes:      t.breakMinutes,
		RemainingSeconds:  t.remaining,
		Running:           t.running,
		SessionsCompleted: t.sessions,
		HasBeenStarted:    t.hasBeenStarted,
	}
}

// Phase returns the current phase
func (t *Timer) Phase() models.Phase { return t.phase }

// Running reports whether the countdown is active
func (t *Timer) Running() bool { return t.running }

// Remaining returns the remaining seconds as of the last observation
func (t *Timer) Remaining() int { return t.remaining }

// Sessions returns the number of completed work sessions
func (t *Timer) Sessions() int { return t.sessions }

// HasBeenStarted reports whether the current phase has been started since
// the last reset or transition
func (t *Timer) HasBeenStarted() bool { return t.hasBeenStarted }

// Epoch returns the current generation. Drivers tag each scheduled tick
// with it and deliver the tick through TickEpoch.
func (t *Timer) Epoch() uint64 { return t.epoch }

// PhaseDuration returns the configured length of the current phase
func (t *Timer) PhaseDuration() time.Duration {
	return time.Duration(t.phaseSeconds(t.phase)) * time.Second
}

// Start begins or resumes the countdown. Calling Start while running does
// nothing, so repeated presses never reset the anchor.
func (t *Timer) Start() uint64 {
	if t.running {
		return t.epoch
	}
	now := t.clock.Now()
	if !t.hasBeenStarted {
		t.phaseStarted = now
	}
	t.running = true
	t.hasBeenStarted = true
	t.anchor = now
	t.baseline = t.remaining
	t.epoch++
	t.logger.Debug("timer started", "phase", t.phase, "remaining", t.remaining)
	return t.epoch
}

// Pause stops the countdown and keeps the progress made so far. If the
// phase ran out while no tick was observed, it ends here instead, exactly
// as Tick would have ended it.
func (t *Timer) Pause() (Transition, bool) {
	if !t.running {
		return Transition{}, false
	}
	t.remaining = t.observe()
	if t.remaining == 0 {
		tr := t.transition(false)
		t.notify(tr.From)
		return tr, true
	}
	t.running = false
	t.baseline = t.remaining
	t.anchor = time.Time{}
	t.epoch++
	t.logger.Debug("timer paused", "phase", t.phase, "remaining", t.remaining)
	return Transition{}, false
}

// Toggle starts a stopped timer or pauses a running one
func (t *Timer) Toggle() {
	if t.running {
		t.Pause()
		return
	}
	t.Start()
}

// Reset stops the countdown and restores the current phase's full duration,
// applying any duration change made while the phase was in progress
func (t *Timer) Reset() {
	t.running = false
	t.hasBeenStarted = false
	t.anchor = time.Time{}
	t.baseline = 0
	t.phaseStarted = time.Time{}
	t.remaining = t.phaseSeconds(t.phase)
	t.epoch++
}

// Skip ends the current phase immediately without a notification.
// Skipping out of work still counts as a completed session.
func (t *Timer) Skip() Transition {
	return t.transition(true)
}

// TickEpoch applies a tick scheduled at epoch. Ticks from an older epoch
// are ignored so a tick already in flight when the user paused, reset or
// skipped cannot apply stale elapsed time.
func (t *Timer) TickEpoch(epoch uint64) (Transition, bool) {
	if epoch != t.epoch {
		return Transition{}, false
	}
	return t.Tick()
}

// Tick recomputes the remaining time from the anchor. When it reaches zero
// the phase ends, the notifier is called, and the transition is returned.
func (t *Timer) Tick() (Transition, bool) {
	if !t.running {
		return Transition{}, false
	}
	t.remaining = t.observe()
	if t.remaining > 0 {
		return Transition{}, false
	}
	tr := t.transition(false)
	t.notify(tr.From)
	return tr, true
}

// observe computes remaining seconds from the anchor
func (t *Timer) observe() int {
	elapsed := int(t.clock.Now().Sub(t.anchor) / time.Second)
	if elapsed < 0 {
		elapsed = 0
	}
	rem := t.baseline - elapsed
	if rem < 0 {
		rem = 0
	}
	return rem
}

func (t *Timer) transition(skipped bool) Transition {
	tr := Transition{
		From:      t.phase,
		To:        t.phase.Other(),
		Skipped:   skipped,
		StartedAt: t.phaseStarted,
		EndedAt:   t.clock.Now(),
	}
	if t.phase == models.PhaseWork {
		t.sessions++
	}
	t.phase = tr.To
	t.running = false
	t.hasBeenStarted = false
	t.anchor = time.Time{}
	t.baseline = 0
	t.phaseStarted = time.Time{}
	t.remaining = t.phaseSeconds(t.phase)
	t.epoch++
	t.logger.Info("phase ended", "from", tr.From, "to", tr.To, "skipped", skipped, "sessions", t.sessions)
	return tr
}

func (t *Timer) notify(ended models.Phase) {
	if t.notifier == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			t.logger.Error("phase notifier panicked", "phase", ended, "panic", r)
		}
	}()
	t.notifier.PhaseComplete(ended)
}

// SetWorkMinutes changes the work duration (clamped to [1,60]). The
// countdown only picks it up immediately when the timer is in an untouched
// work phase; otherwise it applies at the next reset or transition.
func (t *Timer) SetWorkMinutes(n int) int {
	t.workMinutes = models.ClampWorkMinutes(n)
	t.applyIfUntouched(models.PhaseWork)
	return t.workMinutes
}

// SetBreakMinutes changes the break duration (clamped to [1,30])
func (t *Timer) SetBreakMinutes(n int) int {
	t.breakMinutes = models.ClampBreakMinutes(n)
	t.applyIfUntouched(models.PhaseBreak)
	return t.breakMinutes
}

func (t *Timer) applyIfUntouched(p models.Phase) {
	if t.phase == p && !t.running && !t.hasBeenStarted {
		t.remaining = t.phaseSeconds(p)
	}
}
