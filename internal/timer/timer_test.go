package timer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/marcus/pomo/internal/models"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordingNotifier struct {
	ended []models.Phase
}

func (n *recordingNotifier) PhaseComplete(p models.Phase) { n.ended = append(n.ended, p) }

func newTestTimer(work, brk int) (*Timer, *fakeClock, *recordingNotifier) {
	clock := &fakeClock{now: time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC)}
	n := &recordingNotifier{}
	tm := New(Options{WorkMinutes: work, BreakMinutes: brk, Clock: clock, Notifier: n})
	return tm, clock, n
}

func TestNewTimerStartsInWorkIdle(t *testing.T) {
	tm, _, _ := newTestTimer(25, 5)
	s := tm.State()
	if s.Phase != models.PhaseWork || s.Running || s.HasBeenStarted {
		t.Errorf("state = %+v, want Work-Idle", s)
	}
	if s.RemainingSeconds != 1500 {
		t.Errorf("remaining = %d, want 1500", s.RemainingSeconds)
	}
}

func TestNewTimerClampsDurations(t *testing.T) {
	tm, _, _ := newTestTimer(90, -3)
	if tm.State().WorkMinutes != 60 || tm.State().BreakMinutes != 1 {
		t.Errorf("durations = %d/%d, want 60/1", tm.State().WorkMinutes, tm.State().BreakMinutes)
	}
}

func TestTickComputesFromAnchorRegardlessOfSkippedTicks(t *testing.T) {
	for _, k := range []int{1, 7, 59, 600, 1499} {
		tm, clock, _ := newTestTimer(25, 5)
		tm.Start()
		// no intermediate ticks at all, as with a suspended tab
		clock.Advance(time.Duration(k) * time.Second)
		tm.Tick()
		if got := tm.Remaining(); got != 1500-k {
			t.Errorf("after %ds: remaining = %d, want %d", k, got, 1500-k)
		}
	}
}

func TestTickFloorsPartialSeconds(t *testing.T) {
	tm, clock, _ := newTestTimer(1, 1)
	tm.Start()
	clock.Advance(2900 * time.Millisecond)
	tm.Tick()
	if tm.Remaining() != 58 {
		t.Errorf("remaining = %d, want 58", tm.Remaining())
	}
}

func TestWorkPhaseCompletes(t *testing.T) {
	tm, clock, n := newTestTimer(25, 5)
	tm.Start()
	clock.Advance(1500 * time.Second)

	tr, done := tm.Tick()
	if !done {
		t.Fatal("phase did not complete")
	}
	if tr.From != models.PhaseWork || tr.To != models.PhaseBreak || tr.Skipped {
		t.Errorf("transition = %+v", tr)
	}
	s := tm.State()
	if s.Phase != models.PhaseBreak || s.Running || s.HasBeenStarted {
		t.Errorf("state = %+v, want Break-Idle", s)
	}
	if s.SessionsCompleted != 1 {
		t.Errorf("sessions = %d, want 1", s.SessionsCompleted)
	}
	if s.RemainingSeconds != 300 {
		t.Errorf("remaining = %d, want 300", s.RemainingSeconds)
	}
	if len(n.ended) != 1 || n.ended[0] != models.PhaseWork {
		t.Errorf("notifications = %v, want [work]", n.ended)
	}

	// further ticks do nothing once idle
	clock.Advance(time.Hour)
	if _, done := tm.Tick(); done {
		t.Error("idle timer completed a phase")
	}
	if len(n.ended) != 1 {
		t.Errorf("notified %d times, want 1", len(n.ended))
	}
}

func TestBreakPhaseCompletesWithoutCountingSession(t *testing.T) {
	tm, clock, n := newTestTimer(1, 1)
	tm.Skip()
	tm.Start()
	clock.Advance(61 * time.Second)
	tm.Tick()
	if tm.Phase() != models.PhaseWork {
		t.Errorf("phase = %s, want work", tm.Phase())
	}
	if tm.Sessions() != 1 {
		t.Errorf("sessions = %d, want 1 (from the skip only)", tm.Sessions())
	}
	if len(n.ended) != 1 || n.ended[0] != models.PhaseBreak {
		t.Errorf("notifications = %v, want [break]", n.ended)
	}
}

func TestStartWhileRunningKeepsAnchor(t *testing.T) {
	tm, clock, _ := newTestTimer(25, 5)
	e1 := tm.Start()
	clock.Advance(10 * time.Second)
	e2 := tm.Start()
	if e1 != e2 {
		t.Error("repeated Start changed the epoch")
	}
	tm.Tick()
	if tm.Remaining() != 1490 {
		t.Errorf("remaining = %d, want 1490", tm.Remaining())
	}
}

func TestPauseKeepsProgressAndIsIdempotent(t *testing.T) {
	tm, clock, _ := newTestTimer(25, 5)
	tm.Start()
	clock.Advance(100 * time.Second)
	tm.Pause()
	first := tm.State()
	clock.Advance(50 * time.Second)
	tm.Pause()
	if tm.State() != first {
		t.Errorf("second pause changed state: %+v vs %+v", tm.State(), first)
	}
	if first.RemainingSeconds != 1400 || first.Running {
		t.Errorf("after pause = %+v, want 1400 remaining, stopped", first)
	}

	// resuming counts from the new baseline
	tm.Start()
	clock.Advance(30 * time.Second)
	tm.Tick()
	if tm.Remaining() != 1370 {
		t.Errorf("remaining after resume = %d, want 1370", tm.Remaining())
	}
}

func TestPauseAfterExpiryEndsPhase(t *testing.T) {
	tm, clock, n := newTestTimer(1, 5)
	tm.Start()
	clock.Advance(90 * time.Second) // no tick observed while suspended

	tr, done := tm.Pause()
	if !done {
		t.Fatal("Pause after expiry did not end the phase")
	}
	if tr.From != models.PhaseWork || tr.To != models.PhaseBreak || tr.Skipped {
		t.Errorf("transition = %+v", tr)
	}
	s := tm.State()
	if s.Phase != models.PhaseBreak || s.Running || s.SessionsCompleted != 1 || s.RemainingSeconds != 300 {
		t.Errorf("state = %+v, want Break-Idle with one session", s)
	}
	if len(n.ended) != 1 || n.ended[0] != models.PhaseWork {
		t.Errorf("notified %v, want [work]", n.ended)
	}

	if _, done := tm.Pause(); done {
		t.Error("pausing a stopped timer reported a transition")
	}
}

func TestResetIsIdempotent(t *testing.T) {
	tm, clock, _ := newTestTimer(25, 5)
	tm.Start()
	clock.Advance(42 * time.Second)
	tm.Tick()
	tm.Reset()
	if tm.Remaining() != 1500 || tm.Running() || tm.HasBeenStarted() {
		t.Errorf("after reset = %+v", tm.State())
	}
	tm.Reset()
	if tm.Remaining() != 1500 {
		t.Errorf("second reset remaining = %d, want 1500", tm.Remaining())
	}
}

func TestResetStaysInCurrentPhase(t *testing.T) {
	tm, _, _ := newTestTimer(25, 5)
	tm.Skip()
	tm.Start()
	tm.Reset()
	if tm.Phase() != models.PhaseBreak || tm.Remaining() != 300 {
		t.Errorf("state = %+v, want Break-Idle with 300s", tm.State())
	}
}

func TestSkip(t *testing.T) {
	tm, clock, n := newTestTimer(25, 5)
	tm.Start()
	clock.Advance(5 * time.Second)

	tr := tm.Skip()
	if !tr.Skipped || tr.From != models.PhaseWork {
		t.Errorf("transition = %+v", tr)
	}
	if tm.Sessions() != 1 || tm.Phase() != models.PhaseBreak || tm.Running() {
		t.Errorf("after skip from work = %+v", tm.State())
	}

	tm.Skip()
	if tm.Sessions() != 1 || tm.Phase() != models.PhaseWork {
		t.Errorf("after skip from break = %+v", tm.State())
	}
	if len(n.ended) != 0 {
		t.Errorf("skip should not notify, got %v", n.ended)
	}
}

func TestStaleEpochTickIsIgnored(t *testing.T) {
	tm, clock, _ := newTestTimer(25, 5)
	epoch := tm.Start()
	clock.Advance(20 * time.Second)
	tm.Reset()

	if _, done := tm.TickEpoch(epoch); done {
		t.Error("stale tick completed a phase")
	}
	if tm.Remaining() != 1500 {
		t.Errorf("stale tick applied elapsed time: remaining = %d", tm.Remaining())
	}

	// a tick scheduled before pause/resume is also stale
	e1 := tm.Start()
	tm.Pause()
	tm.Start()
	clock.Advance(1500 * time.Second)
	if _, done := tm.TickEpoch(e1); done {
		t.Error("tick from a previous run completed the phase")
	}
	if _, done := tm.TickEpoch(tm.Epoch()); !done {
		t.Error("current tick should complete the phase")
	}
}

func TestEditWorkDurationWhileUntouchedAppliesImmediately(t *testing.T) {
	tm, _, _ := newTestTimer(25, 5)
	tm.SetWorkMinutes(5)
	if tm.Remaining() != 300 {
		t.Errorf("remaining = %d, want 300", tm.Remaining())
	}
	// break duration does not touch the work countdown
	tm.SetBreakMinutes(10)
	if tm.Remaining() != 300 {
		t.Errorf("remaining = %d after break edit, want 300", tm.Remaining())
	}
}

func TestEditWorkDurationWhileRunningIsDeferred(t *testing.T) {
	tm, clock, _ := newTestTimer(25, 5)
	tm.Start()
	clock.Advance(10 * time.Second)
	tm.Tick()
	tm.SetWorkMinutes(5)
	if tm.Remaining() != 1490 {
		t.Errorf("remaining = %d, want unchanged 1490", tm.Remaining())
	}
	clock.Advance(time.Second)
	tm.Tick()
	if tm.Remaining() != 1489 {
		t.Errorf("countdown corrupted by edit: remaining = %d", tm.Remaining())
	}

	// paused but started still defers
	tm.Pause()
	tm.SetWorkMinutes(7)
	if tm.Remaining() != 1489 {
		t.Errorf("remaining = %d, want 1489 while paused", tm.Remaining())
	}

	tm.Reset()
	if tm.Remaining() != 420 {
		t.Errorf("remaining after reset = %d, want 420", tm.Remaining())
	}
}

func TestDeferredDurationAppliesOnTransition(t *testing.T) {
	tm, clock, _ := newTestTimer(25, 5)
	tm.Start()
	tm.SetBreakMinutes(3)
	clock.Advance(1500 * time.Second)
	tm.Tick()
	if tm.Remaining() != 180 {
		t.Errorf("break remaining = %d, want 180", tm.Remaining())
	}
}

func TestNotifierPanicDoesNotBreakTransition(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	tm := New(Options{WorkMinutes: 1, BreakMinutes: 1, Clock: clock, Notifier: NotifierFunc(func(models.Phase) {
		panic("audio device gone")
	})})
	tm.Start()
	clock.Advance(time.Minute)
	if _, done := tm.Tick(); !done {
		t.Fatal("phase did not complete")
	}
	if tm.Phase() != models.PhaseBreak || tm.Sessions() != 1 {
		t.Errorf("state = %+v", tm.State())
	}
}

func TestRunCompletesPhase(t *testing.T) {
	tm, clock, n := newTestTimer(1, 1)
	ticks := make(chan time.Time)
	done := make(chan struct{})

	var observed int
	var tr Transition
	var err error
	go func() {
		defer close(done)
		tr, err = Run(context.Background(), tm, ticks, func(State) { observed++ })
	}()

	for i := 0; i < 3; i++ {
		clock.Advance(10 * time.Second)
		ticks <- clock.Now()
	}
	clock.Advance(time.Minute)
	ticks <- clock.Now()
	<-done

	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if tr.From != models.PhaseWork {
		t.Errorf("transition = %+v", tr)
	}
	if observed != 3 {
		t.Errorf("onTick called %d times, want 3", observed)
	}
	if len(n.ended) != 1 {
		t.Errorf("notifications = %v", n.ended)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	tm, _, _ := newTestTimer(25, 5)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, tm, make(chan time.Time), nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if tm.Running() {
		t.Error("timer still running after cancel")
	}
}

func TestNewTimerCanStartInBreak(t *testing.T) {
	tm := New(Options{WorkMinutes: 25, BreakMinutes: 5, StartPhase: models.PhaseBreak})
	if tm.Phase() != models.PhaseBreak || tm.Remaining() != 300 || tm.Sessions() != 0 {
		t.Errorf("state = %+v, want Break-Idle with 300s and no sessions", tm.State())
	}
}
