package sound

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/marcus/pomo/internal/models"
)

// playTimeout bounds a single cue, the longest pattern is under 2s
const playTimeout = 5 * time.Second

// Notifier plays the configured cue when a phase ends. Playback happens on
// its own goroutine and failures are logged, never returned.
type Notifier struct {
	mu         sync.RWMutex
	player     Player
	workSound  string
	breakSound string
	logger     *slog.Logger
	wg         sync.WaitGroup
}

// NewNotifier creates a notifier with the default cues
func NewNotifier(player Player, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		player:     player,
		workSound:  Default(models.PhaseWork).ID,
		breakSound: Default(models.PhaseBreak).ID,
		logger:     logger,
	}
}

// SetSounds selects the cues for work and break completion. Unknown IDs
// fall back to the defaults.
func (n *Notifier) SetSounds(work, brk string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.workSound = Resolve(models.PhaseWork, work).ID
	n.breakSound = Resolve(models.PhaseBreak, brk).ID
}

// Sounds returns the selected cue IDs
func (n *Notifier) Sounds() (work, brk string) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.workSound, n.breakSound
}

// PhaseComplete plays the cue for the phase that just ended
func (n *Notifier) PhaseComplete(ended models.Phase) {
	work, brk := n.Sounds()
	if ended == models.PhaseBreak {
		n.PlayBreakComplete(brk)
		return
	}
	n.PlayWorkComplete(work)
}

// PlayWorkComplete plays a work-end cue by ID
func (n *Notifier) PlayWorkComplete(id string) {
	n.play(Resolve(models.PhaseWork, id))
}

// PlayBreakComplete plays a break-end cue by ID
func (n *Notifier) PlayBreakComplete(id string) {
	n.play(Resolve(models.PhaseBreak, id))
}

func (n *Notifier) play(s Sound) {
	if n.player == nil {
		return
	}
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				n.logger.Error("sound playback panicked", "sound", s.ID, "panic", r)
			}
		}()
		ctx, cancel := context.WithTimeout(context.Background(), playTimeout)
		defer cancel()
		if err := n.player.Play(ctx, s); err != nil {
			if errors.Is(err, ErrUnavailable) {
				n.logger.Debug("sound unavailable", "sound", s.ID)
				return
			}
			n.logger.Warn("sound playback failed", "sound", s.ID, "err", err)
		}
	}()
}

// Wait blocks until in-flight playback has finished
func (n *Notifier) Wait() {
	n.wg.Wait()
}
