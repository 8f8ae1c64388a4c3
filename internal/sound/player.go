package sound

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/term"
)

// ErrUnavailable is returned when no audio output is attached
var ErrUnavailable = errors.New("no terminal attached for sound output")

// Player renders a cue
type Player interface {
	Play(ctx context.Context, s Sound) error
}

// TerminalPlayer rings the terminal bell following a cue's pattern
type TerminalPlayer struct {
	mu  sync.Mutex
	out io.Writer
	fd  int
	// isTerminal is swapped in tests
	isTerminal func(fd int) bool
	sleep      func(ctx context.Context, d time.Duration) error
}

// NewTerminalPlayer writes bells to stderr when it is a terminal
func NewTerminalPlayer() *TerminalPlayer {
	return &TerminalPlayer{
		out:        os.Stderr,
		fd:         int(os.Stderr.Fd()),
		isTerminal: term.IsTerminal,
		sleep:      sleepCtx,
	}
}

// Play emits one BEL plus one per pattern gap. It returns ErrUnavailable
// when the output is not a terminal.
func (p *TerminalPlayer) Play(ctx context.Context, s Sound) error {
	if !p.isTerminal(p.fd) {
		return ErrUnavailable
	}
	// overlapping cues would blur into one
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, err := io.WriteString(p.out, "\a"); err != nil {
		return err
	}
	for _, gap := range s.Pattern {
		if err := p.sleep(ctx, time.Duration(gap)*time.Millisecond); err != nil {
			return err
		}
		if _, err := io.WriteString(p.out, "\a"); err != nil {
			return err
		}
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
