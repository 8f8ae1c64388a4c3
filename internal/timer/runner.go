package timer

import (
	"context"
	"time"
)

// Run starts t if needed and drives it from ticks until the running phase
// ends, ctx is cancelled, or ticks is closed. onTick is called after every
// observation that did not end the phase and may be nil.
//
// The caller owns the tick source and must stop it once Run returns; Run
// never leaves a goroutine behind.
func Run(ctx context.Context, t *Timer, ticks <-chan time.Time, onTick func(State)) (Transition, error) {
	epoch := t.Start()
	for {
		select {
		case <-ctx.Done():
			if tr, done := t.Pause(); done {
				return tr, nil
			}
			return Transition{}, ctx.Err()
		case _, ok := <-ticks:
			if !ok {
				if tr, done := t.Pause(); done {
					return tr, nil
				}
				return Transition{}, context.Canceled
			}
			tr, done := t.TickEpoch(epoch)
			if done {
				return tr, nil
			}
			if !t.Running() || t.Epoch() != epoch {
				// paused or reset from outside the loop
				return Transition{}, context.Canceled
			}
			if onTick != nil {
				onTick(t.State())
			}
		}
	}
}

// RunWithTicker is Run driven by a time.Ticker at ProbeInterval
func RunWithTicker(ctx context.Context, t *Timer, onTick func(State)) (Transition, error) {
	ticker := time.NewTicker(ProbeInterval)
	defer ticker.Stop()
	return Run(ctx, t, ticker.C, onTick)
}
