package session

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/danmuck/qsort_viz/src/trace"
	logs "github.com/danmuck/smplog"
)

const (
	MinSpeed     = 50 * time.Millisecond
	MaxSpeed     = 2 * time.Second
	DefaultSpeed = 500 * time.Millisecond
)

var ErrPlayerRunning = errors.New("player already running")

// StepFunc receives each snapshot the player advances to.
type StepFunc func(index int, snap trace.Snapshot)

// Player auto-advances a session's cursor on a timer. The trace is never
// touched; stopping playback is cancelling the context passed to Run.
type Player struct {
	session  *SortSession
	interval atomic.Int64 // nanoseconds
	running  atomic.Bool
}

func NewPlayer(s *SortSession, interval time.Duration) *Player {
	p := &Player{session: s}
	p.SetSpeed(interval)
	return p
}

// SetSpeed sets the delay between steps, clamped to [MinSpeed, MaxSpeed].
// A running player picks it up on its next tick. It returns the applied delay.
func (p *Player) SetSpeed(d time.Duration) time.Duration {
	d = ClampSpeed(d)
	p.interval.Store(int64(d))
	return d
}

func (p *Player) Speed() time.Duration {
	return time.Duration(p.interval.Load())
}

func (p *Player) Running() bool {
	return p.running.Load()
}

// Run advances the cursor one step per tick, calling onStep after each move,
// until the last snapshot is shown or ctx is done. Playback that starts on the
// last snapshot rewinds to the first one.
func (p *Player) Run(ctx context.Context, onStep StepFunc) error {
	if !p.running.CompareAndSwap(false, true) {
		return ErrPlayerRunning
	}
	defer p.running.Store(false)

	if p.session.AtEnd() {
		p.session.First()
	}
	logs.Debugf("Player.Run(%s): from step %d at %s", p.session.ID(), p.session.Cursor(), p.Speed())

	timer := time.NewTimer(p.Speed())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			logs.Debugf("Player.Run(%s): stopped at step %d", p.session.ID(), p.session.Cursor())
			return ctx.Err()
		case <-timer.C:
			index, snap, ok := p.session.step()
			if !ok {
				return nil
			}
			if onStep != nil {
				onStep(index, snap)
			}
			if index >= p.session.Len()-1 {
				return nil
			}
			timer.Reset(p.Speed())
		}
	}
}

func ClampSpeed(d time.Duration) time.Duration {
	switch {
	case d <= 0:
		return DefaultSpeed
	case d < MinSpeed:
		return MinSpeed
	case d > MaxSpeed:
		return MaxSpeed
	}
	return d
}
