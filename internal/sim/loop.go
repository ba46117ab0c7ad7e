package sim

import "time"

// Loop turns wall-clock frames into simulation steps. The first Frame only
// records the start time.
type Loop struct {
	sim   *Simulator
	clock Clock
	last  time.Time
}

func NewLoop(s *Simulator, clock Clock) *Loop {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Loop{sim: s, clock: clock}
}

// Frame measures the time since the previous frame and advances the
// simulator by it.
func (l *Loop) Frame() (int, error) {
	now := l.clock.Now()
	if l.last.IsZero() {
		l.last = now
		return 0, nil
	}
	elapsed := now.Sub(l.last)
	l.last = now
	return l.sim.Advance(elapsed)
}

// Reset restarts frame timing from now, dropping any time since the last
// frame. Used when resuming from a pause.
func (l *Loop) Reset() { l.last = l.clock.Now() }

func (l *Loop) Simulator() *Simulator { return l.sim }
