// Package stopwatch times a single in-match action with a fixed display
// tick.
package stopwatch

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const Tick = 100 * time.Millisecond

// Stopwatch accumulates elapsed time across start/stop cycles.
type Stopwatch struct {
	mu      sync.Mutex
	now     func() time.Time
	elapsed time.Duration
	started time.Time
	running bool
}

func New() *Stopwatch { return &Stopwatch{now: time.Now} }

// newWithClock is used by tests.
func newWithClock(now func() time.Time) *Stopwatch { return &Stopwatch{now: now} }

// Toggle starts a stopped watch or stops a running one. It returns true when
// the watch is running afterwards.
func (s *Stopwatch) Toggle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		s.elapsed += s.now().Sub(s.started)
		s.running = false
	} else {
		s.started = s.now()
		s.running = true
	}
	return s.running
}

func (s *Stopwatch) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Elapsed is the total time, including the current run.
func (s *Stopwatch) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return s.elapsed + s.now().Sub(s.started)
	}
	return s.elapsed
}

// Lap reads the elapsed time without stopping the watch.
func (s *Stopwatch) Lap() time.Duration { return s.Elapsed() }

func (s *Stopwatch) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.elapsed = 0
	s.running = false
}

// Ticks sends the elapsed time every Tick until ctx is done.
func (s *Stopwatch) Ticks(ctx context.Context) <-chan time.Duration {
	out := make(chan time.Duration)
	go func() {
		defer close(out)
		ticker := time.NewTicker(Tick)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				select {
				case out <- s.Elapsed():
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

// Format renders d as MM:SS.t (tenths).
func Format(d time.Duration) string {
	ms := d.Milliseconds()
	if ms < 0 {
		ms = 0
	}
	totalSeconds := ms / 1000
	return fmt.Sprintf("%02d:%02d.%d", totalSeconds/60, totalSeconds%60, (ms%1000)/100)
}

// Seconds renders d as seconds with two decimals, the form stored in the
// time-to-score field.
func Seconds(d time.Duration) string {
	return fmt.Sprintf("%.2f", d.Seconds())
}
