package render

import (
	"context"
	"time"
)

// runs fn on the next display refresh
type Scheduler interface {
	RequestFrame(fn func())
}

// StepScheduler holds the pending frame callback until Step is called. It is
// used for offline rendering where the caller owns the refresh cadence.
type StepScheduler struct {
	pending func()
}

func NewStepScheduler() *StepScheduler {
	return &StepScheduler{}
}

func (s *StepScheduler) RequestFrame(fn func()) {
	s.pending = fn
}

// reports whether a callback is waiting
func (s *StepScheduler) Pending() bool {
	return s.pending != nil
}

// runs the pending callback, if any. Callbacks requested while it runs are
// kept for the next step.
func (s *StepScheduler) Step() bool {
	fn := s.pending
	if fn == nil {
		return false
	}
	s.pending = nil
	fn()
	return true
}

// TickerScheduler paces a StepScheduler at a fixed refresh interval. All
// callbacks run on the goroutine calling Run.
type TickerScheduler struct {
	StepScheduler
	interval time.Duration
}

func NewTickerScheduler(fps float64) *TickerScheduler {
	if fps <= 0 {
		fps = 60
	}
	return &TickerScheduler{
		interval: time.Duration(float64(time.Second) / fps),
	}
}

func (s *TickerScheduler) Interval() time.Duration {
	return s.interval
}

// calls tick once per refresh until ctx is done or tick returns an error
func (s *TickerScheduler) Run(ctx context.Context, tick func() error) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := tick(); err != nil {
				return err
			}
		}
	}
}
