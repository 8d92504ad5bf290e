package reminder

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
)

const DefaultInterval = 30 * time.Minute

// Scheduler calls a function once at start and then on every interval.
type Scheduler struct {
	Clock    clockwork.Clock
	Interval time.Duration
	Logger   *slog.Logger
}

func NewScheduler(clock clockwork.Clock, interval time.Duration) *Scheduler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{Clock: clock, Interval: interval, Logger: slog.Default()}
}

// Run blocks until ctx is done, calling fire with the current time
// immediately and after each interval. It returns ctx.Err().
func (s *Scheduler) Run(ctx context.Context, fire func(now time.Time)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fire(s.Clock.Now())

	ticker := s.Clock.NewTicker(s.Interval)
	defer ticker.Stop()
	s.Logger.Debug("reminder scheduler started", "interval", s.Interval)

	for {
		select {
		case <-ctx.Done():
			s.Logger.Debug("reminder scheduler stopped")
			return ctx.Err()
		case <-ticker.Chan():
			fire(s.Clock.Now())
		}
	}
}
