package reminder

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Runner is a single reminder scan.
type Runner interface {
	Run(ctx context.Context) (Result, error)
}

// Scheduler runs a scan once a day at a fixed local wall-clock time.
type Scheduler struct {
	mu     sync.Mutex
	runner Runner
	hour   int
	minute int
	loc    *time.Location
	now    func() time.Time
	after  func(time.Duration) <-chan time.Time
	logger *slog.Logger
	cancel context.CancelFunc
	done   chan struct{}
}

func NewScheduler(runner Runner, hour, minute int, loc *time.Location, logger *slog.Logger) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		runner: runner,
		hour:   hour,
		minute: minute,
		loc:    loc,
		now:    time.Now,
		after:  time.After,
		logger: logger,
	}
}

// NextRun returns the first hour:minute in loc strictly after now.
func NextRun(now time.Time, hour, minute int, loc *time.Location) time.Time {
	local := now.In(loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, loc)
	if !next.After(local) {
		next = time.Date(local.Year(), local.Month(), local.Day()+1, hour, minute, 0, 0, loc)
	}
	return next
}

// Start begins the scheduler loop. Calling Start on a running scheduler does
// nothing; after Stop it may be started again.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.done != nil {
		s.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.cancel, s.done = cancel, done
	s.mu.Unlock()

	go func() {
		defer close(done)
		for {
			next := NextRun(s.now(), s.hour, s.minute, s.loc)
			s.logger.Info("next reminder scan scheduled", "at", next.Format(time.RFC3339))

			select {
			case <-ctx.Done():
				return
			case <-s.after(next.Sub(s.now())):
				s.tick(ctx)
			}
		}
	}()
}

// Stop gracefully stops the scheduler, waiting for a running scan to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	if _, err := s.runner.Run(ctx); err != nil {
		s.logger.Error("scheduled reminder scan failed", "error", err)
	}
}
