package scheduler

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// minDelay is the shortest delay scheduled as a future one-time job; anything
// shorter runs immediately so it never lands in the past
const minDelay = 10 * time.Millisecond

// Stop cancels a scheduled job. Calling it more than once is harmless.
type Stop func()

// Scheduler runs callbacks on timers. Callbacks run on scheduler goroutines,
// so callers must hand work back to their own event loop.
type Scheduler interface {
	// Every runs fn once per interval until stopped
	Every(interval time.Duration, fn func()) (Stop, error)

	// After runs fn once after delay
	After(delay time.Duration, fn func()) (Stop, error)

	// Shutdown stops all jobs
	Shutdown() error
}

// GocronScheduler implements Scheduler on top of gocron
type GocronScheduler struct {
	sched  gocron.Scheduler
	logger *slog.Logger
}

// New creates and starts a gocron-backed scheduler
func New(logger *slog.Logger) (*GocronScheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	s.Start()

	return &GocronScheduler{
		sched:  s,
		logger: logger,
	}, nil
}

// Ensure GocronScheduler implements Scheduler
var _ Scheduler = (*GocronScheduler)(nil)

// Every registers a duration job; a run that overlaps the previous one is skipped
func (g *GocronScheduler) Every(interval time.Duration, fn func()) (Stop, error) {
	job, err := g.sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(fn),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, fmt.Errorf("schedule every %s: %w", interval, err)
	}
	return g.stopper(job), nil
}

// After registers a one-time job
func (g *GocronScheduler) After(delay time.Duration, fn func()) (Stop, error) {
	start := gocron.OneTimeJobStartImmediately()
	if delay >= minDelay {
		start = gocron.OneTimeJobStartDateTime(time.Now().Add(delay))
	}

	job, err := g.sched.NewJob(gocron.OneTimeJob(start), gocron.NewTask(fn))
	if err != nil {
		return nil, fmt.Errorf("schedule after %s: %w", delay, err)
	}
	return g.stopper(job), nil
}

// Shutdown stops the scheduler and waits for running jobs to finish
func (g *GocronScheduler) Shutdown() error {
	return g.sched.Shutdown()
}

func (g *GocronScheduler) stopper(job gocron.Job) Stop {
	id := job.ID()
	return func() {
		if err := g.sched.RemoveJob(id); err != nil {
			// One-time jobs remove themselves once they have run
			g.logger.Debug("job already removed",
				slog.String("job_id", id.String()),
				slog.String("error", err.Error()),
			)
		}
	}
}
