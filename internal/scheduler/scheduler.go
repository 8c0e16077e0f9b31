package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/robfig/cron/v3"

	"StockPulse/internal/report"
)

// Runner is a report run, as implemented by job.Job.
type Runner interface {
	Run(ctx context.Context) (string, error)
}

// Scheduler runs the report job on a cron schedule.
type Scheduler struct {
	Cron   *cron.Cron
	Runner Runner
	Ctx    context.Context

	// job is reportTask wrapped so cron ticks and RunNow never overlap.
	job cron.Job

	mu   sync.Mutex
	runs int
}

// NewScheduler creates a new Scheduler. Cron specs include a seconds field.
func NewScheduler(ctx context.Context, r Runner) *Scheduler {
	s := &Scheduler{
		Cron:   cron.New(cron.WithSeconds()),
		Runner: r,
		Ctx:    ctx,
	}
	s.job = cron.NewChain(
		cron.Recover(cron.DefaultLogger),
		cron.SkipIfStillRunning(cron.DefaultLogger),
	).Then(cron.FuncJob(s.reportTask))
	return s
}

// Register adds the report task.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddJob(spec, s.job); err != nil {
		return fmt.Errorf("register report task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for a running report to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunNow executes the report task immediately (for RUN_ON_START / manual trigger).
// It is skipped when a scheduled run is still in progress.
func (s *Scheduler) RunNow() {
	s.job.Run()
}

// Runs returns how many report tasks have completed.
func (s *Scheduler) Runs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runs
}

func (s *Scheduler) reportTask() {
	log.Println("[INFO] running report task")
	defer func() {
		s.mu.Lock()
		s.runs++
		s.mu.Unlock()
	}()

	path, err := s.Runner.Run(s.Ctx)
	switch {
	case errors.Is(err, report.ErrNoData):
		log.Printf("[WARN] report task: %v, no report written", err)
	case err != nil:
		log.Printf("[ERROR] report task: %v", err)
	default:
		log.Printf("[INFO] report task done: %s", path)
	}
}
