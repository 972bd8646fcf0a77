package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler triggers one cycle immediately at startup and thereafter on a
// cron expression in local time. Cycles are serialized: a trigger firing
// while the previous cycle is still running is skipped.
type Scheduler struct {
	cron *cron.Cron
	job  func(context.Context)
	spec string
}

// New creates a scheduler for the given cron expression. An invalid
// expression is returned as an error, no future cycle could be planned.
func New(spec string, job func(context.Context)) (*Scheduler, error) {
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", spec, err)
	}

	c := cron.New(cron.WithLocation(time.Local), cron.WithChain(
		cron.SkipIfStillRunning(cron.VerbosePrintfLogger(log.Default())),
	))

	return &Scheduler{cron: c, job: job, spec: spec}, nil
}

// Run executes the initial cycle, starts the cron loop and blocks until the
// context is canceled. On cancellation no new cycles are started and an
// in-flight cycle is allowed to finish.
func (s *Scheduler) Run(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.spec, func() { s.job(ctx) }); err != nil {
		return fmt.Errorf("schedule %q: %w", s.spec, err)
	}

	log.Printf("[INFO] running initial cycle")
	s.job(ctx)

	log.Printf("[INFO] scheduler started, spec %q", s.spec)
	s.cron.Start()

	<-ctx.Done()
	log.Printf("[INFO] stopping scheduler")
	stopped := s.cron.Stop()
	<-stopped.Done() // wait for an in-flight cycle
	log.Printf("[INFO] scheduler stopped")
	return nil
}
