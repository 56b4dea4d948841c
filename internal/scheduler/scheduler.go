// Package scheduler runs recurring jobs, such as the price refresh, on cron
// schedules until its context is canceled.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/guarzo/gamematch/internal/apperr"
)

// Job is one unit of scheduled work.
type Job func(ctx context.Context) error

type entry struct {
	name     string
	spec     string
	schedule cron.Schedule
	job      Job
}

// Scheduler collects jobs and runs them with robfig/cron. A job still
// running when its next tick arrives is skipped for that tick.
type Scheduler struct {
	log zerolog.Logger

	mu      sync.Mutex
	entries []entry
	runs    map[string]int
}

// New creates an empty scheduler.
func New(log zerolog.Logger) *Scheduler {
	return &Scheduler{
		log:  log.With().Str("component", "scheduler").Logger(),
		runs: make(map[string]int),
	}
}

// Add registers job under a standard five-field cron spec or a descriptor
// such as "@daily" or "@every 6h".
func (s *Scheduler) Add(name, spec string, job Job) error {
	sched, err := cron.ParseStandard(spec)
	if err != nil {
		return apperr.Wrap(apperr.Validation, "scheduler.add", fmt.Errorf("job %s: spec %q: %w", name, spec, err))
	}
	s.AddSchedule(name, spec, sched, job)
	return nil
}

// AddSchedule registers job with an already parsed schedule.
func (s *Scheduler) AddSchedule(name, spec string, sched cron.Schedule, job Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry{name: name, spec: spec, schedule: sched, job: job})
}

// RunNow runs the named job once, synchronously.
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	s.mu.Lock()
	var job Job
	for _, e := range s.entries {
		if e.name == name {
			job = e.job
			break
		}
	}
	s.mu.Unlock()

	if job == nil {
		return apperr.Newf(apperr.NotFound, "scheduler.run_now", "no job named %q", name)
	}
	return s.execute(ctx, name, job)
}

// Runs reports how many times the named job has executed.
func (s *Scheduler) Runs(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runs[name]
}

// Run starts every registered job and blocks until ctx is canceled, then
// waits for running jobs to return.
func (s *Scheduler) Run(ctx context.Context) error {
	logger := cronLogger{log: s.log}
	c := cron.New(
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)

	s.mu.Lock()
	for _, e := range s.entries {
		name, job := e.name, e.job
		c.Schedule(e.schedule, cron.FuncJob(func() {
			if err := s.execute(ctx, name, job); err != nil && ctx.Err() == nil {
				s.log.Error().Err(err).Str("job", name).Msg("scheduled job failed")
			}
		}))
		s.log.Info().Str("job", e.name).Str("spec", e.spec).Time("next", e.schedule.Next(time.Now())).Msg("job scheduled")
	}
	s.mu.Unlock()

	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	s.log.Info().Msg("scheduler stopped")
	return nil
}

func (s *Scheduler) execute(ctx context.Context, name string, job Job) error {
	start := time.Now()
	err := job(ctx)

	s.mu.Lock()
	s.runs[name]++
	s.mu.Unlock()

	s.log.Debug().Str("job", name).Dur("took", time.Since(start)).Bool("ok", err == nil).Msg("job finished")
	return err
}

// cronLogger forwards cron's key/value logging to zerolog.
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
