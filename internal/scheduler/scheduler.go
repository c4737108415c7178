package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Job is one scheduled unit of work.
type Job func(ctx context.Context) error

// Scheduler runs the recomputation job on a cron spec.
type Scheduler struct {
	Cron *cron.Cron
	Ctx  context.Context
	Log  zerolog.Logger

	mu      sync.Mutex
	running bool
}

// NewScheduler creates a Scheduler whose specs carry a leading seconds field.
// A run still in progress when the next tick fires is skipped.
func NewScheduler(ctx context.Context, log zerolog.Logger) *Scheduler {
	cl := cronLogger{log: log}
	return &Scheduler{
		Cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		Ctx: ctx,
		Log: log,
	}
}

// Register adds job under spec.
func (s *Scheduler) Register(name, spec string, job Job) error {
	if _, err := s.Cron.AddFunc(spec, func() { s.run(name, job) }); err != nil {
		return fmt.Errorf("register %s task: %w", name, err)
	}
	s.Log.Info().Str("task", name).Str("cron", spec).Msg("task registered")
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Log.Info().Msg("scheduler started")
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.Log.Info().Msg("scheduler stopped")
}

// RunNow executes job immediately, outside the cron schedule.
// It reports false when another job is still running.
func (s *Scheduler) RunNow(name string, job Job) bool {
	return s.run(name, job)
}

func (s *Scheduler) run(name string, job Job) bool {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.Log.Warn().Str("task", name).Msg("previous run still in progress, skipping")
		return false
	}
	s.running = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	s.Log.Info().Str("task", name).Msg("running task")
	if err := job(s.Ctx); err != nil {
		s.Log.Error().Err(err).Str("task", name).Msg("task failed")
	}
	return true
}

// cronLogger routes cron's own messages to zerolog.
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg("cron: " + msg)
}
