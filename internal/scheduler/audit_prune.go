// Package scheduler runs timer-driven maintenance jobs.
package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Standard five-field expressions plus descriptors such as @daily.
var scheduleParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// AuditCleanupEnqueuer hands the actual deletion to the task queue.
type AuditCleanupEnqueuer interface {
	EnqueueAuditCleanup(retentionDays int) (string, error)
}

// ValidateSchedule reports whether schedule is a usable cron expression.
func ValidateSchedule(schedule string) error {
	_, err := scheduleParser.Parse(schedule)
	return err
}

// AuditPruneScheduler periodically queues the removal of expired audit events.
type AuditPruneScheduler struct {
	schedule      string
	retentionDays int
	queue         AuditCleanupEnqueuer
	log           zerolog.Logger

	cron      *cron.Cron
	entryID   cron.EntryID
	mu        sync.RWMutex
	isRunning bool
}

// NewAuditPruneScheduler creates a scheduler. An empty schedule disables it.
func NewAuditPruneScheduler(schedule string, retentionDays int, queue AuditCleanupEnqueuer, log zerolog.Logger) *AuditPruneScheduler {
	return &AuditPruneScheduler{
		schedule:      schedule,
		retentionDays: retentionDays,
		queue:         queue,
		log:           log,
		cron:          cron.New(cron.WithParser(scheduleParser)),
	}
}

// Start registers the job and starts the cron loop.
func (s *AuditPruneScheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if s.schedule == "" {
		s.log.Info().Msg("audit prune scheduler disabled")
		return nil
	}

	if err := ValidateSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.schedule, s.runPrune)
	if err != nil {
		return fmt.Errorf("failed to schedule audit prune job: %w", err)
	}
	s.entryID = entryID

	s.cron.Start()
	s.isRunning = true

	s.log.Info().
		Str("schedule", s.schedule).
		Int("retention_days", s.retentionDays).
		Time("next_run", s.cron.Entry(entryID).Next).
		Msg("audit prune scheduler started")
	return nil
}

// Stop waits for a running job to finish and stops the scheduler.
func (s *AuditPruneScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	// Stop accepting new jobs and wait for running jobs to complete
	ctx := s.cron.Stop()
	<-ctx.Done()

	s.cron.Remove(s.entryID)
	s.isRunning = false

	s.log.Info().Msg("audit prune scheduler stopped")
}

// RunNow queues a prune immediately.
func (s *AuditPruneScheduler) RunNow() error {
	_, err := s.queue.EnqueueAuditCleanup(s.retentionDays)
	return err
}

// IsRunning returns whether the scheduler is active
func (s *AuditPruneScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns when the next prune is queued, or nil when stopped.
func (s *AuditPruneScheduler) NextRun() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	next := s.cron.Entry(s.entryID).Next
	if next.IsZero() {
		return nil
	}
	return &next
}

func (s *AuditPruneScheduler) runPrune() {
	id, err := s.queue.EnqueueAuditCleanup(s.retentionDays)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to queue audit prune")
		return
	}
	s.log.Debug().Str("task_id", id).Msg("queued audit prune")
}
