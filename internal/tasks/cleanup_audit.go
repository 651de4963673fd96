package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/rs/zerolog"
)

const (
	defaultRetentionDays = 30
	defaultBatchSize     = 500
)

// AuditEventCleaner deletes audit events in bounded batches.
type AuditEventCleaner interface {
	DeleteEventsBefore(ctx context.Context, cutoff time.Time, limit int) (int64, error)
}

// CleanupLimits bound the work one cleanup run does against the main store,
// which has a single connection shared with the API.
type CleanupLimits struct {
	BatchSize  int // Events per DELETE statement (default: 500)
	MaxDeletes int // Events per run; the rest waits for the next run. Zero means no limit
}

func (l CleanupLimits) withDefaults() CleanupLimits {
	if l.BatchSize <= 0 {
		l.BatchSize = defaultBatchSize
	}
	if l.MaxDeletes < 0 {
		l.MaxDeletes = 0
	}
	return l
}

// CleanupAuditEventsTask removes audit events older than the configured retention period.
type CleanupAuditEventsTask struct {
	RetentionDays int `json:"retention_days"`
}

// Config returns the queue configuration for audit cleanup tasks.
func (t CleanupAuditEventsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "cleanup_audit_events",
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// CleanupAuditEventsProcessor deletes expired events batch by batch. The
// cutoff is fixed when the run starts, and every committed batch stays deleted
// when a later one fails or the task times out, so a retry only picks up the
// remainder.
func CleanupAuditEventsProcessor(cleaner AuditEventCleaner, limits CleanupLimits, log zerolog.Logger) backlite.QueueProcessor[CleanupAuditEventsTask] {
	limits = limits.withDefaults()

	return func(ctx context.Context, task CleanupAuditEventsTask) error {
		if cleaner == nil {
			return errors.New("audit event cleaner not configured")
		}

		retentionDays := task.RetentionDays
		if retentionDays <= 0 {
			retentionDays = defaultRetentionDays
		}
		cutoff := time.Now().Add(-time.Duration(retentionDays) * 24 * time.Hour)

		var total int64
		batches := 0
		capped := false
		for {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("cleanup audit events stopped after %d deleted: %w", total, err)
			}

			batch := limits.BatchSize
			if limits.MaxDeletes > 0 {
				remaining := int64(limits.MaxDeletes) - total
				if remaining <= 0 {
					capped = true
					break
				}
				if remaining < int64(batch) {
					batch = int(remaining)
				}
			}

			deleted, err := cleaner.DeleteEventsBefore(ctx, cutoff, batch)
			if err != nil {
				return fmt.Errorf("cleanup audit events after %d deleted: %w", total, err)
			}
			total += deleted
			batches++

			if deleted < int64(batch) {
				break
			}
		}

		event := log.Info()
		if capped {
			event = log.Warn()
		}
		event.
			Int64("deleted", total).
			Int("batches", batches).
			Int("retention_days", retentionDays).
			Bool("limit_reached", capped).
			Msg("cleaned up audit events")
		return nil
	}
}

// NewCleanupAuditEventsQueue creates a backlite queue for audit cleanup tasks.
func NewCleanupAuditEventsQueue(cleaner AuditEventCleaner, limits CleanupLimits, log zerolog.Logger) backlite.Queue {
	return backlite.NewQueue(CleanupAuditEventsProcessor(cleaner, limits, log))
}
