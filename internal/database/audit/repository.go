package audit

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/petadoption/internal/apperrors"
	"github.com/mrlokans/petadoption/internal/entities"
)

const defaultPageSize = 50

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// LogEvent saves an audit event to the database.
func (r *Repository) LogEvent(ctx context.Context, event *entities.AuditEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	return apperrors.Store("log audit event", r.db.WithContext(ctx).Create(event).Error)
}

// EventFilter narrows an audit query. Zero values match everything.
type EventFilter struct {
	UserID    uint
	EventType entities.AuditEventType
	Limit     int
	Offset    int
}

// GetEvents retrieves a page of audit events, most recent first, and the total
// number of events matching the filter.
func (r *Repository) GetEvents(ctx context.Context, f EventFilter) ([]entities.AuditEvent, int64, error) {
	events := []entities.AuditEvent{}
	var total int64

	query := r.db.WithContext(ctx).Model(&entities.AuditEvent{})
	if f.UserID > 0 {
		query = query.Where("user_id = ?", f.UserID)
	}
	if f.EventType != "" {
		query = query.Where("event_type = ?", f.EventType)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Store("count audit events", err)
	}

	limit, offset := f.Limit, f.Offset
	if limit <= 0 {
		limit = defaultPageSize
	}
	if offset < 0 {
		offset = 0
	}

	err := query.Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&events).Error
	if err != nil {
		return nil, 0, apperrors.Store("list audit events", err)
	}
	return events, total, nil
}

// DeleteOldEvents removes audit events older than the specified time.
// Returns the number of deleted events.
func (r *Repository) DeleteOldEvents(ctx context.Context, olderThan time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("created_at < ?", olderThan).Delete(&entities.AuditEvent{})
	if result.Error != nil {
		return 0, apperrors.Store("delete audit events", result.Error)
	}
	return result.RowsAffected, nil
}

// DeleteEventsBefore removes at most limit of the oldest events created before
// cutoff, so a large backlog can be pruned without holding the store for long.
// A limit of zero or less removes them all.
func (r *Repository) DeleteEventsBefore(ctx context.Context, cutoff time.Time, limit int) (int64, error) {
	if limit <= 0 {
		return r.DeleteOldEvents(ctx, cutoff)
	}

	oldest := r.db.Model(&entities.AuditEvent{}).
		Select("id").
		Where("created_at < ?", cutoff).
		Order("id").
		Limit(limit)

	result := r.db.WithContext(ctx).Where("id IN (?)", oldest).Delete(&entities.AuditEvent{})
	if result.Error != nil {
		return 0, apperrors.Store("delete audit events", result.Error)
	}
	return result.RowsAffected, nil
}
