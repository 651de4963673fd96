package audit

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/petadoption/internal/database"
	"github.com/mrlokans/petadoption/internal/entities"
)

func setupTestDB(t *testing.T) *Repository {
	t.Helper()
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "audit.db"), database.Options{Logger: zerolog.Nop()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(db.DB)
}

func TestRepository_LogEvent(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	event := &entities.AuditEvent{
		UserID:    1,
		EventType: entities.AuditEventAuth,
		Action:    "login",
		Status:    entities.AuditStatusSuccess,
	}
	require.NoError(t, repo.LogEvent(ctx, event))

	assert.NotZero(t, event.ID)
	assert.False(t, event.CreatedAt.IsZero())
}

func TestRepository_GetEvents_FiltersAndPaginates(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.LogEvent(ctx, &entities.AuditEvent{
			UserID:    1,
			EventType: entities.AuditEventPet,
			Action:    "pet_add",
			Status:    entities.AuditStatusSuccess,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, repo.LogEvent(ctx, &entities.AuditEvent{
		UserID:    2,
		EventType: entities.AuditEventAuth,
		Action:    "login",
		Status:    entities.AuditStatusFailed,
	}))

	events, total, err := repo.GetEvents(ctx, EventFilter{EventType: entities.AuditEventPet, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, events, 2)
	assert.True(t, events[0].CreatedAt.After(events[1].CreatedAt))

	events, total, err = repo.GetEvents(ctx, EventFilter{UserID: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "login", events[0].Action)

	_, total, err = repo.GetEvents(ctx, EventFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(6), total)
}

func TestRepository_DeleteOldEvents(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.LogEvent(ctx, &entities.AuditEvent{Action: "old", CreatedAt: time.Now().AddDate(0, 0, -40)}))
	require.NoError(t, repo.LogEvent(ctx, &entities.AuditEvent{Action: "new"}))

	deleted, err := repo.DeleteOldEvents(ctx, time.Now().AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	events, _, err := repo.GetEvents(ctx, EventFilter{})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "new", events[0].Action)
}

func TestRepository_DeleteEventsBefore(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.LogEvent(ctx, &entities.AuditEvent{Action: "old", CreatedAt: time.Now().AddDate(0, 0, -40+i)}))
	}
	require.NoError(t, repo.LogEvent(ctx, &entities.AuditEvent{Action: "new"}))
	cutoff := time.Now().AddDate(0, 0, -30)

	deleted, err := repo.DeleteEventsBefore(ctx, cutoff, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	deleted, err = repo.DeleteEventsBefore(ctx, cutoff, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	deleted, err = repo.DeleteEventsBefore(ctx, cutoff, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted, "a short batch means the backlog is gone")

	events, total, err := repo.GetEvents(ctx, EventFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "new", events[0].Action)
}

func TestRepository_DeleteEventsBefore_NoLimit(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.LogEvent(ctx, &entities.AuditEvent{Action: "old", CreatedAt: time.Now().AddDate(0, 0, -40)}))
	}

	deleted, err := repo.DeleteEventsBefore(ctx, time.Now().AddDate(0, 0, -30), 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)
}
