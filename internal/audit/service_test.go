package audit

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mrlokans/petadoption/internal/database"
	auditRepo "github.com/mrlokans/petadoption/internal/database/audit"
	"github.com/mrlokans/petadoption/internal/entities"
)

func setupTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "audit.db"), database.Options{Logger: zerolog.Nop()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewService(auditRepo.NewRepository(db.DB), zerolog.Nop()), db.DB
}

func TestService_LogAuth(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()

	t.Run("successful login", func(t *testing.T) {
		svc.LogAuth(ctx, 7, "login", "alice", "127.0.0.1", true)

		var event entities.AuditEvent
		require.NoError(t, db.Where("action = ? AND user_id = ?", "login", 7).First(&event).Error)
		assert.Equal(t, entities.AuditEventAuth, event.EventType)
		assert.Equal(t, entities.AuditStatusSuccess, event.Status)
		assert.Equal(t, "127.0.0.1", event.IPAddress)
		require.NotNil(t, event.EntityID)
		assert.Equal(t, uint(7), *event.EntityID)
	})

	t.Run("failed login", func(t *testing.T) {
		svc.LogAuth(ctx, 0, "login_failed", "mallory", "10.0.0.1", false)

		var event entities.AuditEvent
		require.NoError(t, db.Where("action = ?", "login_failed").First(&event).Error)
		assert.Equal(t, entities.AuditStatusFailed, event.Status)
		assert.Equal(t, "mallory", event.Description)
		assert.Nil(t, event.EntityID)
	})
}

func TestService_LogPet(t *testing.T) {
	svc, db := setupTestService(t)

	svc.LogPet(context.Background(), 1, "pet_delete", 3, "Rex", errors.New("pet has adoption records"))

	var event entities.AuditEvent
	require.NoError(t, db.Where("action = ?", "pet_delete").First(&event).Error)
	assert.Equal(t, entities.AuditEventPet, event.EventType)
	assert.Equal(t, entities.AuditStatusFailed, event.Status)
	assert.Contains(t, event.ErrorMsg, "adoption records")
}

func TestService_LogAdoption(t *testing.T) {
	svc, db := setupTestService(t)

	svc.LogAdoption(context.Background(), 2, 5, 11, nil)

	var event entities.AuditEvent
	require.NoError(t, db.Where("action = ?", "adoption_submit").First(&event).Error)
	assert.Equal(t, "Adoption request for pet 5", event.Description)
	require.NotNil(t, event.EntityID)
	assert.Equal(t, uint(11), *event.EntityID)
}

func TestService_GetEventsAndPrune(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	svc.Log(ctx, &entities.AuditEvent{Action: "old", CreatedAt: time.Now().Add(-48 * time.Hour)})
	svc.Log(ctx, &entities.AuditEvent{Action: "fresh"})

	deleted, err := svc.DeleteOldEvents(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	events, total, err := svc.GetEvents(ctx, auditRepo.EventFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "fresh", events[0].Action)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	long := strings.Repeat("a", 20)
	assert.Equal(t, "aaaaaaa...", truncate(long, 10))
}
