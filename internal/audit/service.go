package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrlokans/petadoption/internal/database/audit"
	"github.com/mrlokans/petadoption/internal/entities"
)

// Service provides high-level audit logging functionality.
// Recording never fails the operation being audited: store errors are logged.
type Service struct {
	repo *audit.Repository
	log  zerolog.Logger
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository, log zerolog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Log records a generic audit event.
func (s *Service) Log(ctx context.Context, event *entities.AuditEvent) {
	if err := s.repo.LogEvent(ctx, event); err != nil {
		s.log.Error().Err(err).Str("action", event.Action).Msg("failed to record audit event")
	}
}

// LogAuth records an authentication event.
func (s *Service) LogAuth(ctx context.Context, userID uint, action, username, ipAddr string, success bool) {
	event := &entities.AuditEvent{
		UserID:      userID,
		EventType:   entities.AuditEventAuth,
		Action:      action,
		Description: truncate(username, 500),
		EntityType:  "user",
		IPAddress:   ipAddr,
		Status:      entities.AuditStatusSuccess,
	}
	if userID > 0 {
		event.EntityID = &userID
	}
	if !success {
		event.Status = entities.AuditStatusFailed
	}

	s.Log(ctx, event)
}

// LogPet records an administrator change to the pet catalogue.
func (s *Service) LogPet(ctx context.Context, userID uint, action string, petID uint, petName string, err error) {
	event := &entities.AuditEvent{
		UserID:      userID,
		EventType:   entities.AuditEventPet,
		Action:      action,
		Description: truncate(petName, 500),
		EntityType:  "pet",
		Status:      entities.AuditStatusSuccess,
	}
	if petID > 0 {
		event.EntityID = &petID
	}
	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}

	s.Log(ctx, event)
}

// LogAdoption records an adoption request.
func (s *Service) LogAdoption(ctx context.Context, userID, petID uint, adoptionID uint, err error) {
	event := &entities.AuditEvent{
		UserID:      userID,
		EventType:   entities.AuditEventAdoption,
		Action:      "adoption_submit",
		Description: fmt.Sprintf("Adoption request for pet %d", petID),
		EntityType:  "adoption",
		Status:      entities.AuditStatusSuccess,
	}
	if adoptionID > 0 {
		event.EntityID = &adoptionID
	}
	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}

	s.Log(ctx, event)
}

// GetEvents retrieves paginated audit events.
func (s *Service) GetEvents(ctx context.Context, filter audit.EventFilter) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEvents(ctx, filter)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *Service) DeleteOldEvents(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	return s.repo.DeleteOldEvents(ctx, cutoff)
}

// DeleteEventsBefore removes up to limit events created before cutoff.
func (s *Service) DeleteEventsBefore(ctx context.Context, cutoff time.Time, limit int) (int64, error) {
	return s.repo.DeleteEventsBefore(ctx, cutoff, limit)
}

// truncate shortens a string to max length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
