package auth

import (
	"time"

	"github.com/mrlokans/petadoption/internal/apperrors"
	"github.com/mrlokans/petadoption/internal/entities"
)

// Session identifies the logged-in user. It is created at login, handed to
// every operation that needs an identity and discarded at logout. A nil
// *Session means nobody is logged in.
type Session struct {
	UserID   uint      `json:"user_id"`
	Username string    `json:"username"`
	IsAdmin  bool      `json:"is_admin"`
	LoginAt  time.Time `json:"login_at"`
}

// NewSession builds the identity for a freshly authenticated user.
func NewSession(user *entities.User) *Session {
	return &Session{
		UserID:   user.ID,
		Username: user.Username,
		IsAdmin:  user.IsAdmin,
		LoginAt:  time.Now(),
	}
}

// RequireUser fails with apperrors.ErrAuthRequired when nobody is logged in.
func (s *Session) RequireUser() error {
	if s == nil || s.UserID == 0 {
		return apperrors.ErrAuthRequired
	}
	return nil
}

// RequireAdmin additionally fails with apperrors.ErrForbidden for regular users.
func (s *Session) RequireAdmin() error {
	if err := s.RequireUser(); err != nil {
		return err
	}
	if !s.IsAdmin {
		return apperrors.ErrForbidden
	}
	return nil
}
