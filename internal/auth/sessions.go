package auth

import (
	"database/sql"
	"encoding/gob"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"

	"github.com/mrlokans/petadoption/internal/config"
)

// Session data keys
const (
	SessionKeyUserID   = "user_id"
	SessionKeyUsername = "username"
	SessionKeyIsAdmin  = "is_admin"
	SessionKeyLoginAt  = "login_at"
)

func init() {
	// Register types that will be stored in sessions
	gob.Register(time.Time{})
}

// SessionManager persists Session identities behind a cookie.
type SessionManager struct {
	*scs.SessionManager
}

// NewSessionManager creates a configured session manager.
// The sqlDB parameter should be the underlying *sql.DB from GORM.
func NewSessionManager(sqlDB *sql.DB, cfg config.Auth) (*SessionManager, error) {
	_, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		expiry REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`)
	if err != nil {
		return nil, err
	}

	sm := scs.New()
	sm.Store = sqlite3store.New(sqlDB)

	lifetime := cfg.SessionLifetime
	if lifetime <= 0 {
		lifetime = 24 * time.Hour
	}
	sm.Lifetime = lifetime
	sm.IdleTimeout = lifetime / 2

	sm.Cookie.Name = "session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.SecureCookies
	sm.Cookie.SameSite = http.SameSiteStrictMode
	sm.Cookie.Path = "/"

	return &SessionManager{SessionManager: sm}, nil
}

// CreateSession stores the identity after a successful login.
func (sm *SessionManager) CreateSession(r *http.Request, s *Session) error {
	// Renew token to prevent session fixation
	if err := sm.RenewToken(r.Context()); err != nil {
		return err
	}

	// Store user ID as int to match GetInt() retrieval
	sm.Put(r.Context(), SessionKeyUserID, int(s.UserID))
	sm.Put(r.Context(), SessionKeyUsername, s.Username)
	sm.Put(r.Context(), SessionKeyIsAdmin, s.IsAdmin)
	sm.Put(r.Context(), SessionKeyLoginAt, s.LoginAt)

	return nil
}

// DestroySession clears the identity at logout.
func (sm *SessionManager) DestroySession(r *http.Request) error {
	return sm.Destroy(r.Context())
}

// GetSession returns the identity stored for this request, or nil.
func (sm *SessionManager) GetSession(r *http.Request) *Session {
	ctx := r.Context()
	userID := sm.GetInt(ctx, SessionKeyUserID)
	if userID == 0 {
		return nil
	}

	loginAt, _ := sm.Get(ctx, SessionKeyLoginAt).(time.Time)

	return &Session{
		UserID:   uint(userID),
		Username: sm.GetString(ctx, SessionKeyUsername),
		IsAdmin:  sm.GetBool(ctx, SessionKeyIsAdmin),
		LoginAt:  loginAt,
	}
}
