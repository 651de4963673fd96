// Package auth provides accounts, sessions and access checks for the
// adoption service.
//
// Accounts are stored with bcrypt password hashes. A successful login yields
// a Session identity which is persisted by scs in the same SQLite database and
// carried by the "session" cookie. Operations that need an identity take the
// *Session explicitly; a nil session means an anonymous caller.
//
// # Configuration
//
//	AUTH_SESSION_SECRET=<base64-32-bytes>  # CSRF key, auto-generated if empty
//	AUTH_SESSION_LIFETIME=24h              # Session duration
//	AUTH_BCRYPT_COST=12                    # bcrypt cost factor
//	AUTH_SECURE_COOKIES=false              # HTTPS-only cookies
//	AUTH_CSRF_ENABLED=true                 # X-CSRF-Token on unsafe methods
//
// # Usage
//
//	authService := auth.NewService(userRepo, cfg.Auth)
//	sessions, _ := auth.NewSessionManager(sqlDB, cfg.Auth)
//	router.Use(sessions.SessionLoadSave(), auth.NewMiddleware(sessions).Handler())
//
// Extract the identity in handlers:
//
//	session := auth.GetSession(c) // nil when anonymous
package auth
