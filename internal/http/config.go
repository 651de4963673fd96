package http

import (
	"github.com/rs/zerolog"

	"github.com/mrlokans/petadoption/internal/auth"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Shelter  ShelterService
	Database Pinger
	Logger   zerolog.Logger

	// Authentication
	AuthController *auth.AuthController
	SessionManager *auth.SessionManager

	// CSRF protection is enabled when the secret is non-empty.
	CSRFSecret    []byte
	SecureCookies bool

	// Directory served under /images. Empty disables the route.
	ImagesDir string

	// Application info
	Version string
}
