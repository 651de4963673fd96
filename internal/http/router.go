package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/petadoption/internal/auth"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(cfg.Logger))

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware())
	if cfg.SecureCookies {
		router.Use(auth.StrictTransportSecurityMiddleware())
	}

	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}

	// Session runs after CSRF so session context isn't overwritten by CSRF's request replacement
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
		router.Use(auth.NewMiddleware(cfg.SessionManager).Handler())
	}

	// Health endpoints
	health := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", health.Ping)

	router.GET("/api/csrf", auth.CSRFTokenHandler)

	if cfg.AuthController != nil {
		cfg.AuthController.RegisterRoutes(router)
	}

	if cfg.ImagesDir != "" {
		router.Static("/images", cfg.ImagesDir)
	}

	if cfg.Shelter == nil {
		return router
	}

	pets := NewPetsController(cfg.Shelter, cfg.Logger)
	router.GET("/api/pets", pets.ListAvailable)

	user := router.Group("/api", auth.RequireSession())
	user.POST("/pets/:id/adopt", pets.Adopt)
	user.GET("/adoptions", pets.MyAdoptions)

	admin := NewAdminController(cfg.Shelter, cfg.Logger)
	auditLog := NewAuditController(cfg.Shelter, cfg.Logger)

	adminGroup := router.Group("/api/admin", auth.RequireAdmin())
	adminGroup.GET("/pets", admin.ListPets)
	adminGroup.POST("/pets", admin.AddPet)
	adminGroup.DELETE("/pets/:id", admin.DeletePet)
	adminGroup.GET("/adoptions", admin.ListAdoptions)
	adminGroup.GET("/stats", admin.Stats)
	adminGroup.GET("/audit", auditLog.GetAuditEvents)

	return router
}
