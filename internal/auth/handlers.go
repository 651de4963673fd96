package auth

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/mrlokans/petadoption/internal/apperrors"
	"github.com/mrlokans/petadoption/internal/config"
	"github.com/mrlokans/petadoption/internal/entities"
)

// Auth audit actions.
const (
	ActionRegister = "register"
	ActionLogin    = "login"
	ActionLogout   = "logout"
)

// Auditor records authentication events.
type Auditor interface {
	LogAuth(ctx context.Context, userID uint, action, username, ipAddr string, success bool)
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID          uint   `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	FullName    string `json:"full_name"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address"`
	IsAdmin     bool   `json:"is_admin"`
}

func newUserResponse(u *entities.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		FullName:    u.FullName,
		PhoneNumber: u.PhoneNumber,
		Address:     u.Address,
		IsAdmin:     u.IsAdmin,
	}
}

// AuthController handles authentication-related HTTP endpoints.
type AuthController struct {
	service        *Service
	sessionManager *SessionManager
	rateLimiter    *RateLimiter
	auditor        Auditor
	log            zerolog.Logger
}

// NewAuthController creates a new authentication controller. auditor may be nil.
func NewAuthController(service *Service, sessionManager *SessionManager, auditor Auditor, cfg config.Auth, log zerolog.Logger) *AuthController {
	rateLimiter := NewRateLimiter(RateLimitConfig{
		MaxAttempts:     cfg.MaxLoginAttempts,
		WindowDuration:  cfg.RateLimitWindow,
		LockoutDuration: cfg.LockoutDuration,
	})

	return &AuthController{
		service:        service,
		sessionManager: sessionManager,
		rateLimiter:    rateLimiter,
		auditor:        auditor,
		log:            log,
	}
}

// RegisterRoutes registers authentication routes on the router.
func (ac *AuthController) RegisterRoutes(router gin.IRouter) {
	group := router.Group("/api/auth")
	group.POST("/register", ac.Register)
	group.POST("/login", ac.Login)
	group.POST("/logout", ac.Logout)
	group.GET("/me", RequireSession(), ac.Me)
}

// Stop cleans up resources (rate limiter background goroutine).
func (ac *AuthController) Stop() {
	if ac.rateLimiter != nil {
		ac.rateLimiter.Stop()
	}
}

// Register creates a regular account. It does not log the new user in.
// POST /api/auth/register
func (ac *AuthController) Register(c *gin.Context) {
	var in RegisterInput
	if err := c.ShouldBind(&in); err != nil {
		ac.respondError(c, apperrors.Invalid("", "invalid request body"))
		return
	}

	user, err := ac.service.Register(c.Request.Context(), in)
	if err != nil {
		ac.audit(c, 0, ActionRegister, in.Username, false)
		ac.respondError(c, err)
		return
	}

	ac.audit(c, user.ID, ActionRegister, user.Username, true)
	c.JSON(http.StatusCreated, newUserResponse(user))
}

// Login checks credentials and starts a session.
// POST /api/auth/login
func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		ac.respondError(c, apperrors.Invalid("", "invalid request body"))
		return
	}
	clientIP := c.ClientIP()

	// Check rate limiting before attempting authentication
	if allowed, retryAfter := ac.rateLimiter.Allow(clientIP, req.Username); !allowed {
		c.Header("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
		c.JSON(http.StatusTooManyRequests, apperrors.Response{
			Error: "too many login attempts, please try again later",
			Code:  apperrors.CodeRateLimited,
		})
		return
	}

	user, err := ac.service.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidCredentials) {
			ac.rateLimiter.RecordFailure(clientIP, req.Username)
			ac.audit(c, 0, ActionLogin, req.Username, false)
		}
		ac.respondError(c, err)
		return
	}

	ac.rateLimiter.RecordSuccess(clientIP, req.Username)

	session := NewSession(user)
	if err := ac.sessionManager.CreateSession(c.Request, session); err != nil {
		ac.respondError(c, apperrors.Store("create session", err))
		return
	}

	ac.audit(c, user.ID, ActionLogin, user.Username, true)
	c.JSON(http.StatusOK, gin.H{
		"user":    newUserResponse(user),
		"session": session,
	})
}

// Logout ends the current session. Logging out anonymously is a no-op.
// POST /api/auth/logout
func (ac *AuthController) Logout(c *gin.Context) {
	if s := ac.sessionManager.GetSession(c.Request); s != nil {
		ac.audit(c, s.UserID, ActionLogout, s.Username, true)
	}
	if err := ac.sessionManager.DestroySession(c.Request); err != nil {
		ac.respondError(c, apperrors.Store("destroy session", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Me returns the logged-in user.
// GET /api/auth/me
func (ac *AuthController) Me(c *gin.Context) {
	user, err := ac.service.GetUserByID(c.Request.Context(), GetUserID(c))
	if err != nil {
		ac.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(user))
}

func (ac *AuthController) audit(c *gin.Context, userID uint, action, username string, success bool) {
	if ac.auditor == nil {
		return
	}
	ac.auditor.LogAuth(c.Request.Context(), userID, action, username, c.ClientIP(), success)
}

func (ac *AuthController) respondError(c *gin.Context, err error) {
	status, resp := apperrors.HTTPResponse(err)
	if status == http.StatusInternalServerError {
		ac.log.Error().Err(err).Str("path", c.FullPath()).Msg("auth request failed")
	}
	c.JSON(status, resp)
}
