package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/mrlokans/petadoption/internal/apperrors"
	"github.com/mrlokans/petadoption/internal/config"
	"github.com/mrlokans/petadoption/internal/entities"
)

// UserStore defines the user data access the service needs.
type UserStore interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uint) (*entities.User, error)
	GetByUsername(ctx context.Context, username string) (*entities.User, error)
}

// RegisterInput carries the registration form fields by name. All six are required.
type RegisterInput struct {
	Username    string `json:"username" form:"username"`
	Password    string `json:"password" form:"password"`
	Email       string `json:"email" form:"email"`
	FullName    string `json:"full_name" form:"full_name"`
	PhoneNumber string `json:"phone_number" form:"phone_number"`
	Address     string `json:"address" form:"address"`
}

// Validate reports the first missing field.
func (in RegisterInput) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"username", in.Username},
		{"password", in.Password},
		{"email", in.Email},
		{"full_name", in.FullName},
		{"phone_number", in.PhoneNumber},
		{"address", in.Address},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return apperrors.Invalid(f.name, "is required")
		}
	}
	if len(in.Password) > MaxPasswordLength {
		return apperrors.Invalid("password", ErrPasswordTooLong.Error())
	}
	return nil
}

// Service handles registration and credential checks.
type Service struct {
	users  UserStore
	config config.Auth

	dummyOnce sync.Once
	dummyHash string
}

// NewService creates a new authentication service.
func NewService(users UserStore, cfg config.Auth) *Service {
	return &Service{
		users:  users,
		config: cfg,
	}
}

// Register creates a regular user account.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*entities.User, error) {
	return s.createUser(ctx, in, false)
}

// RegisterAdmin creates an administrator account.
func (s *Service) RegisterAdmin(ctx context.Context, in RegisterInput) (*entities.User, error) {
	return s.createUser(ctx, in, true)
}

func (s *Service) createUser(ctx context.Context, in RegisterInput, isAdmin bool) (*entities.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	// Username and password are stored exactly as typed.
	_, err := s.users.GetByUsername(ctx, in.Username)
	if err == nil {
		return nil, apperrors.ErrDuplicateUsername
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	passwordHash, err := HashPassword(in.Password, s.config.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entities.User{
		Username:     in.Username,
		PasswordHash: passwordHash,
		Email:        strings.TrimSpace(in.Email),
		FullName:     strings.TrimSpace(in.FullName),
		PhoneNumber:  strings.TrimSpace(in.PhoneNumber),
		Address:      strings.TrimSpace(in.Address),
		IsAdmin:      isAdmin,
	}

	// The store reports a concurrent registration of the same name as a duplicate too.
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Authenticate returns the user whose username and password match exactly.
// Unknown usernames and wrong passwords both yield apperrors.ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*entities.User, error) {
	if username == "" {
		return nil, apperrors.Invalid("username", "is required")
	}
	if password == "" {
		return nil, apperrors.Invalid("password", "is required")
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Spend the same bcrypt work as a real check.
			_ = CheckPassword(password, s.timingHash())
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := CheckPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, ErrInvalidPassword) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}

	return user, nil
}

// GetUserByID retrieves a user by their ID.
func (s *Service) GetUserByID(ctx context.Context, id uint) (*entities.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *Service) timingHash() string {
	s.dummyOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte("timing-equalizer"), s.cost())
		if err == nil {
			s.dummyHash = string(hash)
		}
	})
	return s.dummyHash
}

func (s *Service) cost() int {
	if s.config.BcryptCost < bcrypt.MinCost {
		return bcrypt.DefaultCost
	}
	return s.config.BcryptCost
}
