package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	auditsvc "github.com/mrlokans/petadoption/internal/audit"
	"github.com/mrlokans/petadoption/internal/auth"
	"github.com/mrlokans/petadoption/internal/config"
	"github.com/mrlokans/petadoption/internal/database"
	"github.com/mrlokans/petadoption/internal/database/adoptions"
	"github.com/mrlokans/petadoption/internal/database/audit"
	"github.com/mrlokans/petadoption/internal/database/pets"
	"github.com/mrlokans/petadoption/internal/database/users"
	"github.com/mrlokans/petadoption/internal/images"
	"github.com/mrlokans/petadoption/internal/logging"
	"github.com/mrlokans/petadoption/internal/shelter"
)

var errEmptyImagesDir = errors.New("-images must not be empty")

// stack is the set of services a command works with. It opens the same store
// the server uses, seeded the same way on first run.
type stack struct {
	db        *database.Database
	pets      *pets.Repository
	adoptions *adoptions.Repository
	audit     *auditsvc.Service
	auth      *auth.Service
	log       zerolog.Logger
}

func openStack(dbPath string, verbose bool) (*stack, error) {
	cfg := config.NewConfig()

	absDBPath, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for database: %w", err)
	}

	log := commandLogger(cfg.Log.Format, verbose, os.Stderr)

	db, err := database.NewDatabase(absDBPath, database.Options{
		Logger: log,
		Seed: database.SeedOptions{
			AdminUsername: cfg.Seed.AdminUsername,
			AdminPassword: cfg.Seed.AdminPassword,
			AdminEmail:    cfg.Seed.AdminEmail,
			SamplePets:    cfg.Seed.SamplePets,
			HashPassword: func(pw string) (string, error) {
				return auth.HashPassword(pw, cfg.Auth.BcryptCost)
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	s := &stack{
		db:        db,
		pets:      pets.NewRepository(db.DB),
		adoptions: adoptions.NewRepository(db.DB),
		audit:     auditsvc.NewService(audit.NewRepository(db.DB), log),
		auth:      auth.NewService(users.NewRepository(db.DB), cfg.Auth),
		log:       log,
	}

	return s, nil
}

// shelterService builds the catalogue service with images copied into imagesDir.
func (s *stack) shelterService(imagesDir string) (*shelter.Service, error) {
	if imagesDir == "" {
		return nil, errEmptyImagesDir
	}

	store, err := images.NewStore(imagesDir)
	if err != nil {
		return nil, err
	}
	return shelter.NewService(s.pets, s.adoptions, store, s.audit, s.log), nil
}

func (s *stack) Close() error {
	return s.db.Close()
}

// commandLogger keeps the store quiet unless -verbose is given.
func commandLogger(format string, verbose bool, out io.Writer) zerolog.Logger {
	level := "warn"
	if verbose {
		level = "debug"
	}
	return logging.New(level, format, out)
}
