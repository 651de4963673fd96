// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup, migrations
//	├── seed.go          # First-run administrator and sample pets
//	├── errors.go        # gorm/sqlite error classification
//	├── users/           # Accounts
//	├── pets/            # Pet catalogue
//	├── adoptions/       # Adoption requests and dashboard counts
//	└── audit/           # Audit events
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type with domain-specific operations:
//
//	// Initialize database connection
//	db, err := database.NewDatabase("./pet-adoption.db", database.Options{Logger: log})
//
//	// Create domain-specific repositories
//	petsRepo := pets.NewRepository(db.DB)
//	adoptionsRepo := adoptions.NewRepository(db.DB)
//
//	// Use repositories
//	available, err := petsRepo.ListAvailable(ctx)
//	adoption, err := adoptionsRepo.Submit(ctx, userID, petID, "We have a garden")
//
// Repositories return apperrors values: NotFoundError for missing rows,
// ErrDuplicateUsername for taken usernames and StoreError for everything
// else the store reports.
//
// # Interface Implementations
//
//   - users.Repository: implements auth.UserStore
//   - pets.Repository: implements shelter.PetStore
//   - adoptions.Repository: implements shelter.AdoptionStore
//   - Database: implements http.Pinger
//
// # Adding a New Domain
//
//  1. Create a new sub-package: internal/database/<domain>/
//  2. Define a Repository struct with a *gorm.DB field
//  3. Add NewRepository(db *gorm.DB) constructor
//  4. Register the entity in ensureSchema
//  5. Add compile-time interface check in internal/interfaces/checks.go
package database
