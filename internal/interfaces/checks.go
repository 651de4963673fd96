package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	auditsvc "github.com/mrlokans/petadoption/internal/audit"
	"github.com/mrlokans/petadoption/internal/auth"
	"github.com/mrlokans/petadoption/internal/database"
	"github.com/mrlokans/petadoption/internal/database/adoptions"
	"github.com/mrlokans/petadoption/internal/database/pets"
	"github.com/mrlokans/petadoption/internal/database/users"
	"github.com/mrlokans/petadoption/internal/http"
	"github.com/mrlokans/petadoption/internal/images"
	"github.com/mrlokans/petadoption/internal/scheduler"
	"github.com/mrlokans/petadoption/internal/shelter"
	"github.com/mrlokans/petadoption/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// UserStore implementations
var _ auth.UserStore = (*users.Repository)(nil)

// PetStore implementations
var _ shelter.PetStore = (*pets.Repository)(nil)

// AdoptionStore implementations
var _ shelter.AdoptionStore = (*adoptions.Repository)(nil)

// Pinger implementations
var _ http.Pinger = (*database.Database)(nil)

// =============================================================================
// Supporting Services
// =============================================================================

// ImageStore implementations
var _ shelter.ImageStore = (*images.Store)(nil)

// Auditor implementations
var _ shelter.Auditor = (*auditsvc.Service)(nil)
var _ auth.Auditor = (*auditsvc.Service)(nil)

// Background maintenance
var _ tasks.AuditEventCleaner = (*auditsvc.Service)(nil)
var _ scheduler.AuditCleanupEnqueuer = (*tasks.Client)(nil)

// =============================================================================
// Presentation
// =============================================================================

// ShelterService implementations
var _ http.ShelterService = (*shelter.Service)(nil)
