package http

import (
	"context"

	"github.com/mrlokans/petadoption/internal/auth"
	"github.com/mrlokans/petadoption/internal/database/audit"
	"github.com/mrlokans/petadoption/internal/entities"
	"github.com/mrlokans/petadoption/internal/shelter"
)

// Each controller declares the slice of the shelter service it needs.

// PetBrowser serves the public and logged-in user routes.
type PetBrowser interface {
	ListAvailablePets(ctx context.Context) ([]entities.Pet, error)
	SubmitAdoption(ctx context.Context, session *auth.Session, petID uint, notes string) (*entities.Adoption, error)
	ListMyAdoptions(ctx context.Context, session *auth.Session) ([]entities.Adoption, error)
}

// ShelterAdmin serves the administrator routes.
type ShelterAdmin interface {
	ListAllPets(ctx context.Context, session *auth.Session) ([]entities.Pet, error)
	AddPet(ctx context.Context, session *auth.Session, in shelter.PetInput) (*entities.Pet, error)
	DeletePet(ctx context.Context, session *auth.Session, id uint) error
	ListAllAdoptions(ctx context.Context, session *auth.Session) ([]entities.Adoption, error)
	DashboardStats(ctx context.Context, session *auth.Session) (*entities.DashboardStats, error)
}

// AuditReader serves the audit log route.
type AuditReader interface {
	ListAuditEvents(ctx context.Context, session *auth.Session, filter audit.EventFilter) ([]entities.AuditEvent, int64, error)
}

// ShelterService combines everything the router needs.
type ShelterService interface {
	PetBrowser
	ShelterAdmin
	AuditReader
}
