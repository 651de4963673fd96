// Package shelter holds the adoption use cases. It validates raw input,
// enforces who may do what and calls the repositories.
package shelter

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mrlokans/petadoption/internal/apperrors"
	"github.com/mrlokans/petadoption/internal/auth"
	"github.com/mrlokans/petadoption/internal/database/audit"
	"github.com/mrlokans/petadoption/internal/entities"
)

// Pet audit actions.
const (
	ActionPetAdd    = "pet_add"
	ActionPetDelete = "pet_delete"
)

type PetStore interface {
	Create(ctx context.Context, pet *entities.Pet) error
	ListAvailable(ctx context.Context) ([]entities.Pet, error)
	ListAll(ctx context.Context) ([]entities.Pet, error)
	Delete(ctx context.Context, id uint) (*entities.Pet, error)
}

type AdoptionStore interface {
	Submit(ctx context.Context, userID, petID uint, notes string) (*entities.Adoption, error)
	ListForUser(ctx context.Context, userID uint) ([]entities.Adoption, error)
	ListAll(ctx context.Context) ([]entities.Adoption, error)
	Stats(ctx context.Context) (*entities.DashboardStats, error)
}

type ImageStore interface {
	Import(ctx context.Context, source string) (string, error)
	ImportTrusted(ctx context.Context, source string) (string, error)
	Save(filename string, r io.Reader) (string, error)
	Remove(ref string) error
}

// Auditor records catalogue and adoption events and reads them back.
type Auditor interface {
	LogPet(ctx context.Context, userID uint, action string, petID uint, petName string, err error)
	LogAdoption(ctx context.Context, userID, petID uint, adoptionID uint, err error)
	GetEvents(ctx context.Context, filter audit.EventFilter) ([]entities.AuditEvent, int64, error)
}

// ImageUpload is an image file sent with the add-pet request.
type ImageUpload struct {
	Filename string
	Body     io.Reader
}

// PetInput carries the add-pet form fields by name. Age is the raw text the
// administrator typed.
type PetInput struct {
	Name        string `json:"name" form:"name"`
	Species     string `json:"species" form:"species"`
	Breed       string `json:"breed" form:"breed"`
	Age         string `json:"age" form:"age"`
	Gender      string `json:"gender" form:"gender"`
	Size        string `json:"size" form:"size"`
	Color       string `json:"color" form:"color"`
	Description string `json:"description" form:"description"`

	// ImageSource is an http(s) URL to import, or a local path when
	// AllowLocalImage is set. Upload wins when both are set.
	ImageSource string       `json:"image_source" form:"image_source"`
	Upload      *ImageUpload `json:"-" form:"-"`

	// AllowLocalImage is only set by operator tooling running on the host.
	AllowLocalImage bool `json:"-" form:"-"`
}

// ToPet validates the input and builds the pet to insert. Text is trimmed;
// empty breed and color get their defaults.
func (in PetInput) ToPet() (*entities.Pet, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperrors.Invalid("name", "is required")
	}

	species := entities.Species(strings.TrimSpace(in.Species))
	if !species.Valid() {
		return nil, apperrors.Invalid("species", "must be one of Dog, Cat, Bird, Rabbit, Other")
	}

	age, err := strconv.Atoi(strings.TrimSpace(in.Age))
	if err != nil {
		return nil, apperrors.Invalid("age", "must be a whole number")
	}
	if age < 0 {
		return nil, apperrors.Invalid("age", "must not be negative")
	}

	gender := entities.Gender(strings.TrimSpace(in.Gender))
	if !gender.Valid() {
		return nil, apperrors.Invalid("gender", "must be Male or Female")
	}

	size := entities.Size(strings.TrimSpace(in.Size))
	if !size.Valid() {
		return nil, apperrors.Invalid("size", "must be Small, Medium or Large")
	}

	description := strings.TrimSpace(in.Description)
	if description == "" {
		return nil, apperrors.Invalid("description", "is required")
	}

	breed := strings.TrimSpace(in.Breed)
	if breed == "" {
		breed = entities.DefaultBreed
	}
	color := strings.TrimSpace(in.Color)
	if color == "" {
		color = entities.DefaultColor
	}

	return &entities.Pet{
		Name:        name,
		Species:     species,
		Breed:       breed,
		Age:         age,
		Gender:      gender,
		Size:        size,
		Color:       color,
		Description: description,
		Status:      entities.PetStatusAvailable,
	}, nil
}

// Service is the single entry point the HTTP and CLI adapters use.
type Service struct {
	pets      PetStore
	adoptions AdoptionStore
	images    ImageStore
	auditor   Auditor
	log       zerolog.Logger
}

// NewService wires the shelter use cases. auditor may be nil.
func NewService(pets PetStore, adoptions AdoptionStore, images ImageStore, auditor Auditor, log zerolog.Logger) *Service {
	return &Service{
		pets:      pets,
		adoptions: adoptions,
		images:    images,
		auditor:   auditor,
		log:       log,
	}
}

// ListAvailablePets is public.
func (s *Service) ListAvailablePets(ctx context.Context) ([]entities.Pet, error) {
	return s.pets.ListAvailable(ctx)
}

func (s *Service) ListAllPets(ctx context.Context, session *auth.Session) ([]entities.Pet, error) {
	if err := session.RequireAdmin(); err != nil {
		return nil, err
	}
	return s.pets.ListAll(ctx)
}

// AddPet validates in, imports its image and stores the pet as AVAILABLE.
func (s *Service) AddPet(ctx context.Context, session *auth.Session, in PetInput) (*entities.Pet, error) {
	if err := session.RequireAdmin(); err != nil {
		return nil, err
	}

	pet, err := in.ToPet()
	if err != nil {
		return nil, err
	}

	ref, err := s.storeImage(ctx, in)
	if err != nil {
		return nil, err
	}
	pet.ImageURL = ref

	if err := s.pets.Create(ctx, pet); err != nil {
		if ref != "" {
			if rmErr := s.images.Remove(ref); rmErr != nil {
				s.log.Warn().Err(rmErr).Str("image", ref).Msg("failed to remove orphaned image")
			}
		}
		s.auditPet(ctx, session, ActionPetAdd, 0, pet.Name, err)
		return nil, err
	}

	s.log.Info().Uint("pet_id", pet.ID).Str("name", pet.Name).Str("by", session.Username).Msg("pet added")
	s.auditPet(ctx, session, ActionPetAdd, pet.ID, pet.Name, nil)
	return pet, nil
}

// DeletePet removes a pet without adoption history and its managed image.
func (s *Service) DeletePet(ctx context.Context, session *auth.Session, id uint) error {
	if err := session.RequireAdmin(); err != nil {
		return err
	}

	pet, err := s.pets.Delete(ctx, id)
	if err != nil {
		s.auditPet(ctx, session, ActionPetDelete, id, "", err)
		return err
	}

	if err := s.images.Remove(pet.ImageURL); err != nil {
		s.log.Warn().Err(err).Str("image", pet.ImageURL).Msg("failed to remove pet image")
	}

	s.log.Info().Uint("pet_id", id).Str("name", pet.Name).Str("by", session.Username).Msg("pet deleted")
	s.auditPet(ctx, session, ActionPetDelete, id, pet.Name, nil)
	return nil
}

// SubmitAdoption requests petID for the logged-in user. The pet is marked
// ADOPTED in the same transaction.
func (s *Service) SubmitAdoption(ctx context.Context, session *auth.Session, petID uint, notes string) (*entities.Adoption, error) {
	if err := session.RequireUser(); err != nil {
		return nil, err
	}

	adoption, err := s.adoptions.Submit(ctx, session.UserID, petID, strings.TrimSpace(notes))
	if err != nil {
		s.auditAdoption(ctx, session.UserID, petID, 0, err)
		return nil, err
	}

	s.log.Info().Uint("adoption_id", adoption.ID).Uint("pet_id", petID).Str("by", session.Username).Msg("adoption submitted")
	s.auditAdoption(ctx, session.UserID, petID, adoption.ID, nil)
	return adoption, nil
}

func (s *Service) ListMyAdoptions(ctx context.Context, session *auth.Session) ([]entities.Adoption, error) {
	if err := session.RequireUser(); err != nil {
		return nil, err
	}
	return s.adoptions.ListForUser(ctx, session.UserID)
}

func (s *Service) ListAllAdoptions(ctx context.Context, session *auth.Session) ([]entities.Adoption, error) {
	if err := session.RequireAdmin(); err != nil {
		return nil, err
	}
	return s.adoptions.ListAll(ctx)
}

func (s *Service) DashboardStats(ctx context.Context, session *auth.Session) (*entities.DashboardStats, error) {
	if err := session.RequireAdmin(); err != nil {
		return nil, err
	}
	return s.adoptions.Stats(ctx)
}

// ListAuditEvents returns one page of audit events and the total count.
func (s *Service) ListAuditEvents(ctx context.Context, session *auth.Session, filter audit.EventFilter) ([]entities.AuditEvent, int64, error) {
	if err := session.RequireAdmin(); err != nil {
		return nil, 0, err
	}
	if s.auditor == nil {
		return []entities.AuditEvent{}, 0, nil
	}
	return s.auditor.GetEvents(ctx, filter)
}

func (s *Service) storeImage(ctx context.Context, in PetInput) (string, error) {
	if in.Upload != nil {
		return s.images.Save(in.Upload.Filename, in.Upload.Body)
	}
	if in.AllowLocalImage {
		return s.images.ImportTrusted(ctx, in.ImageSource)
	}
	return s.images.Import(ctx, in.ImageSource)
}

func (s *Service) auditPet(ctx context.Context, session *auth.Session, action string, petID uint, name string, err error) {
	if s.auditor != nil {
		s.auditor.LogPet(ctx, session.UserID, action, petID, name, err)
	}
}

func (s *Service) auditAdoption(ctx context.Context, userID, petID, adoptionID uint, err error) {
	if s.auditor != nil {
		s.auditor.LogAdoption(ctx, userID, petID, adoptionID, err)
	}
}
