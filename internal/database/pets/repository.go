// Package pets provides database operations for the pet catalogue.
package pets

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mrlokans/petadoption/internal/apperrors"
	"github.com/mrlokans/petadoption/internal/database"
	"github.com/mrlokans/petadoption/internal/entities"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a pet. An empty status is stored as AVAILABLE.
func (r *Repository) Create(ctx context.Context, pet *entities.Pet) error {
	if pet.Status == "" {
		pet.Status = entities.PetStatusAvailable
	}
	return apperrors.Store("create pet", r.db.WithContext(ctx).Create(pet).Error)
}

func (r *Repository) GetByID(ctx context.Context, id uint) (*entities.Pet, error) {
	var pet entities.Pet
	err := r.db.WithContext(ctx).First(&pet, id).Error
	if err != nil {
		if database.IsRecordNotFound(err) {
			return nil, apperrors.NotFound("pet", id)
		}
		return nil, apperrors.Store("get pet", err)
	}
	return &pet, nil
}

// ListAvailable returns the pets that can still be adopted, oldest first.
func (r *Repository) ListAvailable(ctx context.Context) ([]entities.Pet, error) {
	pets := []entities.Pet{}
	err := r.db.WithContext(ctx).
		Where("status = ?", entities.PetStatusAvailable).
		Order("id ASC").
		Find(&pets).Error
	if err != nil {
		return nil, apperrors.Store("list available pets", err)
	}
	return pets, nil
}

// ListAll returns every pet, newest first.
func (r *Repository) ListAll(ctx context.Context) ([]entities.Pet, error) {
	pets := []entities.Pet{}
	if err := r.db.WithContext(ctx).Order("id DESC").Find(&pets).Error; err != nil {
		return nil, apperrors.Store("list pets", err)
	}
	return pets, nil
}

// Delete removes a pet that has no adoption history and returns the removed
// row so the caller can release its image. A pet referenced by any adoption is
// kept and apperrors.ErrPetHasAdoptions is returned.
func (r *Repository) Delete(ctx context.Context, id uint) (*entities.Pet, error) {
	var deleted entities.Pet

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&deleted, id).Error; err != nil {
			return err
		}

		var adoptions int64
		if err := tx.Model(&entities.Adoption{}).Where("pet_id = ?", id).Count(&adoptions).Error; err != nil {
			return err
		}
		if adoptions > 0 {
			return apperrors.ErrPetHasAdoptions
		}

		result := tx.Delete(&entities.Pet{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})

	switch {
	case err == nil:
		return &deleted, nil
	case database.IsRecordNotFound(err):
		return nil, apperrors.NotFound("pet", id)
	case errors.Is(err, apperrors.ErrPetHasAdoptions):
		return nil, err
	default:
		return nil, apperrors.Store("delete pet", err)
	}
}

func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entities.Pet{}).Count(&count).Error; err != nil {
		return 0, apperrors.Store("count pets", err)
	}
	return count, nil
}
