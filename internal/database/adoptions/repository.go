// Package adoptions provides database operations for adoption requests.
package adoptions

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/petadoption/internal/apperrors"
	"github.com/mrlokans/petadoption/internal/entities"
)

type Repository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db, now: time.Now}
}

// Submit records a PENDING adoption and marks the pet ADOPTED in one transaction.
// The status flip is conditional on the pet still being AVAILABLE, so of two
// competing submissions for the same pet the first to commit wins and the other
// gets apperrors.ErrPetNotAvailable.
func (r *Repository) Submit(ctx context.Context, userID, petID uint, notes string) (*entities.Adoption, error) {
	adoption := &entities.Adoption{
		UserID:       userID,
		PetID:        petID,
		AdoptionDate: r.now(),
		Status:       entities.AdoptionStatusPending,
		Notes:        notes,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&entities.Pet{}).
			Where("id = ? AND status = ?", petID, entities.PetStatusAvailable).
			Update("status", entities.PetStatusAdopted)
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			var exists int64
			if err := tx.Model(&entities.Pet{}).Where("id = ?", petID).Count(&exists).Error; err != nil {
				return err
			}
			if exists == 0 {
				return apperrors.NotFound("pet", petID)
			}
			return apperrors.ErrPetNotAvailable
		}

		// Returning an error here also undoes the status flip above.
		var users int64
		if err := tx.Model(&entities.User{}).Where("id = ?", userID).Count(&users).Error; err != nil {
			return err
		}
		if users == 0 {
			return apperrors.NotFound("user", userID)
		}

		return tx.Create(adoption).Error
	})

	switch {
	case err == nil:
		return adoption, nil
	case errors.Is(err, apperrors.ErrNotFound), errors.Is(err, apperrors.ErrPetNotAvailable):
		return nil, err
	default:
		return nil, apperrors.Store("submit adoption", err)
	}
}

// ListForUser returns a user's adoptions with their pets, most recent first.
func (r *Repository) ListForUser(ctx context.Context, userID uint) ([]entities.Adoption, error) {
	adoptions := []entities.Adoption{}
	err := r.db.WithContext(ctx).
		Preload("Pet").
		Where("user_id = ?", userID).
		Order("adoption_date DESC, id DESC").
		Find(&adoptions).Error
	if err != nil {
		return nil, apperrors.Store("list user adoptions", err)
	}
	return adoptions, nil
}

// ListAll returns every adoption with its pet and user, most recent first.
func (r *Repository) ListAll(ctx context.Context) ([]entities.Adoption, error) {
	adoptions := []entities.Adoption{}
	err := r.db.WithContext(ctx).
		Preload("Pet").
		Preload("User").
		Order("adoption_date DESC, id DESC").
		Find(&adoptions).Error
	if err != nil {
		return nil, apperrors.Store("list adoptions", err)
	}
	return adoptions, nil
}

// Stats counts pets by status and the total number of adoptions.
func (r *Repository) Stats(ctx context.Context) (*entities.DashboardStats, error) {
	db := r.db.WithContext(ctx)
	stats := &entities.DashboardStats{}

	if err := db.Model(&entities.Pet{}).Count(&stats.TotalPets).Error; err != nil {
		return nil, apperrors.Store("count pets", err)
	}
	if err := db.Model(&entities.Pet{}).Where("status = ?", entities.PetStatusAvailable).Count(&stats.AvailablePets).Error; err != nil {
		return nil, apperrors.Store("count available pets", err)
	}
	if err := db.Model(&entities.Pet{}).Where("status = ?", entities.PetStatusAdopted).Count(&stats.AdoptedPets).Error; err != nil {
		return nil, apperrors.Store("count adopted pets", err)
	}
	if err := db.Model(&entities.Adoption{}).Count(&stats.TotalAdoptions).Error; err != nil {
		return nil, apperrors.Store("count adoptions", err)
	}

	return stats, nil
}
