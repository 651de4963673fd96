package entities

import "time"

type AdoptionStatus string

const (
	AdoptionStatusPending  AdoptionStatus = "PENDING"
	AdoptionStatusApproved AdoptionStatus = "APPROVED"
	AdoptionStatusRejected AdoptionStatus = "REJECTED"
)

// Adoption is a request by a user to adopt a pet. Creating one marks the pet
// ADOPTED in the same transaction.
type Adoption struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	UserID       uint           `gorm:"index;not null" json:"user_id"`
	PetID        uint           `gorm:"index;not null" json:"pet_id"`
	AdoptionDate time.Time      `gorm:"not null;index" json:"adoption_date"`
	Status       AdoptionStatus `gorm:"size:20;not null;default:PENDING" json:"status"`
	Notes        string         `gorm:"type:text" json:"notes,omitempty"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT" json:"user,omitempty"`
	Pet  *Pet  `gorm:"foreignKey:PetID;constraint:OnDelete:RESTRICT" json:"pet,omitempty"`
}

func (Adoption) TableName() string {
	return "adoptions"
}

// DashboardStats holds the counters shown on the administrator dashboard.
type DashboardStats struct {
	TotalPets      int64 `json:"total_pets"`
	AvailablePets  int64 `json:"available_pets"`
	AdoptedPets    int64 `json:"adopted_pets"`
	TotalAdoptions int64 `json:"total_adoptions"`
}
