package entities

import "time"

type Species string

const (
	SpeciesDog    Species = "Dog"
	SpeciesCat    Species = "Cat"
	SpeciesBird   Species = "Bird"
	SpeciesRabbit Species = "Rabbit"
	SpeciesOther  Species = "Other"
)

// AllSpecies lists the accepted species in display order.
var AllSpecies = []Species{SpeciesDog, SpeciesCat, SpeciesBird, SpeciesRabbit, SpeciesOther}

func (s Species) Valid() bool {
	switch s {
	case SpeciesDog, SpeciesCat, SpeciesBird, SpeciesRabbit, SpeciesOther:
		return true
	}
	return false
}

type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

type Size string

const (
	SizeSmall  Size = "Small"
	SizeMedium Size = "Medium"
	SizeLarge  Size = "Large"
)

func (s Size) Valid() bool {
	switch s {
	case SizeSmall, SizeMedium, SizeLarge:
		return true
	}
	return false
}

// PetStatus only ever moves from AVAILABLE to ADOPTED.
type PetStatus string

const (
	PetStatusAvailable PetStatus = "AVAILABLE"
	PetStatusAdopted   PetStatus = "ADOPTED"
)

// Defaults applied when a pet is added without a breed or color.
const (
	DefaultBreed = "Mixed"
	DefaultColor = "N/A"
)

type Pet struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Species     Species   `gorm:"size:20;not null" json:"species"`
	Breed       string    `gorm:"size:255" json:"breed"`
	Age         int       `gorm:"not null" json:"age"`
	Gender      Gender    `gorm:"size:10" json:"gender"`
	Size        Size      `gorm:"size:10" json:"size"`
	Color       string    `gorm:"size:100" json:"color"`
	Description string    `gorm:"type:text;not null" json:"description"`
	ImageURL    string    `gorm:"size:1000" json:"image_url,omitempty"`
	Status      PetStatus `gorm:"size:20;not null;default:AVAILABLE;index" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Pet) TableName() string {
	return "pets"
}

// IsAvailable reports whether the pet can still be adopted.
func (p *Pet) IsAvailable() bool {
	return p.Status == PetStatusAvailable
}
