package database

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/petadoption/internal/entities"
)

// SeedOptions describes the first-run data. HashPassword turns the configured
// admin password into the stored hash; without it no administrator is seeded.
type SeedOptions struct {
	AdminUsername string
	AdminPassword string
	AdminEmail    string
	SamplePets    bool
	HashPassword  func(password string) (string, error)
}

var samplePets = []entities.Pet{
	{
		Name: "Max", Species: entities.SpeciesDog, Breed: "Golden Retriever", Age: 3,
		Gender: entities.GenderMale, Size: entities.SizeLarge, Color: "Golden",
		Description: "Friendly and energetic dog, great with kids!",
		ImageURL:    "https://images.unsplash.com/photo-1633722715463-d30f4f325e24",
	},
	{
		Name: "Luna", Species: entities.SpeciesCat, Breed: "Persian", Age: 2,
		Gender: entities.GenderFemale, Size: entities.SizeMedium, Color: "White",
		Description: "Calm and affectionate cat, loves to cuddle.",
		ImageURL:    "https://images.unsplash.com/photo-1514888286974-6c03e2ca1dba",
	},
	{
		Name: "Charlie", Species: entities.SpeciesDog, Breed: "Beagle", Age: 5,
		Gender: entities.GenderMale, Size: entities.SizeMedium, Color: "Brown",
		Description: "Playful and curious, perfect for active families.",
		ImageURL:    "https://images.unsplash.com/photo-1505628346881-b72b27e84530",
	},
	{
		Name: "Bella", Species: entities.SpeciesCat, Breed: "Siamese", Age: 1,
		Gender: entities.GenderFemale, Size: entities.SizeSmall, Color: "Cream",
		Description: "Young and playful kitten, very social and friendly.",
		ImageURL:    "https://images.unsplash.com/photo-1573865526739-10c1de0ac088",
	},
	{
		Name: "Rocky", Species: entities.SpeciesDog, Breed: "German Shepherd", Age: 4,
		Gender: entities.GenderMale, Size: entities.SizeLarge, Color: "Black/Brown",
		Description: "Loyal and protective, well-trained guard dog.",
		ImageURL:    "https://images.unsplash.com/photo-1568572933382-74d440642117",
	},
	{
		Name: "Mittens", Species: entities.SpeciesCat, Breed: "Tabby", Age: 3,
		Gender: entities.GenderFemale, Size: entities.SizeMedium, Color: "Orange",
		Description: "Independent but loving cat, enjoys outdoor exploration.",
		ImageURL:    "https://images.unsplash.com/photo-1529778873920-4da4926a72c2",
	},
}

// SamplePets returns a copy of the pets inserted into an empty store.
func SamplePets() []entities.Pet {
	pets := make([]entities.Pet, len(samplePets))
	copy(pets, samplePets)
	return pets
}

func (d *Database) seedDefaults(ctx context.Context, opts SeedOptions) error {
	if err := d.seedAdmin(ctx, opts); err != nil {
		return err
	}
	if opts.SamplePets {
		return d.seedSamplePets(ctx)
	}
	return nil
}

// seedAdmin inserts the administrator only if the username is not taken yet.
func (d *Database) seedAdmin(ctx context.Context, opts SeedOptions) error {
	if opts.AdminUsername == "" || opts.HashPassword == nil {
		return nil
	}

	db := d.DB.WithContext(ctx)

	var existing entities.User
	err := db.Where("username = ?", opts.AdminUsername).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to look up admin user: %w", err)
	}

	hash, err := opts.HashPassword(opts.AdminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &entities.User{
		Username:     opts.AdminUsername,
		PasswordHash: hash,
		Email:        opts.AdminEmail,
		FullName:     "System Administrator",
		PhoneNumber:  "0000000000",
		Address:      "Admin Office",
		IsAdmin:      true,
	}
	if err := db.Create(admin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	d.log.Info().Str("username", admin.Username).Msg("created default administrator")
	return nil
}

// seedSamplePets runs only while the pets table is completely empty. Once any
// pet exists, deleting them all does not bring the samples back on the same
// store unless the table is empty again at the next start.
func (d *Database) seedSamplePets(ctx context.Context) error {
	db := d.DB.WithContext(ctx)

	var count int64
	if err := db.Model(&entities.Pet{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count pets: %w", err)
	}
	if count > 0 {
		return nil
	}

	pets := SamplePets()
	for i := range pets {
		pets[i].Status = entities.PetStatusAvailable
	}
	if err := db.Create(&pets).Error; err != nil {
		return fmt.Errorf("failed to insert sample pets: %w", err)
	}

	d.log.Info().Int("count", len(pets)).Msg("inserted sample pets")
	return nil
}
