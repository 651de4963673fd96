package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/petadoption/internal/auth"
	"github.com/mrlokans/petadoption/internal/config"
	"github.com/mrlokans/petadoption/internal/shelter"
)

// AddPetCommand adds a pet to the catalogue on behalf of an administrator.
type AddPetCommand struct {
	DatabasePath  string
	ImagesDir     string
	AdminUser     string
	AdminPassword string
	Pet           shelter.PetInput
	Verbose       bool

	Out io.Writer
}

func NewAddPetCommand() *AddPetCommand {
	return &AddPetCommand{Out: os.Stdout}
}

func (cmd *AddPetCommand) ParseFlags(args []string) error {
	cfg := config.NewConfig()
	fs := flag.NewFlagSet("add-pet", flag.ContinueOnError)

	fs.StringVar(&cmd.DatabasePath, "db", cfg.Database.Path, "Path to the database file")
	fs.StringVar(&cmd.ImagesDir, "images", cfg.Images.Dir, "Directory imported images are copied into")
	fs.StringVar(&cmd.AdminUser, "admin-user", cfg.Seed.AdminUsername, "Administrator username")
	fs.StringVar(&cmd.AdminPassword, "admin-password", "", "Administrator password (required)")

	fs.StringVar(&cmd.Pet.Name, "name", "", "Pet name (required)")
	fs.StringVar(&cmd.Pet.Species, "species", "", "Dog, Cat, Bird, Rabbit or Other (required)")
	fs.StringVar(&cmd.Pet.Breed, "breed", "", "Breed (defaults to Mixed)")
	fs.StringVar(&cmd.Pet.Age, "age", "", "Age in whole years (required)")
	fs.StringVar(&cmd.Pet.Gender, "gender", "", "Male or Female (required)")
	fs.StringVar(&cmd.Pet.Size, "size", "", "Small, Medium or Large (required)")
	fs.StringVar(&cmd.Pet.Color, "color", "", "Color (defaults to N/A)")
	fs.StringVar(&cmd.Pet.Description, "description", "", "Description (required)")
	fs.StringVar(&cmd.Pet.ImageSource, "image", "", "Image URL or local file to import")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Enable verbose logging")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s add-pet -admin-password <password> -name <name> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Add a pet to the catalogue. The credentials must belong to an administrator.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExample:\n")
		fmt.Fprintf(os.Stderr, "  %s add-pet -admin-password secret -name Rex -species Dog -age 2 \\\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "    -gender Male -size Medium -description \"A good boy\" -image ./rex.jpg\n")
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.AdminPassword == "" {
		return fmt.Errorf("required flag -admin-password not provided")
	}
	if cmd.ImagesDir == "" {
		return errEmptyImagesDir
	}

	return nil
}

func (cmd *AddPetCommand) Run() error {
	s, err := openStack(cmd.DatabasePath, cmd.Verbose)
	if err != nil {
		return err
	}
	defer s.Close()

	svc, err := s.shelterService(cmd.ImagesDir)
	if err != nil {
		return err
	}

	ctx := context.Background()

	user, err := s.auth.Authenticate(ctx, cmd.AdminUser, cmd.AdminPassword)
	if err != nil {
		return err
	}

	// The operator runs on the host, so -image may name a local file.
	in := cmd.Pet
	in.AllowLocalImage = true

	pet, err := svc.AddPet(ctx, auth.NewSession(user), in)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.Out, "Added pet #%d %s (%s, %s)\n", pet.ID, pet.Name, pet.Species, pet.Breed)
	if pet.ImageURL != "" {
		fmt.Fprintf(cmd.Out, "Image: %s\n", pet.ImageURL)
	}
	return nil
}
