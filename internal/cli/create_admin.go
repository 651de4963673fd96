package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/petadoption/internal/auth"
	"github.com/mrlokans/petadoption/internal/config"
)

// CreateAdminCommand registers an additional administrator account.
type CreateAdminCommand struct {
	DatabasePath string
	User         auth.RegisterInput
	Verbose      bool

	Out io.Writer
}

func NewCreateAdminCommand() *CreateAdminCommand {
	return &CreateAdminCommand{Out: os.Stdout}
}

func (cmd *CreateAdminCommand) ParseFlags(args []string) error {
	cfg := config.NewConfig()
	fs := flag.NewFlagSet("create-admin", flag.ContinueOnError)

	fs.StringVar(&cmd.DatabasePath, "db", cfg.Database.Path, "Path to the database file")
	fs.StringVar(&cmd.User.Username, "username", "", "Administrator username (required)")
	fs.StringVar(&cmd.User.Password, "password", "", "Administrator password (required)")
	fs.StringVar(&cmd.User.Email, "email", "", "Administrator email (required)")
	fs.StringVar(&cmd.User.FullName, "full-name", "System Administrator", "Full name")
	fs.StringVar(&cmd.User.PhoneNumber, "phone", "0000000000", "Phone number")
	fs.StringVar(&cmd.User.Address, "address", "Admin Office", "Postal address")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Enable verbose logging")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s create-admin -username <name> -password <password> -email <email> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Register an administrator account.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	required := []struct{ name, value string }{
		{"username", cmd.User.Username},
		{"password", cmd.User.Password},
		{"email", cmd.User.Email},
	}
	for _, f := range required {
		if f.value == "" {
			return fmt.Errorf("required flag -%s not provided", f.name)
		}
	}

	return nil
}

func (cmd *CreateAdminCommand) Run() error {
	s, err := openStack(cmd.DatabasePath, cmd.Verbose)
	if err != nil {
		return err
	}
	defer s.Close()

	user, err := s.auth.RegisterAdmin(context.Background(), cmd.User)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.Out, "Created administrator %q (id %d)\n", user.Username, user.ID)
	return nil
}
