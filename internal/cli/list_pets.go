package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/mrlokans/petadoption/internal/config"
	"github.com/mrlokans/petadoption/internal/entities"
)

// ListPetsCommand prints the adoptable pets, or the whole catalogue with -all.
type ListPetsCommand struct {
	DatabasePath string
	All          bool
	Verbose      bool

	Out io.Writer
}

func NewListPetsCommand() *ListPetsCommand {
	return &ListPetsCommand{Out: os.Stdout}
}

func (cmd *ListPetsCommand) ParseFlags(args []string) error {
	cfg := config.NewConfig()
	fs := flag.NewFlagSet("list-pets", flag.ContinueOnError)

	fs.StringVar(&cmd.DatabasePath, "db", cfg.Database.Path, "Path to the database file")
	fs.BoolVar(&cmd.All, "all", false, "Include adopted pets")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Enable verbose logging")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s list-pets [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Print the pets that can be adopted, oldest first.\n")
		fmt.Fprintf(os.Stderr, "With -all every pet is printed, newest first.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *ListPetsCommand) Run() error {
	s, err := openStack(cmd.DatabasePath, cmd.Verbose)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := context.Background()

	var list []entities.Pet
	if cmd.All {
		list, err = s.pets.ListAll(ctx)
	} else {
		list, err = s.pets.ListAvailable(ctx)
	}
	if err != nil {
		return err
	}

	if len(list) == 0 {
		fmt.Fprintln(cmd.Out, "No pets found")
		return nil
	}

	tw := tabwriter.NewWriter(cmd.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSPECIES\tBREED\tAGE\tGENDER\tSIZE\tSTATUS")
	for _, p := range list {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
			p.ID, p.Name, p.Species, p.Breed, p.Age, p.Gender, p.Size, p.Status)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.Out, "\n%d pets\n", len(list))
	return nil
}
