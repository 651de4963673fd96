package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/petadoption/internal/config"
)

// StatsCommand prints the dashboard counts.
type StatsCommand struct {
	DatabasePath string
	Verbose      bool

	Out io.Writer
}

func NewStatsCommand() *StatsCommand {
	return &StatsCommand{Out: os.Stdout}
}

func (cmd *StatsCommand) ParseFlags(args []string) error {
	cfg := config.NewConfig()
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)

	fs.StringVar(&cmd.DatabasePath, "db", cfg.Database.Path, "Path to the database file")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Enable verbose logging")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s stats [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Print pet and adoption counts.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *StatsCommand) Run() error {
	s, err := openStack(cmd.DatabasePath, cmd.Verbose)
	if err != nil {
		return err
	}
	defer s.Close()

	stats, err := s.adoptions.Stats(context.Background())
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.Out, "Dashboard")
	fmt.Fprintln(cmd.Out, "=========")
	fmt.Fprintf(cmd.Out, "Total pets:      %d\n", stats.TotalPets)
	fmt.Fprintf(cmd.Out, "Available pets:  %d\n", stats.AvailablePets)
	fmt.Fprintf(cmd.Out, "Adopted pets:    %d\n", stats.AdoptedPets)
	fmt.Fprintf(cmd.Out, "Total adoptions: %d\n", stats.TotalAdoptions)
	return nil
}
