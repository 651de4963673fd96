package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/mrlokans/petadoption/internal/cli"
	"github.com/mrlokans/petadoption/internal/config"
	"github.com/mrlokans/petadoption/internal/entrypoint"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

type command interface {
	ParseFlags(args []string) error
	Run() error
}

func main() {
	// If no arguments or "serve" command, run the HTTP server
	if len(os.Args) < 2 || os.Args[1] == "serve" {
		cfg := config.NewConfig()
		entrypoint.Run(cfg, Version)
		return
	}

	name := os.Args[1]
	args := os.Args[2:]

	var cmd command
	switch name {
	case "list-pets":
		cmd = cli.NewListPetsCommand()
	case "add-pet":
		cmd = cli.NewAddPetCommand()
	case "stats":
		cmd = cli.NewStatsCommand()
	case "create-admin":
		cmd = cli.NewCreateAdminCommand()
	case "audit-prune":
		cmd = cli.NewAuditPruneCommand()

	case "version":
		fmt.Printf("%s (%s)\n", Version, Commit)
		return

	case "-h", "--help", "help":
		printUsage()
		return

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", name)
		printUsage()
		os.Exit(1)
	}

	if err := cmd.ParseFlags(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if err := cmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [options]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  serve         Start the HTTP server (default if no command given)\n")
	fmt.Fprintf(os.Stderr, "  list-pets     Print adoptable pets (-all for the whole catalogue)\n")
	fmt.Fprintf(os.Stderr, "  add-pet       Add a pet using administrator credentials\n")
	fmt.Fprintf(os.Stderr, "  stats         Print pet and adoption counts\n")
	fmt.Fprintf(os.Stderr, "  create-admin  Register an administrator account\n")
	fmt.Fprintf(os.Stderr, "  audit-prune   Delete audit events past the retention period\n")
	fmt.Fprintf(os.Stderr, "  version       Print the build version\n")
	fmt.Fprintf(os.Stderr, "\nUse '%s <command> -h' for help on a specific command.\n", os.Args[0])
}
