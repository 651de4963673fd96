package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mrlokans/petadoption/internal/config"
)

// AuditPruneCommand deletes audit events past the retention period.
type AuditPruneCommand struct {
	DatabasePath string
	Days         int
	Verbose      bool

	Out io.Writer
}

func NewAuditPruneCommand() *AuditPruneCommand {
	return &AuditPruneCommand{Out: os.Stdout}
}

func (cmd *AuditPruneCommand) ParseFlags(args []string) error {
	cfg := config.NewConfig()
	fs := flag.NewFlagSet("audit-prune", flag.ContinueOnError)

	fs.StringVar(&cmd.DatabasePath, "db", cfg.Database.Path, "Path to the database file")
	fs.IntVar(&cmd.Days, "days", cfg.Audit.RetentionDays, "Delete events older than this many days")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Enable verbose logging")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s audit-prune [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Delete audit events older than the retention period.\n")
		fmt.Fprintf(os.Stderr, "The default comes from AUDIT_RETENTION_DAYS.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Days <= 0 {
		return fmt.Errorf("-days must be a positive number, got %d", cmd.Days)
	}

	return nil
}

func (cmd *AuditPruneCommand) Run() error {
	s, err := openStack(cmd.DatabasePath, cmd.Verbose)
	if err != nil {
		return err
	}
	defer s.Close()

	retention := time.Duration(cmd.Days) * 24 * time.Hour
	deleted, err := s.audit.DeleteOldEvents(context.Background(), retention)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.Out, "Deleted %d audit events older than %d days\n", deleted, cmd.Days)
	return nil
}
