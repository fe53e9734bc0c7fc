package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/vietddude/sentinel/internal/core/config"
	"github.com/vietddude/sentinel/internal/infra/storage/postgres"
)

var incidentsLimit int

var incidentsCmd = &cobra.Command{
	Use:   "incidents",
	Short: "Show recently archived incidents from the database",
	Run:   runIncidents,
}

func init() {
	incidentsCmd.Flags().IntVar(&incidentsLimit, "limit", 20, "maximum incidents to show")
	rootCmd.AddCommand(incidentsCmd)
}

func runIncidents(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	if cfg.Database.URL == "" {
		slog.Error("No database configured, incident archive unavailable")
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := postgres.NewDB(ctx, cfg.Database)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = db.Close()
	}()

	incidents, err := postgres.NewArchiveRepo(db).RecentIncidents(ctx, incidentsLimit)
	if err != nil {
		slog.Error("Failed to query incident archive", "error", err)
		os.Exit(1)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.Debug)
	_, _ = fmt.Fprintln(w, "ID\tTARGET\tSEVERITY\tSTATUS\tCREATED\tRESOLVED")

	for _, inc := range incidents {
		resolved := "-"
		if inc.ResolvedAt != nil {
			resolved = inc.ResolvedAt.Format(time.RFC3339)
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			inc.ID,
			inc.TargetID,
			inc.Severity,
			inc.Status,
			inc.CreatedAt.Format(time.RFC3339),
			resolved,
		)
	}
	_ = w.Flush()
}
