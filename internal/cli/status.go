package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/vietddude/sentinel/internal/core/config"
	"github.com/vietddude/sentinel/internal/core/domain"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current health of all monitored targets",
	Run:   runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(fmt.Sprintf("http://localhost:%d/health", cfg.Server.Port))
	if err != nil {
		slog.Error("Failed to reach status API", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	var payload struct {
		Status  domain.HealthStatus                     `json:"status"`
		Targets map[domain.TargetID]domain.HealthRecord `json:"targets"`
		Counts  map[domain.HealthStatus]int             `json:"counts"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		slog.Error("Failed to decode status response", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Overall: %s\n\n", payload.Status)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.Debug)
	_, _ = fmt.Fprintln(w, "TARGET\tSTATUS\tFAILURES\tLAST CHECKED")

	for id, rec := range payload.Targets {
		checked := "never"
		if !rec.LastCheckedAt.IsZero() {
			checked = rec.LastCheckedAt.Format(time.RFC3339)
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", id, rec.Status, rec.ConsecutiveFailures, checked)
	}
	_ = w.Flush()
}
