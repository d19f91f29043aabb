package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/vietddude/occload/internal/deadletter"
	redisclient "github.com/vietddude/occload/internal/infra/redis"
	"github.com/vietddude/occload/internal/infra/storage/postgres"
)

var deadLetterSince time.Duration

var deadLettersCmd = &cobra.Command{
	Use:   "deadletters",
	Short: "List dead-lettered tasks recorded in a time window",
	Run:   runDeadLetters,
}

func init() {
	deadLettersCmd.Flags().DurationVar(&deadLetterSince, "since", 24*time.Hour,
		"how far back to query")
	rootCmd.AddCommand(deadLettersCmd)
}

func runDeadLetters(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	ctx := context.Background()
	var sink deadletter.Sink

	switch cfg.DeadLetter.Backend {
	case "redis":
		client, err := redisclient.NewClient(cfg.Redis)
		if err != nil {
			slog.Error("Failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer func() {
			_ = client.Close()
		}()
		sink = redisclient.NewDeadLetterRepo(client, cfg.Target.Table)
	case "postgres":
		db, err := postgres.NewDB(ctx, cfg.Database)
		if err != nil {
			slog.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer func() {
			_ = db.Close()
		}()
		sink = postgres.NewDeadLetterRepo(db)
	default:
		slog.Error("Dead letters are not persisted with the memory backend")
		os.Exit(1)
	}

	now := time.Now()
	records, err := sink.QueryRange(ctx, now.Add(-deadLetterSince), now)
	if err != nil {
		slog.Error("Failed to query dead letters", "error", err)
		os.Exit(1)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.Debug)
	_, _ = fmt.Fprintln(w, "RECORDED\tTASK\tTABLE\tROWS\tATTEMPTS\tCLASS\tCODE\tERROR")
	for _, rec := range records {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\t%s\t%s\n",
			rec.RecordedAt.Format(time.RFC3339),
			rec.TaskID,
			rec.Table,
			rec.RowCount,
			rec.Attempts,
			rec.Classification,
			rec.Code,
			rec.Error,
		)
	}
	_ = w.Flush()
}
