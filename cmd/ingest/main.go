// Command ingest is the Class Action Finder data acquisition CLI.
//
// Usage:
//
//	finder-ingest sources list
//	finder-ingest sources add --name "PACER RSS" --url https://ecf.example.gov/rss --accuracy 0.9
//	finder-ingest sources probe --id 7f1c...
//	finder-ingest sources probe --all --workers 4
//	finder-ingest dedupe --kind lawsuit --file scraped.json
//	finder-ingest digest --frequency daily
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/classactionfinder/finder-data/internal/acquisition"
	"github.com/classactionfinder/finder-data/internal/config"
	"github.com/classactionfinder/finder-data/internal/db"
	"github.com/classactionfinder/finder-data/internal/notifications"
	"github.com/classactionfinder/finder-data/internal/store"
)

var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:          "finder-ingest",
		Short:        "Class Action Finder data acquisition CLI",
		SilenceUsage: true,
	}

	root.AddCommand(sourcesCmd())
	root.AddCommand(dedupeCmd())
	root.AddCommand(digestCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// sources command
// --------------------------------------------------------------------------

func sourcesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sources",
		Short: "Manage and probe scraping data sources",
	}
	cmd.AddCommand(sourcesListCmd())
	cmd.AddCommand(sourcesAddCmd())
	cmd.AddCommand(sourcesProbeCmd())
	return cmd
}

func sourcesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print data sources ordered by priority score as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(ctx context.Context, cfg *config.Config, st *store.Store) error {
				ranked, err := acquisition.Prioritized(ctx, st)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), ranked)
			})
		},
	}
}

func sourcesAddCmd() *cobra.Command {
	var (
		src         acquisition.DataSource
		selectors   map[string]string
		dataMapping map[string]string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a data source",
		RunE: func(cmd *cobra.Command, args []string) error {
			if src.Name == "" || src.URL == "" {
				return fmt.Errorf("--name and --url are required")
			}
			src.ScrapingConfig.Selectors = selectors
			src.DataMapping = dataMapping
			return withStore(func(ctx context.Context, cfg *config.Config, st *store.Store) error {
				id, err := st.AddSource(ctx, src)
				if err != nil {
					return err
				}
				logger.Info("Data source added", "id", id, "name", src.Name,
					"priority_score", acquisition.PriorityScore(src))
				fmt.Fprintln(cmd.OutOrStdout(), id)
				return nil
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&src.Name, "name", "", "Source name")
	f.StringVar(&src.URL, "url", "", "Source URL")
	f.Float64Var(&src.Reliability.Accuracy, "accuracy", 0.5, "Accuracy in [0,1]")
	f.Float64Var(&src.Reliability.Completeness, "completeness", 0.5, "Completeness in [0,1]")
	f.Float64Var(&src.Reliability.Timeliness, "timeliness", 0.5, "Timeliness in [0,1]")
	f.IntVar(&src.ScrapingConfig.Throttling, "throttling", 0, "Max requests per minute (0 = unlimited)")
	f.IntVar(&src.ScrapingConfig.PolitenessDelay, "politeness-delay", 1000, "Milliseconds between requests")
	f.StringToStringVar(&selectors, "selector", nil, "CSS selector per field (field=selector), repeatable")
	f.StringToStringVar(&dataMapping, "map", nil, "Source field to entity field (from=to), repeatable")
	return cmd
}

func sourcesProbeCmd() *cobra.Command {
	var (
		id      string
		all     bool
		workers int
	)
	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Fetch sources and record each attempt in their success history",
		RunE: func(cmd *cobra.Command, args []string) error {
			if (id == "") == !all {
				return fmt.Errorf("exactly one of --id or --all is required")
			}
			return withStore(func(ctx context.Context, cfg *config.Config, st *store.Store) error {
				fetcher := acquisition.NewFetcher(cfg.ScrapeUserAgent, logger)
				if all {
					result := acquisition.ProbeAll(ctx, st, fetcher, workers, logger)
					if len(result.Errors) > 0 {
						return fmt.Errorf("probe run: %s", result.Summary())
					}
					return nil
				}

				page, err := acquisition.Probe(ctx, st, fetcher, id, logger)
				if err != nil {
					return err
				}
				logger.Info("Probe succeeded", "source_id", id,
					"status", page.Status, "bytes", len(page.Body),
					"duration", page.Duration.Round(time.Millisecond))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "Data source ID to probe")
	cmd.Flags().BoolVar(&all, "all", false, "Probe every source")
	cmd.Flags().IntVar(&workers, "workers", 2, "Concurrent worker count (one host per worker)")
	return cmd
}

// --------------------------------------------------------------------------
// dedupe command
// --------------------------------------------------------------------------

func dedupeCmd() *cobra.Command {
	var kind, file string
	cmd := &cobra.Command{
		Use:   "dedupe",
		Short: "Deduplicate a JSON array of scraped entities (stdin or --file)",
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := acquisition.ParseEntityKind(kind)
			if err != nil {
				return err
			}

			in := cmd.InOrStdin()
			if file != "" && file != "-" {
				fh, err := os.Open(file)
				if err != nil {
					return fmt.Errorf("open input: %w", err)
				}
				defer fh.Close()
				in = fh
			}

			var entities []acquisition.RawEntity
			if err := json.NewDecoder(in).Decode(&entities); err != nil {
				return fmt.Errorf("decode entities: %w", err)
			}

			kept, stats := acquisition.DeduplicateWithStats(entities, k)
			if stats.Degenerate > 0 {
				logger.Warn("Entities without identity collapsed to one record",
					"kind", k, "degenerate", stats.Degenerate)
			}
			logger.Info("Deduplication complete", "kind", k,
				"input", stats.Input, "kept", stats.Kept, "dropped", stats.Dropped)
			return writeJSON(cmd.OutOrStdout(), kept)
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "Entity kind (lawsuit, defendant)")
	cmd.Flags().StringVar(&file, "file", "", "Input file; empty or - reads stdin")
	_ = cmd.MarkFlagRequired("kind")
	return cmd
}

// --------------------------------------------------------------------------
// digest command
// --------------------------------------------------------------------------

func digestCmd() *cobra.Command {
	var frequency, userID string
	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Fold unread notifications into digest summaries",
		RunE: func(cmd *cobra.Command, args []string) error {
			freq, err := notifications.ParseFrequency(frequency)
			if err != nil {
				return err
			}
			if freq == notifications.FrequencyImmediate {
				return fmt.Errorf("--frequency must be daily or weekly")
			}
			return withStore(func(ctx context.Context, cfg *config.Config, st *store.Store) error {
				svc := notifications.NewService(st, cfg.Location(), logger)
				start := time.Now()

				if userID != "" {
					n, err := svc.Digest(ctx, userID, freq)
					if err != nil {
						return err
					}
					logger.Info("Digest finished", "user_id", userID, "summaries", n)
					return nil
				}

				users, summaries, err := svc.DigestSweep(ctx, freq)
				if err != nil {
					return err
				}
				logger.Info("Digest sweep finished", "frequency", freq,
					"users", users, "summaries", summaries,
					"duration", time.Since(start).Round(time.Millisecond))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&frequency, "frequency", "daily", "Digest frequency (daily, weekly)")
	cmd.Flags().StringVar(&userID, "user", "", "Digest a single user instead of everyone on the frequency")
	return cmd
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

// withStore handles config loading, DB connection, and context cancellation.
func withStore(fn func(ctx context.Context, cfg *config.Config, st *store.Store) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	pool, err := db.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	return fn(ctx, cfg, store.New(pool.Pool))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
