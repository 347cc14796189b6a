package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/spf13/cobra"

	"quiz-arena/internal/config"
	"quiz-arena/internal/infra/memory"
	pgstore "quiz-arena/internal/infra/postgres"
)

// NewSeedCmd loads the demo question catalog into Postgres. Skips seeding
// when the table already has rows.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed the database with demo questions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), *configPath)
		},
	}
}

func runSeed(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}

	if err := runMigrationsWithConfig(ctx, cfg); err != nil {
		return err
	}

	pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	store := pgstore.NewQuestionStore(pool)
	count, err := store.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		logger.Info("questions already seeded, skipping", "rows", count)
		return nil
	}

	seeds := memory.DemoQuestions()
	for _, q := range seeds {
		if _, err := store.Create(ctx, q); err != nil {
			return fmt.Errorf("seed question %q: %w", q.Stem, err)
		}
	}
	logger.Info("seeded demo questions", "count", len(seeds))
	return nil
}
