package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"quiz-arena/internal/app"
	"quiz-arena/internal/config"
	"quiz-arena/internal/infra/memory"
	pgstore "quiz-arena/internal/infra/postgres"
	redisstore "quiz-arena/internal/infra/redis"
	transport "quiz-arena/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz arena server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	questionTTL := config.TTLDuration(cfg.Questions.TTL, 10*time.Minute)

	// The catalog backs the management endpoints directly; the game core
	// reads through a cache in front of it.
	var catalog transport.QuestionCatalog
	var store app.QuestionStore
	if pool != nil {
		pg := pgstore.NewQuestionStore(pool)
		catalog = pg
		if redisClient != nil {
			store = redisstore.NewQuestionStore(redisClient, pg, questionTTL)
		} else {
			store = memory.NewCachedQuestionStore(pg, questionTTL)
		}
	} else {
		static := memory.NewStaticQuestionStore(memory.DemoQuestions())
		catalog = static
		store = static
	}

	rooms := app.NewRegistry(store, logger)
	rooms.SetQuestionsPerGame(cfg.Game.RoomQuestions)
	speed := app.NewSpeedGame(store, logger)
	speed.SetQuestionsPerGame(cfg.Game.SpeedQuestions)
	api := transport.NewAPI(rooms, speed, catalog, logger)
	wsHandler := transport.NewWSHandler(rooms, logger)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      transport.NewRouter(api, wsHandler),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("starting quiz arena", "port", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("failed to start server", "error", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Info("shutting down server")
	case <-ctx.Done():
		logger.Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
