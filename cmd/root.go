package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"securestock/internal/config"
	"securestock/internal/core/container"
	"securestock/internal/core/logger"
	"securestock/internal/core/routes"
	"securestock/internal/database"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

var envFile string

var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(envFile)
		if err != nil {
			return err
		}

		log := logger.Must(logger.NewLogger(cfg.Server.IsDevelopment()))
		defer func() { _ = log.Sync() }()

		return serve(cmd.Context(), cfg, log)
	},
}

var MigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run migrations manually.",
	Long:  `Applies every pending migration and exits. serve does the same on start unless RUN_MIGRATIONS=false.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(envFile)
		if err != nil {
			return err
		}

		log := logger.Must(logger.NewLogger(cfg.Server.IsDevelopment()))
		defer func() { _ = log.Sync() }()

		dir, _ := cmd.Flags().GetString("dir")
		if dir == "" {
			dir = cfg.Database.MigrationsDir
		}

		if err := database.RunMigrations(cfg.Database.URL, dir, log.Named("migrate")); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
		return nil
	},
}

func serve(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Database.RunMigrations {
		if err := database.RunMigrations(cfg.Database.URL, cfg.Database.MigrationsDir, log.Named("migrate")); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
	}

	db, err := database.NewPostgresConnection(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer db.Close()
	log.Info("connected to the database")

	app, err := container.NewAppContainer(ctx, cfg, db, log)
	if err != nil {
		return err
	}

	created, err := app.Users.Bootstrap(ctx, cfg.Auth.BootstrapEmail, cfg.Auth.BootstrapPassword)
	if err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	if created {
		log.Info("bootstrap super_admin created", zap.String("email", cfg.Auth.BootstrapEmail))
	}

	router, err := routes.NewRouter(app)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              cfg.Server.Host,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	app.Scheduler.Start()

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", zap.String("addr", cfg.Server.Host))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		log.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	app.Close(shutdownCtx)
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}

func Execute(ctx context.Context) {
	rootCmd := &cobra.Command{
		Use:   "securestock",
		Short: "Equipment inventory service",
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Path to a .env file (defaults to ./.env when present)")
	MigrateCmd.Flags().String("dir", "", "Directory containing the migration files (defaults to MIGRATIONS_DIR)")
	rootCmd.AddCommand(ServeCmd, MigrateCmd)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
