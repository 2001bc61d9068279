package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/deppfellow/gearguardian/internal/database"
	"github.com/deppfellow/gearguardian/internal/handler"
	"github.com/deppfellow/gearguardian/internal/lib/job"
	"github.com/deppfellow/gearguardian/internal/middleware"
	"github.com/deppfellow/gearguardian/internal/repository"
	"github.com/deppfellow/gearguardian/internal/router"
	"github.com/deppfellow/gearguardian/internal/server"
	"github.com/deppfellow/gearguardian/internal/service"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, the job worker and the scheduler",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Local databases are migrated by hand.
	if cfg.Primary.Env != "local" {
		if err := database.Migrate(ctx, &log, cfg.Database.DSN()); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	srv, err := server.New(cfg, &log, loggerService)
	if err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	repos := repository.NewRepositories(srv)
	services, err := service.NewService(srv, repos)
	if err != nil {
		return fmt.Errorf("could not create services: %w", err)
	}
	services.RegisterJobs()

	if cfg.Jobs.SchedulerEnabled {
		srv.Scheduler, err = job.NewScheduler(srv.Job, cfg.Jobs, &log)
		if err != nil {
			return fmt.Errorf("failed to create scheduler: %w", err)
		}
	}

	middlewares := middleware.NewMiddlewares(srv, services.Auth)
	handlers := handler.NewHandlers(srv, services)
	r := router.NewRouter(srv, handlers, middlewares)

	srv.SetupHTTPServer(r)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Start()
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	case err = <-serveErr:
		if err != nil {
			log.Error().Err(err).Msg("server stopped")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		err = errors.Join(err, shutdownErr)
	}
	if err != nil {
		return err
	}

	log.Info().Msg("server exited properly")
	return nil
}
