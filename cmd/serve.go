package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/saleshq/calapi/internal/auth"
	"github.com/saleshq/calapi/internal/db/bunx"
	"github.com/saleshq/calapi/internal/middleware"
	"github.com/saleshq/calapi/internal/policy"
	"github.com/saleshq/calapi/internal/repository"
	"github.com/saleshq/calapi/internal/server"
	"github.com/saleshq/calapi/internal/services/company"
	"github.com/saleshq/calapi/internal/services/event"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the calapi server",
	Long:  `Starts the HTTP server with the calendar-event REST endpoints.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger(cfg.Debug)
		if err != nil {
			return fmt.Errorf("failed to build logger: %w", err)
		}
		defer func() { _ = logger.Sync() }()

		// Connect to database
		db, err := bunx.NewDB(cfg.DatabaseURL, cfg.MaxDBConnections)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer bunx.Close(db)

		logger.Info("connected to database")

		eventRepo := repository.NewBunEventRepository(db)
		companyRepo := repository.NewBunCompanyRepository(db)

		verifier, err := auth.NewJWTVerifier(cfg.Auth)
		if err != nil {
			return fmt.Errorf("failed to configure token verifier: %w", err)
		}

		routes := policy.EventRoutes()
		enforcer, err := policy.NewEnforcer(routes)
		if err != nil {
			return fmt.Errorf("failed to build policy enforcer: %w", err)
		}

		directory := company.NewDirectory(companyRepo, cfg.CompanyCache.Size, cfg.CompanyCache.TTL)

		pipeline, err := middleware.NewPipeline(middleware.Dependencies{
			Verifier:      verifier,
			Directory:     directory,
			Events:        eventRepo,
			Enforcer:      enforcer,
			VerifyTimeout: cfg.Auth.VerifyTimeout,
			Logger:        logger,
		})
		if err != nil {
			return fmt.Errorf("failed to compose pipeline: %w", err)
		}

		validator, err := server.NewBodyValidator()
		if err != nil {
			return fmt.Errorf("failed to compile body schemas: %w", err)
		}

		r, err := server.NewRouter(server.RouterOptions{
			Pipeline:  pipeline,
			Events:    event.NewService(eventRepo),
			Policies:  routes,
			Validator: validator,
			Logger:    logger,
		})
		if err != nil {
			return fmt.Errorf("failed to assemble router: %w", err)
		}

		srv := &http.Server{
			Addr:         cfg.ServerAddr,
			Handler:      r,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("starting server", zap.String("addr", cfg.ServerAddr))
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)

		case sig := <-shutdown:
			logger.Info("shutting down", zap.String("signal", sig.String()))

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				srv.Close()
				return fmt.Errorf("graceful shutdown failed: %w", err)
			}

			logger.Info("server stopped")
			return nil
		}
	},
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
