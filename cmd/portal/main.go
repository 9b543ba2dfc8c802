package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/andescare/portal/internal/auth"
	"github.com/andescare/portal/internal/backend"
	"github.com/andescare/portal/internal/config"
	"github.com/andescare/portal/internal/dashboard"
	"github.com/andescare/portal/internal/platform/middleware"
	"github.com/andescare/portal/internal/platform/task"
	"github.com/andescare/portal/internal/session"
	"github.com/andescare/portal/internal/web"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "portal",
		Short: "Role-based patient monitoring portal",
	}

	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the portal server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	// Session store
	store, err := newSessionStore(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open session store")
	}
	defer store.Close()
	logger.Info().Str("driver", cfg.SessionStoreDriver).Str("path", cfg.SessionStorePath).Msg("session store ready")

	sessions := session.NewManager(store, logger)

	// Backend clients
	client := backend.New(cfg.APIBaseURL, backend.WithTimeout(cfg.APITimeout()))
	tasks := task.New(logger)

	mailClient := backend.NewMailClient(client)
	userClient := backend.NewUserClient(client)
	caregiverClient := backend.NewCaregiverClient(client, mailClient, tasks, logger)
	staffClient := backend.NewStaffClient(client, mailClient, tasks, logger)
	medicationClient := backend.NewMedicationClient(client)
	rangeClient := backend.NewRangeClient(client)
	noteClient := backend.NewNoteClient(client)
	gamifyClient := backend.NewGamificationClient(client)

	authSvc := auth.NewService(backend.NewAuthClient(client), gamifyClient, tasks, logger)

	// Dashboards
	registry := &dashboard.Registry{
		Admin:     dashboard.NewAdmin(userClient, caregiverClient, staffClient, medicationClient),
		Doctor:    dashboard.NewDoctor(userClient, noteClient, rangeClient),
		Caregiver: dashboard.NewCaregiver(caregiverClient, medicationClient, noteClient, rangeClient),
		Patient:   dashboard.NewPatient(medicationClient, noteClient, gamifyClient),
	}

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowHeaders:     []string{"Content-Type", "X-Request-ID"},
		AllowCredentials: true,
	}))

	handler := web.NewHandler(authSvc, sessions, web.NewRouter(registry), cfg.CookieName, logger)
	handler.RegisterRoutes(e, middleware.Throttle(middleware.DefaultLoginThrottle()))

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	tasks.Wait()
	logger.Info().Msg("server stopped")
	return nil
}

func newSessionStore(cfg *config.Config) (session.Store, error) {
	switch cfg.SessionStoreDriver {
	case "sqlite":
		return session.NewSQLiteStore(cfg.SessionStorePath)
	case "file", "":
		return session.NewFileStore(cfg.SessionStorePath), nil
	}
	return nil, fmt.Errorf("unknown session store driver %q", cfg.SessionStoreDriver)
}
