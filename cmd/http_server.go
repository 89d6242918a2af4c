package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/hr-portal/api"
	"github.com/frahmantamala/hr-portal/internal"
	"github.com/frahmantamala/hr-portal/internal/approval"
	"github.com/frahmantamala/hr-portal/internal/core/events"
	"github.com/frahmantamala/hr-portal/internal/department"
	"github.com/frahmantamala/hr-portal/internal/directory"
	"github.com/frahmantamala/hr-portal/internal/hierarchy"
	"github.com/frahmantamala/hr-portal/internal/transport"
	"github.com/frahmantamala/hr-portal/internal/transport/rest"
	"github.com/go-chi/chi"
	"github.com/spf13/cobra"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the backend-for-frontend serving the hierarchy tree, departments and approvals`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config    *internal.Config
	Directory *directory.Client
	EventBus  *events.EventBus
	Router    *chi.Mux
	Logger    *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	setupRoutes(deps)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr, "directory", deps.Config.Directory.BaseURL)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	serve(server, deps.Logger, func(ctx context.Context) {
		if err := deps.EventBus.Wait(ctx); err != nil {
			deps.Logger.Warn("event handlers still running at shutdown", "error", err)
		}
	})
}

// serve runs server until SIGINT/SIGTERM, then shuts it down and calls drain.
func serve(server *http.Server, logger *slog.Logger, drain func(ctx context.Context)) {
	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		if drain != nil {
			drain(ctx)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	logger.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) {
	base := transport.NewBaseHandler(deps.Logger)

	service := hierarchy.NewService(deps.Directory, deps.EventBus, deps.Logger, deps.Config.Hierarchy.MaxRenderDepth)

	rest.RegisterAllRoutes(deps.Router, deps.Config.Server.Origins(), rest.Handlers{
		Health:      rest.NewHealthHandler(deps.Directory, deps.Config.Directory.BaseURL),
		Hierarchy:   hierarchy.NewHandler(base, service),
		Departments: department.NewHandler(base, deps.Directory),
		Approvals:   approval.NewHandler(base, deps.Directory),
	}, deps.Logger)
}

func initializeDependencies() (*Dependencies, error) {
	config, logger, err := bootstrap()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if _, err := api.Load(context.Background()); err != nil {
		return nil, err
	}

	client := newDirectoryClient(config, directory.ContextToken{}, logger)

	eventBus := events.NewEventBus(logger)
	hierarchy.NewAuditHandler(logger).RegisterEventHandlers(eventBus)

	return &Dependencies{
		Config:    config,
		Directory: client,
		EventBus:  eventBus,
		Router:    chi.NewRouter(),
		Logger:    logger,
	}, nil
}
