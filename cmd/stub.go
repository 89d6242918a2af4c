package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/frahmantamala/hr-portal/internal/directory/stub"
	stubPostgres "github.com/frahmantamala/hr-portal/internal/directory/stub/postgres"
	"github.com/frahmantamala/hr-portal/internal/transport"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/spf13/cobra"
)

var stubAutoMigrate bool

var stubCmd = &cobra.Command{
	Use:   "stub",
	Short: "Start the stub directory",
	Long:  `Start a development directory backend that serves employees, hierarchy and departments from a local database`,
	Run: func(cmd *cobra.Command, args []string) {
		startStubDirectory()
	},
}

func startStubDirectory() {
	cfg, logger, err := bootstrap()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger = logger.With("component", "stub_directory")

	db, err := stubPostgres.Open(context.Background(), cfg.Stub.Database, logger)
	if err != nil {
		logger.Error("failed to open stub database", "error", err)
		os.Exit(1)
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Error("failed to access stub database handle", "error", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	if stubAutoMigrate {
		if err := stubPostgres.AutoMigrate(db); err != nil {
			logger.Error("failed to migrate stub database", "error", err)
			os.Exit(1)
		}
	}

	repo, err := stubPostgres.NewDirectoryRepository(db)
	if err != nil {
		logger.Error("failed to create stub repository", "error", err)
		os.Exit(1)
	}
	handler := stub.NewHandler(transport.NewBaseHandler(logger), stub.NewService(repo, logger))

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	handler.Routes(router)

	addr := fmt.Sprintf(":%d", cfg.Stub.Port)
	logger.Info("Starting stub directory", "address", addr, "driver", cfg.Stub.Database.Driver)

	serve(&http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}, logger, nil)
}

func init() {
	stubCmd.Flags().BoolVar(&stubAutoMigrate, "auto-migrate", true, "create missing stub tables from the data models on startup")
}
