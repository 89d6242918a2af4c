package cmd

import (
	"context"
	"database/sql"
	"log"

	stubPostgres "github.com/frahmantamala/hr-portal/internal/directory/stub/postgres"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
)

var (
	migrateCmd = &cobra.Command{
		RunE:  runMigration,
		Use:   "migrate",
		Short: "to run the stub directory migration files under db/migrations directory",
	}
	migrateRollback bool
	migrateDir      string
)

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "to rollback the latest version of sql migration")
	migrateCmd.PersistentFlags().StringVarP(&migrateDir, "dir", "d", "db/migrations", "sql migrations directory")
}

func runMigration(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	cfg, logger, err := bootstrap()
	if err != nil {
		log.Fatal(err)
	}

	var db *sql.DB
	if cfg.Stub.Database.Driver == "postgres" {
		db, err = goose.OpenDBWithDriver("pgx", cfg.Stub.Database.Source)
		if err != nil {
			log.Fatalf("goose: failed to open DB: %v\n", err)
		}
	} else {
		gormDB, err := stubPostgres.Open(ctx, cfg.Stub.Database, logger)
		if err != nil {
			log.Fatalf("goose: failed to open DB: %v\n", err)
		}
		if db, err = gormDB.DB(); err != nil {
			log.Fatalf("goose: failed to access DB: %v\n", err)
		}
		if err := goose.SetDialect("sqlite3"); err != nil {
			log.Fatalf("goose: %v", err)
		}
	}
	defer db.Close()
	goose.SetTableName("schema_migrations")

	command := "up"
	if migrateRollback {
		command = "down"
	}
	if err := goose.RunContext(ctx, command, db, migrateDir); err != nil {
		log.Fatalf("goose %s: %v", command, err)
	}

	return nil
}
