// Command seed migrates the database and loads the demo dataset so the API
// is usable straight away. Running it against a populated database does
// nothing.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/dkravets/tenantnotes/internal/logging"
	"github.com/dkravets/tenantnotes/internal/server/config"
	"github.com/dkravets/tenantnotes/internal/server/repositories/repomanager"
	"github.com/dkravets/tenantnotes/internal/server/seed"
)

func main() {

	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	db, err := repomanager.OpenDB(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	defer db.Close()

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		log.Fatalf("migration error: %v", err)
	}

	if err := seed.Run(ctx, db, rm, logger); err != nil {
		log.Fatalf("seed error: %v", err)
	}
}
