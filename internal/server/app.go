// Package server initializes and runs the notes API server: it opens the
// database, runs migrations, wires services, starts the HTTP endpoint and
// the expired-token sweep, and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dkravets/tenantnotes/internal/logging"
	"github.com/dkravets/tenantnotes/internal/server/config"
	"github.com/dkravets/tenantnotes/internal/server/httpapi"
	"github.com/dkravets/tenantnotes/internal/server/repositories/repomanager"
	"github.com/dkravets/tenantnotes/internal/server/seed"
	"github.com/dkravets/tenantnotes/internal/server/services"
)

type App struct {
	config        *config.Config
	logger        logging.Logger
	db            *sql.DB
	authService   *services.AuthService
	noteService   *services.NoteService
	tenantService *services.TenantService
	httpServer    *httpapi.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	db, err := repomanager.OpenDB(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	as := services.NewAuthService(db, rm, cfg)
	ns := services.NewNoteService(db, rm)
	ts := services.NewTenantService(db, rm)

	if cfg.SeedOnStart {
		if err := seed.Run(ctx, db, rm, logger); err != nil {
			return nil, fmt.Errorf("seed error: %w", err)
		}
	}

	handler := httpapi.NewHandler(as, ns, ts, db, logger, cfg)
	srv := httpapi.NewServer(cfg.EndpointAddr, handler, logger)

	return &App{
		config:        cfg,
		logger:        logger,
		db:            db,
		authService:   as,
		noteService:   ns,
		tenantService: ts,
		httpServer:    srv,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// runTokenSweep periodically purges expired refresh tokens. Lookup already
// rejects expired rows, so this is garbage collection, not correctness.
func (app *App) runTokenSweep(ctx context.Context) {
	interval := app.config.TokenSweepInterval
	if interval <= 0 {
		interval = time.Hour
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := app.authService.SweepExpiredTokens(ctx)
			if err != nil {
				app.logger.Error(ctx, "token sweep failed", "error", err.Error())
				continue
			}
			if n > 0 {
				app.logger.Info(ctx, "expired refresh tokens purged", "count", n)
			}
		}
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.httpServer.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.runTokenSweep(ctx)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err.Error())
	}
}
