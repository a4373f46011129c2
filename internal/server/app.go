// Package server wires the gacha account service together: storage backend,
// account and economy services, the session façade, the gRPC transport and
// the metrics endpoint. It also handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/gachaserver/internal/logging"
	"github.com/dmitrijs2005/gachaserver/internal/server/auth"
	"github.com/dmitrijs2005/gachaserver/internal/server/config"
	"github.com/dmitrijs2005/gachaserver/internal/server/metrics"
	"github.com/dmitrijs2005/gachaserver/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/gachaserver/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gachaserver/internal/server/services"
	"github.com/dmitrijs2005/gachaserver/internal/timex"
	"github.com/prometheus/client_golang/prometheus"

	gs "github.com/dmitrijs2005/gachaserver/internal/server/grpc"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	registry *prometheus.Registry
	sessions *services.SessionService
}

// openPostgres is a seam for tests that cannot reach a database.
var openPostgres = func(ctx context.Context, dsn string) (*sql.DB, error) {
	return repomanager.Open(ctx, dsn)
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	app := &App{config: c, logger: logger, registry: metrics.NewRegistry()}

	clock := timex.SystemClock{}
	repo, err := app.openStorage(ctx, clock)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	hasher := auth.NewPasswordHasher(c.HashIterations, c.HashKeyLength, c.SaltSize)
	tokens := auth.NewTokenIssuer(c.AccessTokenSecret, c.RefreshTokenSecret,
		c.AccessTokenValidityDuration, c.RefreshTokenValidityDuration)

	app.sessions = services.NewSessionService(
		services.NewAccountService(repo, hasher, clock, c, logger),
		services.NewEconomyService(repo, clock, c, logger),
		tokens,
		clock,
		c,
		metrics.NewMetrics(app.registry),
		logger,
	)

	if !c.VerifyAccessTokens {
		logger.Warn(ctx, "access tokens are decoded without signature checks")
	}
	return app, nil
}

func (app *App) openStorage(ctx context.Context, clock timex.Clock) (accounts.Repository, error) {
	switch app.config.Storage {
	case config.StorageMemory:
		app.logger.Info(ctx, "Using in-memory storage")
		return accounts.NewMemoryRepository(clock), nil
	case config.StoragePostgres:
		db, err := openPostgres(ctx, app.config.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		m := repomanager.NewPostgresRepositoryManager()
		if err := m.RunMigrations(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrations error: %w", err)
		}
		app.db = db
		app.logger.Info(ctx, "Using PostgreSQL storage")
		return m.Accounts(db), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", app.config.Storage)
	}
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) error {
	s := gs.NewServer(app.config.EndpointAddrGRPC, app.sessions, app.logger)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return err
	}
	return nil
}

// Run serves until ctx is cancelled or a SIGINT/SIGTERM/SIGQUIT arrives.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(ctx, cancelFunc)

	var metricsServer *metrics.Server
	if app.config.MetricsAddr != "" {
		metricsServer = metrics.NewServer(app.config.MetricsAddr, app.registry, app.logger)
		if _, err := metricsServer.Start(ctx); err != nil {
			if app.db != nil {
				_ = app.db.Close()
			}
			return err
		}
	}

	var (
		wg      sync.WaitGroup
		grpcErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		grpcErr = app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	errs = append(errs, grpcErr)
	if metricsServer != nil {
		errs = append(errs, metricsServer.Stop(shutdownCtx))
	}
	if app.db != nil {
		errs = append(errs, app.db.Close())
	}

	app.logger.Info(shutdownCtx, "App stopped")
	return errors.Join(errs...)
}
