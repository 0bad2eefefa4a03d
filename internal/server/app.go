// Package server wires the colorcheck server together: it opens the store,
// bootstraps the admin account, and runs the HTTP API and the gRPC health
// endpoint until the process is told to stop.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/colorcheck/internal/logging"
	"github.com/dmitrijs2005/colorcheck/internal/server/cache"
	"github.com/dmitrijs2005/colorcheck/internal/server/config"
	"github.com/dmitrijs2005/colorcheck/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/colorcheck/internal/server/rest"
	"github.com/dmitrijs2005/colorcheck/internal/server/services"
	"github.com/gin-gonic/gin"

	gs "github.com/dmitrijs2005/colorcheck/internal/server/grpc"
)

const healthInterval = 10 * time.Second

type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *sql.DB
	closers    []io.Closer
	httpServer *rest.HTTPServer
	grpcServer *gs.GRPCServer
}

// NewApp opens the store, applies migrations and makes sure the admin
// account exists. Output goes to stdout as JSON.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	return newApp(ctx, c, logging.NewJSONLogger(os.Stdout, slog.LevelInfo))
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	gin.SetMode(gin.ReleaseMode)

	db, rm, err := repomanager.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	app := &App{config: c, logger: logger, db: db, closers: []io.Closer{db}}

	var tc cache.TokenCache = cache.Nop{}
	if c.RedisAddr != "" {
		client, err := cache.Connect(ctx, c.RedisAddr)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("token cache init error: %w", err)
		}
		app.closers = append(app.closers, client)
		tc = cache.NewRedisCache(client, c.TokenCacheTTL)
	}

	us := services.NewUserService(db, rm, logger)
	if _, err := us.EnsureAdmin(ctx, c.AdminPassword); err != nil {
		app.Close()
		return nil, fmt.Errorf("admin bootstrap error: %w", err)
	}

	as := services.NewAuthService(db, rm, tc, logger)
	cs := services.NewCheckService(db, rm, logger)

	app.httpServer = rest.NewHTTPServer(c, logger, as, cs, us)
	if c.EndpointAddrGRPC != "" {
		app.grpcServer = gs.NewGRPCServer(c.EndpointAddrGRPC, logger, db, healthInterval)
	}

	return app, nil
}

// Close releases the database and the cache connection.
func (app *App) Close() {
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i].Close(); err != nil {
			app.logger.Warn(context.Background(), "close failed", "error", err)
		}
	}
	app.closers = nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

type runner interface {
	Run(ctx context.Context) error
}

func (app *App) start(ctx context.Context, cancelFunc context.CancelFunc, wg *sync.WaitGroup, name string, r runner) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := r.Run(ctx); err != nil {
			app.logger.Error(ctx, name+" server failed", "error", err)
			cancelFunc()
		}
	}()
}

// Run serves until ctx is cancelled, a signal arrives or a server fails,
// then closes the store.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	app.start(ctx, cancelFunc, &wg, "HTTP", app.httpServer)
	if app.grpcServer != nil {
		app.start(ctx, cancelFunc, &wg, "gRPC", app.grpcServer)
	}

	wg.Wait()
	app.Close()

	app.logger.Info(context.Background(), "App stopped")
}
