// Package rest exposes the colorcheck operations over HTTP/JSON using gin.
package rest

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/colorcheck/internal/logging"
	"github.com/dmitrijs2005/colorcheck/internal/server/config"
	"github.com/dmitrijs2005/colorcheck/internal/server/models"
	"github.com/dmitrijs2005/colorcheck/internal/server/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 5 * time.Second

// Authenticator logs users in and resolves request tokens.
type Authenticator interface {
	Login(ctx context.Context, userName, password string) (*services.LoginResult, error)
	Resolve(ctx context.Context, raw string) (*models.User, error)
}

type CheckManager interface {
	Create(ctx context.Context, caller *models.User, in services.CreateCheckInput) (*models.ColorCheck, error)
	Request(ctx context.Context, caller *models.User, in services.RequestCheckInput) (*models.ColorCheck, error)
	List(ctx context.Context, caller *models.User) ([]*models.ColorCheck, error)
	ListRequests(ctx context.Context, caller *models.User) ([]*models.ColorCheck, error)
}

type UserManager interface {
	List(ctx context.Context, caller *models.User, includeTokens bool) ([]*models.User, error)
	Create(ctx context.Context, caller *models.User, in services.CreateUserInput) (*models.User, error)
}

type HTTPServer struct {
	address      string
	exposeTokens bool
	staticDir    string
	allowOrigins string
	logger       logging.Logger
	auth         Authenticator
	checks       CheckManager
	users        UserManager
	handler      http.Handler
}

func NewHTTPServer(cfg *config.Config, l logging.Logger, a Authenticator, cs CheckManager, us UserManager) *HTTPServer {
	s := &HTTPServer{
		address:      cfg.EndpointAddrHTTP,
		exposeTokens: cfg.ExposeUserTokens,
		staticDir:    cfg.StaticDir,
		allowOrigins: cfg.AllowOrigins,
		logger:       l.With("module", "http_server"),
		auth:         a,
		checks:       cs,
		users:        us,
	}
	s.handler = s.routes()
	return s
}

// Handler returns the routed gin engine.
func (s *HTTPServer) Handler() http.Handler {
	return s.handler
}

func (s *HTTPServer) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger(), cors.New(s.corsConfig()))

	r.GET("/", s.index)
	r.GET("/colors", s.colors)
	r.POST("/login", s.login)

	if s.staticDir != "" {
		if fi, err := os.Stat(s.staticDir); err == nil && fi.IsDir() {
			r.Static("/static", s.staticDir)
		}
	}

	authed := r.Group("/", s.tokenAuth())
	authed.POST("/colorchecks", s.createCheck)
	authed.GET("/colorchecks", s.listChecks)
	authed.POST("/colorchecks/request", s.requestCheck)
	authed.GET("/colorchecks/request", s.listRequests)
	authed.GET("/users", s.listUsers)
	authed.POST("/users", s.createUser)

	return r
}

func (s *HTTPServer) corsConfig() cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization", "X-API-TOKEN"},
		MaxAge:       12 * time.Hour,
	}

	origins := strings.TrimSpace(s.allowOrigins)
	if origins == "" || origins == "*" {
		cfg.AllowAllOrigins = true
		return cfg
	}
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowOrigins = append(cfg.AllowOrigins, o)
		}
	}
	return cfg
}

// Run listens on the configured address and serves until ctx is done.
func (s *HTTPServer) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, lis)
}

// Serve serves on lis until ctx is done, then shuts down gracefully.
func (s *HTTPServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-done
	return nil
}
