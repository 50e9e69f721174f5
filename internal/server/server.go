// Package server is the reference HTTP backend for the resource API. It
// serves /categories and /entries with the status contract the client
// relies on: 404 for missing records and 422 with field errors for
// rejected drafts.
package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"slices"
	"time"

	"github.com/Veraticus/fintrack/internal/model"
	"github.com/Veraticus/fintrack/internal/resource"
	"github.com/Veraticus/fintrack/internal/storage"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// Store is the persistence the server needs.
type Store interface {
	ListCategories(ctx context.Context) ([]model.Category, error)
	GetCategory(ctx context.Context, id int) (*model.Category, error)
	CreateCategory(ctx context.Context, cat *model.Category) error
	UpdateCategory(ctx context.Context, cat *model.Category) error
	DeleteCategory(ctx context.Context, id int) error

	ListEntries(ctx context.Context) ([]model.Entry, error)
	GetEntry(ctx context.Context, id int) (*model.Entry, error)
	CreateEntry(ctx context.Context, entry *model.Entry) error
	UpdateEntry(ctx context.Context, entry *model.Entry) error
	DeleteEntry(ctx context.Context, id int) error
}

var _ Store = (*storage.SQLiteStorage)(nil)

// Server serves the resource API.
type Server struct {
	engine      *gin.Engine
	store       Store
	logger      *slog.Logger
	validator   *payloadValidator
	tlsCert     *tls.Certificate
	corsOrigins []string
}

// Option configures a Server.
type Option func(*Server)

// WithCORSOrigins sets the allowed origins. "*" allows any origin.
func WithCORSOrigins(origins ...string) Option {
	return func(s *Server) {
		s.corsOrigins = origins
	}
}

// WithTLS makes Run serve HTTPS with cert.
func WithTLS(cert tls.Certificate) Option {
	return func(s *Server) {
		s.tlsCert = &cert
	}
}

// WithLogger sets the base logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// New builds the server and its routes.
func New(store Store, opts ...Option) *Server {
	s := &Server{
		store:       store,
		logger:      slog.Default(),
		validator:   newPayloadValidator(),
		corsOrigins: []string{"*"},
	}
	for _, opt := range opts {
		opt(s)
	}

	r := gin.New()
	r.Use(requestLogger(s.logger), gin.Recovery(), cors.New(s.corsConfig()))
	_ = r.SetTrustedProxies(nil)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	registerCategoryRoutes(r.Group(resource.CategoriesPath), s)
	registerEntryRoutes(r.Group(resource.EntriesPath), s)

	s.engine = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is canceled. ln is closed on
// return.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if s.tlsCert != nil {
		srv.TLSConfig = &tls.Config{Certificates: []tls.Certificate{*s.tlsCert}, MinVersion: tls.VersionTLS12}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("Server starting", slog.String("addr", ln.Addr().String()), slog.Bool("tls", s.tlsCert != nil))
		var err error
		if s.tlsCert != nil {
			err = srv.ServeTLS(ln, "", "")
		} else {
			err = srv.Serve(ln)
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("Server shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) corsConfig() cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", resource.RequestIDHeader},
		ExposeHeaders: []string{resource.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(s.corsOrigins) == 0 || slices.Contains(s.corsOrigins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = s.corsOrigins
	}
	return cfg
}
