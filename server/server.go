// Package server exposes the quote platform over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"quoteserver/database"
	"quoteserver/internal/config"
	"quoteserver/quote"
	"quoteserver/registry"
	"quoteserver/server/middleware"
	"quoteserver/shortlink"
)

// Server wires the HTTP layer to the application services.
type Server struct {
	config   *config.Config
	store    *database.Store
	search   *quote.SearchService
	links    *shortlink.Issuer
	identity *registry.IdentityClient
	council  *registry.CouncilClient
	logger   *slog.Logger

	engine *gin.Engine
	http   *http.Server
}

// New assembles the server and its routes.
func New(
	cfg *config.Config,
	store *database.Store,
	search *quote.SearchService,
	links *shortlink.Issuer,
	identity *registry.IdentityClient,
	council *registry.CouncilClient,
	logger *slog.Logger,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		config:   cfg,
		store:    store,
		search:   search,
		links:    links,
		identity: identity,
		council:  council,
		logger:   logger,
	}
	s.engine = s.buildRouter()
	return s
}

func (s *Server) buildRouter() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.Recovery(s.logger))
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Logger(s.logger))
	engine.Use(middleware.CORS())
	engine.Use(middleware.Gzip())
	engine.Use(middleware.RateLimit(s.config.RateLimit, s.config.RateBurst))

	engine.GET("/health", s.handleHealth)

	api := engine.Group("/api")
	{
		api.POST("/produtos/buscar", s.handleSearch)

		api.POST("/distribuidores/:id/produtos", s.handleAddProduct)
		api.PUT("/distribuidores/:id/produtos", s.handleUpdateProduct)
		api.DELETE("/distribuidores/:id/produtos", s.handleDeleteProduct)
		api.GET("/distribuidores/:id/produtos/busca", s.handleProductSearch)
		api.GET("/distribuidores/:id/fatura", s.handleInvoice)

		api.POST("/profissionais/verificar", s.handleVerifyProfessional)
		api.POST("/profissionais/cep", s.handleProfessionalCEP)

		api.GET("/:shortID", s.handleShortLink)
	}

	return engine
}

// Handler exposes the assembled routes, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	s.http = &http.Server{
		Addr:              ":" + s.config.Port,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "port", s.config.Port)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return s.http.Shutdown(shutdownCtx)
}
