package httpserver

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"go-sw-cache/internal/cache"
	"go-sw-cache/internal/config"
	"go-sw-cache/internal/router"
	"go-sw-cache/internal/utils"
)

// Server hosts the router: a proxy listener that feeds it fetches and an
// admin listener that drives its lifecycle.
type Server struct {
	router    *router.Router
	storage   *cache.Storage
	appOrigin *url.URL
	jwtSecret string
	logger    *zap.Logger

	proxy *http.Server
	admin *http.Server
}

// NewServer creates both listeners without starting them
func NewServer(r *router.Router, storage *cache.Storage, appOrigin *url.URL, cfg config.ServerConfig, jwtSecret string, logger *zap.Logger) *Server {
	s := &Server{
		router:    r,
		storage:   storage,
		appOrigin: appOrigin,
		jwtSecret: jwtSecret,
		logger:    logger,
	}

	s.proxy = &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      s.ProxyHandler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	s.admin = &http.Server{
		Addr:         cfg.AdminAddr,
		Handler:      s.AdminHandler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s
}

// StartProxy serves intercepted fetches until Stop
func (s *Server) StartProxy() error {
	s.logger.Info("Starting proxy HTTP server", zap.String("addr", s.proxy.Addr))
	if err := s.proxy.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// StartAdmin serves the admin API until Stop
func (s *Server) StartAdmin() error {
	s.logger.Info("Starting admin HTTP server", zap.String("addr", s.admin.Addr))
	if err := s.admin.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop stops both listeners
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping HTTP servers")
	return errors.Join(s.proxy.Shutdown(ctx), s.admin.Shutdown(ctx))
}

// ProxyHandler returns the handler that serves every fetch
func (s *Server) ProxyHandler() http.Handler {
	return http.HandlerFunc(s.handleFetch)
}

// AdminHandler returns the admin router
func (s *Server) AdminHandler() http.Handler {
	router := mux.NewRouter()

	// Health check
	router.HandleFunc("/health", s.handleHealth).Methods("GET")

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	router.HandleFunc("/lifecycle", s.handleLifecycleStatus).Methods("GET")
	router.HandleFunc("/generations", s.handleGenerations).Methods("GET")

	mutating := router.NewRoute().Subrouter()
	mutating.Use(s.requireAdmin)
	mutating.HandleFunc("/lifecycle/install", s.handleInstall).Methods("POST")
	mutating.HandleFunc("/lifecycle/activate", s.handleActivate).Methods("POST")

	return router
}

// writeResponse writes JSON response
func (s *Server) writeResponse(w http.ResponseWriter, v interface{}) {
	if err := utils.WriteJSON(w, http.StatusOK, v); err != nil {
		s.logger.Error("Failed to write response", zap.Error(err))
	}
}

// writeErrorResponse writes error response
func (s *Server) writeErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	if err := utils.WriteJSON(w, statusCode, &ErrorResponse{Success: false, Error: message}); err != nil {
		s.logger.Error("Failed to write error response", zap.Error(err))
	}
}
