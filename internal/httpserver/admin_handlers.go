package httpserver

import (
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"go-sw-cache/internal/auth"
	"go-sw-cache/internal/lifecycle"
)

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeResponse(w, map[string]interface{}{
		"status": "healthy",
		"time":   time.Now().UTC(),
	})
}

func (s *Server) handleLifecycleStatus(w http.ResponseWriter, r *http.Request) {
	s.writeResponse(w, &LifecycleStatus{
		Generation:       s.router.Generation(),
		State:            s.router.State(),
		ActiveGeneration: s.router.ActiveGeneration(),
	})
}

func (s *Server) handleGenerations(w http.ResponseWriter, r *http.Request) {
	names, err := s.storage.Names(r.Context())
	if err != nil {
		s.logger.Error("Failed to list generations", zap.Error(err))
		s.writeErrorResponse(w, "failed to list generations", http.StatusInternalServerError)
		return
	}
	s.writeResponse(w, &GenerationsResponse{
		Generations: names,
		Active:      s.router.ActiveGeneration(),
	})
}

// handleInstall installs the generation and activates it right away when
// the install signalled skip-waiting.
func (s *Server) handleInstall(w http.ResponseWriter, r *http.Request) {
	install, err := s.router.HandleInstall(r.Context())
	if err != nil {
		s.writeErrorResponse(w, err.Error(), http.StatusBadGateway)
		return
	}

	response := &InstallResponse{Success: true, Install: install}
	if install.SkipWaiting {
		activate, err := s.router.HandleActivate(r.Context())
		if err != nil {
			s.writeErrorResponse(w, err.Error(), http.StatusInternalServerError)
			return
		}
		response.Activate = activate
	}
	s.writeResponse(w, response)
}

func (s *Server) handleActivate(w http.ResponseWriter, r *http.Request) {
	activate, err := s.router.HandleActivate(r.Context())
	if errors.Is(err, lifecycle.ErrNotInstalled) {
		s.writeErrorResponse(w, err.Error(), http.StatusConflict)
		return
	}
	if err != nil {
		s.writeErrorResponse(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.writeResponse(w, &ActivateResponse{Success: true, Activate: activate})
}

// requireAdmin checks the bearer token when an admin secret is configured
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.jwtSecret == "" {
			next.ServeHTTP(w, r)
			return
		}

		token, err := auth.BearerToken(r)
		if err != nil {
			s.writeErrorResponse(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		claims, err := auth.Verify(token, s.jwtSecret)
		if err != nil {
			s.logger.Warn("Rejected admin token", zap.Error(err))
			s.writeErrorResponse(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		s.logger.Info("Admin request",
			zap.String("subject", claims.Subject),
			zap.String("path", r.URL.Path))
		next.ServeHTTP(w, r)
	})
}
