package httpserver

import (
	"net/http"

	"go.uber.org/zap"

	"go-sw-cache/internal/utils"
)

// handleFetch converts the incoming request, hands it to the router and
// writes back whatever the router decided.
func (s *Server) handleFetch(w http.ResponseWriter, r *http.Request) {
	req, err := utils.RequestFromHTTP(r, s.appOrigin)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set(ClassHeader, s.router.Route(req).String())

	resp, err := s.router.HandleFetch(r.Context(), req)
	if err != nil {
		s.logger.Debug("Fetch failed", zap.Stringer("request", req), zap.Error(err))
		http.Error(w, "Bad Gateway", http.StatusBadGateway)
		return
	}
	if resp == nil {
		// network failed and nothing was cached
		w.WriteHeader(http.StatusGatewayTimeout)
		return
	}

	if err := utils.WriteResponse(w, resp); err != nil {
		s.logger.Debug("Failed to write proxied response", zap.Stringer("request", req), zap.Error(err))
	}
}
