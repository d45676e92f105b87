package strategy

import (
	"context"

	"go.uber.org/zap"

	"go-sw-cache/internal/cache"
	"go-sw-cache/internal/interfaces"
	"go-sw-cache/internal/metrics"
	"go-sw-cache/internal/models"
)

// NetworkFirst prefers the live response and falls back to the store only
// when the transport fails.
type NetworkFirst struct {
	transport interfaces.Transport
	detached  *Detached
	logger    *zap.Logger
}

// NewNetworkFirst creates the navigation executor
func NewNetworkFirst(transport interfaces.Transport, detached *Detached, logger *zap.Logger) *NetworkFirst {
	if logger == nil {
		logger = zap.NewNop()
	}
	if detached == nil {
		detached = NewDetached(logger)
	}
	return &NetworkFirst{
		transport: transport,
		detached:  detached,
		logger:    logger,
	}
}

// Serve implements Executor. When the transport fails and the store has
// nothing, it returns a nil response and a nil error.
func (n *NetworkFirst) Serve(ctx context.Context, handle *cache.Handle, req *models.Request) (*models.Response, error) {
	class := models.RoutingNavigationNetworkFirst.String()

	resp, err := n.transport.Fetch(ctx, req)
	if err == nil {
		if resp.OK() && handle != nil {
			n.detached.writeBack(ctx, handle, models.RoutingNavigationNetworkFirst, req, resp)
		}
		return resp, nil
	}

	metrics.RecordNetworkFailure(class)
	if handle != nil {
		if cached, ok := handle.Match(ctx, req); ok {
			metrics.RecordCacheHit(class)
			metrics.RecordOfflineFallback(class, "cache")
			n.logger.Info("Network failed, serving cached navigation",
				zap.Stringer("request", req),
				zap.Error(err))
			return cached, nil
		}
	}

	metrics.RecordCacheMiss(class)
	metrics.RecordOfflineFallback(class, "none")
	n.logger.Warn("Network failed and nothing cached",
		zap.Stringer("request", req),
		zap.Error(err))
	return nil, nil
}
