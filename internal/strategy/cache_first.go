package strategy

import (
	"context"

	"go.uber.org/zap"

	"go-sw-cache/internal/cache"
	"go-sw-cache/internal/interfaces"
	"go-sw-cache/internal/metrics"
	"go-sw-cache/internal/models"
)

// CacheFirst answers from the store when it can and goes to the network
// otherwise, writing ok responses back in the background.
type CacheFirst struct {
	class           models.RoutingClass
	offlineFallback bool
	transport       interfaces.Transport
	detached        *Detached
	logger          *zap.Logger
}

// NewCdnCacheFirst builds the CDN variant. Transport failures are returned
// to the caller unchanged.
func NewCdnCacheFirst(transport interfaces.Transport, detached *Detached, logger *zap.Logger) *CacheFirst {
	return newCacheFirst(models.RoutingCdnCacheFirst, false, transport, detached, logger)
}

// NewStaticCacheFirst builds the static variant. Transport failures become a
// synthetic 503 Offline response.
func NewStaticCacheFirst(transport interfaces.Transport, detached *Detached, logger *zap.Logger) *CacheFirst {
	return newCacheFirst(models.RoutingStaticCacheFirst, true, transport, detached, logger)
}

func newCacheFirst(class models.RoutingClass, offlineFallback bool, transport interfaces.Transport, detached *Detached, logger *zap.Logger) *CacheFirst {
	if logger == nil {
		logger = zap.NewNop()
	}
	if detached == nil {
		detached = NewDetached(logger)
	}
	return &CacheFirst{
		class:           class,
		offlineFallback: offlineFallback,
		transport:       transport,
		detached:        detached,
		logger:          logger,
	}
}

// Serve implements Executor
func (c *CacheFirst) Serve(ctx context.Context, handle *cache.Handle, req *models.Request) (*models.Response, error) {
	class := c.class.String()

	if handle != nil {
		if cached, ok := handle.Match(ctx, req); ok {
			metrics.RecordCacheHit(class)
			c.logger.Debug("Cache hit", zap.String("class", class), zap.Stringer("request", req))
			return cached, nil
		}
	}
	metrics.RecordCacheMiss(class)

	resp, err := c.transport.Fetch(ctx, req)
	if err != nil {
		metrics.RecordNetworkFailure(class)
		if !c.offlineFallback {
			return nil, err
		}
		c.logger.Info("Network failed, serving offline response",
			zap.String("class", class),
			zap.Stringer("request", req),
			zap.Error(err))
		metrics.RecordOfflineFallback(class, "synthetic")
		return models.NewOfflineResponse(), nil
	}

	if resp.OK() && handle != nil {
		c.detached.writeBack(ctx, handle, c.class, req, resp)
	}
	return resp, nil
}
