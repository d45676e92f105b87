package strategy

import (
	"context"

	"go.uber.org/zap"

	"go-sw-cache/internal/cache"
	"go-sw-cache/internal/interfaces"
	"go-sw-cache/internal/models"
)

// Executor serves requests of one routing class against an explicit
// generation handle. A nil handle means no store is available.
type Executor interface {
	Serve(ctx context.Context, handle *cache.Handle, req *models.Request) (*models.Response, error)
}

// Executors holds one executor per routing class
type Executors struct {
	byClass map[models.RoutingClass]Executor
}

// NewExecutors wires the four executors over a shared transport and task group
func NewExecutors(transport interfaces.Transport, detached *Detached, logger *zap.Logger) *Executors {
	return &Executors{
		byClass: map[models.RoutingClass]Executor{
			models.RoutingBypass:                 NewBypass(transport),
			models.RoutingCdnCacheFirst:          NewCdnCacheFirst(transport, detached, logger),
			models.RoutingNavigationNetworkFirst: NewNetworkFirst(transport, detached, logger),
			models.RoutingStaticCacheFirst:       NewStaticCacheFirst(transport, detached, logger),
		},
	}
}

// For returns the executor for class. Unknown classes get the bypass executor.
func (e *Executors) For(class models.RoutingClass) Executor {
	if executor, ok := e.byClass[class]; ok {
		return executor
	}
	return e.byClass[models.RoutingBypass]
}
