package strategy

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"go-sw-cache/internal/cache"
	"go-sw-cache/internal/metrics"
	"go-sw-cache/internal/models"
)

// Detached runs work the response path never waits for. Tasks outlive the
// request that started them; Wait lets shutdown drain them.
type Detached struct {
	wg     sync.WaitGroup
	logger *zap.Logger
}

// NewDetached creates an empty task group
func NewDetached(logger *zap.Logger) *Detached {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Detached{logger: logger}
}

// Go runs fn on its own goroutine with a context that keeps ctx's values
// but not its cancellation.
func (d *Detached) Go(ctx context.Context, fn func(ctx context.Context)) {
	taskCtx := context.WithoutCancel(ctx)

	d.wg.Add(1)
	metrics.DetachedTaskStarted()
	go func() {
		defer func() {
			if r := recover(); r != nil {
				d.logger.Error("Detached task panicked", zap.Any("panic", r))
			}
			metrics.DetachedTaskDone()
			d.wg.Done()
		}()
		fn(taskCtx)
	}()
}

// Wait blocks until every started task finished or ctx is done
func (d *Detached) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// writeBack stores a clone of resp in the background. Failures are logged and
// counted, never returned. Requests the store cannot hold are skipped.
func (d *Detached) writeBack(ctx context.Context, handle *cache.Handle, class models.RoutingClass, req *models.Request, resp *models.Response) {
	if !handle.Cacheable(req) {
		return
	}
	clone := resp.Clone()
	d.Go(ctx, func(ctx context.Context) {
		err := handle.Put(ctx, req, clone)
		metrics.RecordCacheWrite(class.String(), err)
		if err != nil {
			d.logger.Warn("Background cache write failed",
				zap.String("generation", handle.Generation()),
				zap.Stringer("request", req),
				zap.Error(err))
			return
		}
		d.logger.Debug("Stored response",
			zap.String("generation", handle.Generation()),
			zap.Stringer("request", req),
			zap.Int("status", clone.Status))
	})
}
