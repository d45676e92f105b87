package strategy

import (
	"context"

	"go-sw-cache/internal/cache"
	"go-sw-cache/internal/interfaces"
	"go-sw-cache/internal/models"
)

// Bypass hands the request to the transport untouched. The handle is ignored.
type Bypass struct {
	transport interfaces.Transport
}

// NewBypass creates a pass-through executor
func NewBypass(transport interfaces.Transport) *Bypass {
	return &Bypass{transport: transport}
}

// Serve returns exactly what the transport returns
func (b *Bypass) Serve(ctx context.Context, _ *cache.Handle, req *models.Request) (*models.Response, error) {
	return b.transport.Fetch(ctx, req)
}
