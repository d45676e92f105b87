package interfaces

import (
	"context"

	"go-sw-cache/internal/models"
)

//go:generate mockgen -package=mock -source=transport.go -destination=mock/transport.go

// Transport performs the network fetch for a request. Failing to obtain any
// response is an error; a non-2xx status is a normal response.
type Transport interface {
	Fetch(ctx context.Context, req *models.Request) (*models.Response, error)
}
