package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"go-sw-cache/internal/cache"
	"go-sw-cache/internal/interfaces"
	"go-sw-cache/internal/metrics"
	"go-sw-cache/internal/models"
)

var (
	// ErrNotInstalled is returned by Activate before a successful Install.
	ErrNotInstalled = errors.New("generation is not installed")
	// ErrInstallFailed wraps the first asset failure of an install batch.
	ErrInstallFailed = errors.New("install failed")
)

// Controller installs and activates one generation. Install and Activate
// calls are serialized.
type Controller struct {
	generation string
	assets     []*models.Request
	storage    *cache.Storage
	transport  interfaces.Transport
	host       interfaces.HostControl
	logger     *zap.Logger

	opMu      sync.Mutex
	stateMu   sync.RWMutex
	state     models.LifecycleState
	installed *cache.Handle
}

// NewController creates a controller for generation
func NewController(
	generation string,
	assets []*models.Request,
	storage *cache.Storage,
	transport interfaces.Transport,
	host interfaces.HostControl,
	logger *zap.Logger,
) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		generation: generation,
		assets:     assets,
		storage:    storage,
		transport:  transport,
		host:       host,
		logger:     logger.With(zap.String("generation", generation)),
		state:      models.StateParsed,
	}
}

// Generation returns the generation this controller manages
func (c *Controller) Generation() string {
	return c.generation
}

// State returns the current lifecycle state
func (c *Controller) State() models.LifecycleState {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.state
}

func (c *Controller) setState(state models.LifecycleState) {
	c.stateMu.Lock()
	c.state = state
	c.stateMu.Unlock()
}

// Install opens the generation store and fills it with every configured
// asset. The batch is all or nothing at the fetch stage: nothing is written
// unless every asset came back ok. On success it signals SkipWaiting.
func (c *Controller) Install(ctx context.Context) (*models.InstallResult, error) {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.setState(models.StateInstalling)
	c.logger.Info("Installing generation", zap.Int("assets", len(c.assets)))

	handle, err := c.install(ctx)
	metrics.RecordLifecycleEvent("install", err)
	if err != nil {
		c.setState(models.StateRedundant)
		c.logger.Error("Install failed", zap.Error(err))
		return nil, err
	}

	c.stateMu.Lock()
	c.installed = handle
	c.state = models.StateWaiting
	c.stateMu.Unlock()

	if c.host != nil {
		c.host.SkipWaiting()
	}

	c.logger.Info("Generation installed")
	return &models.InstallResult{
		Generation:  c.generation,
		Assets:      len(c.assets),
		SkipWaiting: c.host != nil,
	}, nil
}

func (c *Controller) install(ctx context.Context) (*cache.Handle, error) {
	handle, err := c.storage.Open(ctx, c.generation)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInstallFailed, err)
	}

	responses := make([]*models.Response, len(c.assets))
	g, gctx := errgroup.WithContext(ctx)
	for i, asset := range c.assets {
		g.Go(func() error {
			resp, err := c.transport.Fetch(gctx, asset)
			if err != nil {
				return fmt.Errorf("fetch %s: %w", asset, err)
			}
			if !resp.OK() {
				return fmt.Errorf("fetch %s: unexpected status %d", asset, resp.Status)
			}
			responses[i] = resp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInstallFailed, err)
	}

	for i, asset := range c.assets {
		if err := handle.Put(ctx, asset, responses[i]); err != nil {
			return nil, fmt.Errorf("%w: store %s: %w", ErrInstallFailed, asset, err)
		}
	}
	return handle, nil
}

// Activate deletes every generation other than the current one and claims
// all clients for it.
func (c *Controller) Activate(ctx context.Context) (*models.ActivateResult, error) {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.stateMu.RLock()
	handle := c.installed
	previous := c.state
	c.stateMu.RUnlock()
	if handle == nil {
		metrics.RecordLifecycleEvent("activate", ErrNotInstalled)
		return nil, ErrNotInstalled
	}

	c.setState(models.StateActivating)
	deleted, err := c.deleteStale(ctx)
	metrics.RecordLifecycleEvent("activate", err)
	metrics.RecordGenerationsDeleted(len(deleted))
	if err != nil {
		c.setState(previous)
		c.logger.Error("Activate failed", zap.Strings("deleted", deleted), zap.Error(err))
		return nil, err
	}

	if c.host != nil {
		c.host.ClaimClients(c.generation, handle.Store())
	}
	c.setState(models.StateActive)

	c.logger.Info("Generation activated", zap.Strings("deleted", deleted))
	return &models.ActivateResult{
		Generation: c.generation,
		Deleted:    deleted,
		Claimed:    c.host != nil,
	}, nil
}

func (c *Controller) deleteStale(ctx context.Context) ([]string, error) {
	names, err := c.storage.Names(ctx)
	if err != nil {
		return nil, fmt.Errorf("list generations: %w", err)
	}

	deleted := []string{}
	var errs []error
	for _, name := range names {
		if name == c.generation {
			continue
		}
		if _, err := c.storage.Delete(ctx, name); err != nil {
			errs = append(errs, fmt.Errorf("delete generation %q: %w", name, err))
			continue
		}
		deleted = append(deleted, name)
	}
	return deleted, errors.Join(errs...)
}
