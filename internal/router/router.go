// Package router dispatches host events: install, activate and fetch.
package router

import (
	"context"
	"errors"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"go-sw-cache/internal/cache"
	"go-sw-cache/internal/interfaces"
	"go-sw-cache/internal/lifecycle"
	"go-sw-cache/internal/metrics"
	"go-sw-cache/internal/models"
	"go-sw-cache/internal/strategy"
)

const tracerName = "go-sw-cache/router"

var _ interfaces.HostControl = (*Router)(nil)

// ErrInvalidRequest is returned by HandleFetch for a request without a URL.
var ErrInvalidRequest = errors.New("request has no URL")

// Options configures a Router
type Options struct {
	Generation string
	Assets     []*models.Request
	Storage    *cache.Storage
	Classifier interfaces.Classifier
	Transport  interfaces.Transport
	Logger     *zap.Logger
}

// Router owns one generation's controller and serves fetches against the
// generation that last claimed clients. Until a generation is activated the
// router controls nothing and fetches go straight to the network.
type Router struct {
	classifier interfaces.Classifier
	transport  interfaces.Transport
	executors  *strategy.Executors
	detached   *strategy.Detached
	controller *lifecycle.Controller
	keyBuilder interfaces.KeyBuilder
	tracer     trace.Tracer
	logger     *zap.Logger

	active      atomic.Pointer[cache.Handle]
	skipWaiting atomic.Bool
}

// New creates a Router and its lifecycle controller
func New(opts Options) *Router {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	detached := strategy.NewDetached(logger)
	r := &Router{
		classifier: opts.Classifier,
		transport:  opts.Transport,
		executors:  strategy.NewExecutors(opts.Transport, detached, logger),
		detached:   detached,
		keyBuilder: opts.Storage.KeyBuilder(),
		tracer:     otel.Tracer(tracerName),
		logger:     logger,
	}
	r.controller = lifecycle.NewController(opts.Generation, opts.Assets, opts.Storage, opts.Transport, r, logger)
	return r
}

// Route classifies req without serving it
func (r *Router) Route(req *models.Request) models.RoutingClass {
	return r.classifier.Classify(req)
}

// HandleInstall runs the install step and waits for it to finish
func (r *Router) HandleInstall(ctx context.Context) (*models.InstallResult, error) {
	ctx, span := r.tracer.Start(ctx, "sw.install",
		trace.WithAttributes(attribute.String("sw.generation", r.controller.Generation())))
	defer span.End()

	r.skipWaiting.Store(false)
	result, err := r.controller.Install(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	result.SkipWaiting = r.skipWaiting.Load()
	span.SetAttributes(attribute.Int("sw.assets", result.Assets), attribute.Bool("sw.skip_waiting", result.SkipWaiting))
	return result, nil
}

// HandleActivate runs the activate step and waits for it to finish
func (r *Router) HandleActivate(ctx context.Context) (*models.ActivateResult, error) {
	ctx, span := r.tracer.Start(ctx, "sw.activate",
		trace.WithAttributes(attribute.String("sw.generation", r.controller.Generation())))
	defer span.End()

	result, err := r.controller.Activate(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("sw.deleted", len(result.Deleted)))
	return result, nil
}

// HandleFetch serves req. A nil response with a nil error is the
// navigation double miss: network down and nothing cached.
func (r *Router) HandleFetch(ctx context.Context, req *models.Request) (*models.Response, error) {
	if req == nil || req.URL == nil {
		return nil, ErrInvalidRequest
	}
	class := r.Route(req)
	metrics.RecordFetch(class.String())

	ctx, span := r.tracer.Start(ctx, "sw.fetch",
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("sw.class", class.String()),
			attribute.String("http.request.method", req.Method),
		))
	defer span.End()

	handle := r.active.Load()
	if handle == nil {
		span.SetAttributes(attribute.Bool("sw.controlled", false))
		resp, err := r.transport.Fetch(ctx, req)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		return resp, err
	}
	span.SetAttributes(
		attribute.Bool("sw.controlled", true),
		attribute.String("sw.generation", handle.Generation()))

	resp, err := r.executors.For(class).Serve(ctx, handle, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.logger.Debug("Fetch failed", zap.String("class", class.String()), zap.Stringer("request", req), zap.Error(err))
		return nil, err
	}
	if resp != nil {
		span.SetAttributes(attribute.Int("http.response.status_code", resp.Status))
	}
	return resp, nil
}

// SkipWaiting implements HostControl
func (r *Router) SkipWaiting() {
	r.skipWaiting.Store(true)
}

// ClaimClients implements HostControl. Every fetch after it returns uses the
// claimed generation.
func (r *Router) ClaimClients(generation string, store interfaces.Store) {
	r.active.Store(cache.NewHandle(generation, store, r.keyBuilder, r.logger))
	r.logger.Info("Clients claimed", zap.String("generation", generation))
}

// ActiveGeneration returns the generation serving fetches, "" when none
func (r *Router) ActiveGeneration() string {
	if handle := r.active.Load(); handle != nil {
		return handle.Generation()
	}
	return ""
}

// Generation returns the generation this router installs
func (r *Router) Generation() string {
	return r.controller.Generation()
}

// State returns the lifecycle state of the installed generation
func (r *Router) State() models.LifecycleState {
	return r.controller.State()
}

// Shutdown waits for background store writes to finish or ctx to end
func (r *Router) Shutdown(ctx context.Context) error {
	return r.detached.Wait(ctx)
}
