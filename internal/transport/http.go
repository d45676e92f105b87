// Package transport performs network fetches over net/http.
package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"

	"go-sw-cache/internal/config"
	"go-sw-cache/internal/interfaces"
	"go-sw-cache/internal/models"
)

var _ interfaces.Transport = (*HTTPTransport)(nil)

// Headers that describe a single connection and are never forwarded.
var hopHeaders = []string{
	"Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

// HTTPTransport fetches requests with an http.Client and buffers the body
type HTTPTransport struct {
	client    *http.Client
	userAgent string
	logger    *zap.Logger
}

// NewHTTPTransport creates a transport from cfg. A zero timeout means no
// timeout: a hung origin hangs the fetch.
func NewHTTPTransport(cfg config.TransportConfig, logger *zap.Logger) *HTTPTransport {
	base := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.MaxIdleConns > 0 {
		base.MaxIdleConns = cfg.MaxIdleConns
		base.MaxIdleConnsPerHost = cfg.MaxIdleConns
	}

	return NewHTTPTransportWithClient(&http.Client{
		Transport: base,
		Timeout:   cfg.Timeout,
	}, cfg.UserAgent, logger)
}

// NewHTTPTransportWithClient wraps an existing client
func NewHTTPTransportWithClient(client *http.Client, userAgent string, logger *zap.Logger) *HTTPTransport {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPTransport{
		client:    client,
		userAgent: userAgent,
		logger:    logger,
	}
}

// Fetch implements Transport. Any status is a response; only failing to get
// one is an error.
func (t *HTTPTransport) Fetch(ctx context.Context, req *models.Request) (*models.Response, error) {
	if req == nil || req.URL == nil {
		return nil, fmt.Errorf("request has no URL")
	}

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL.String(), body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	for name, values := range req.Header {
		for _, value := range values {
			httpReq.Header.Add(name, value)
		}
	}
	for _, name := range hopHeaders {
		httpReq.Header.Del(name)
	}
	if t.userAgent != "" && httpReq.Header.Get("User-Agent") == "" {
		httpReq.Header.Set("User-Agent", t.userAgent)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(httpReq.Header))

	httpResp, err := t.client.Do(httpReq)
	if err != nil {
		t.logger.Debug("Fetch failed", zap.Stringer("request", req), zap.Error(err))
		return nil, err
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	header := httpResp.Header.Clone()
	for _, name := range hopHeaders {
		header.Del(name)
	}

	return &models.Response{
		Status:     httpResp.StatusCode,
		StatusText: statusText(httpResp),
		Header:     header,
		Body:       data,
	}, nil
}

// statusText strips the numeric code from "200 OK".
func statusText(resp *http.Response) string {
	if text, ok := strings.CutPrefix(resp.Status, fmt.Sprintf("%d ", resp.StatusCode)); ok {
		return text
	}
	return http.StatusText(resp.StatusCode)
}
