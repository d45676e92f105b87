package transport

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"go-sw-cache/internal/config"
	"go-sw-cache/internal/models"
)

func newRequest(t *testing.T, method, rawURL string) *models.Request {
	t.Helper()
	req, err := models.NewRequest(method, rawURL, false)
	require.NoError(t, err)
	return req
}

func TestHTTPTransport_Fetch_OK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sdk.js", r.URL.Path)
		assert.Equal(t, "go-sw-cache/test", r.Header.Get("User-Agent"))
		assert.Equal(t, "yes", r.Header.Get("X-Forwarded-Test"))
		assert.Empty(t, r.Header.Get("Proxy-Authorization"))
		w.Header().Set("Content-Type", "application/javascript")
		_, _ = io.WriteString(w, "console.log(1)")
	}))
	defer server.Close()

	transport := NewHTTPTransport(config.TransportConfig{UserAgent: "go-sw-cache/test"}, zaptest.NewLogger(t))
	req := newRequest(t, http.MethodGet, server.URL+"/sdk.js")
	req.Header.Set("X-Forwarded-Test", "yes")
	req.Header.Set("Proxy-Authorization", "secret")

	resp, err := transport.Fetch(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "OK", resp.StatusText)
	assert.True(t, resp.OK())
	assert.Equal(t, "application/javascript", resp.Header.Get("Content-Type"))
	assert.Equal(t, []byte("console.log(1)"), resp.Body)
}

func TestHTTPTransport_Fetch_NonOkIsResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer server.Close()

	transport := NewHTTPTransport(config.TransportConfig{}, zaptest.NewLogger(t))
	resp, err := transport.Fetch(context.Background(), newRequest(t, http.MethodGet, server.URL+"/missing"))

	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.Status)
	assert.Equal(t, "Not Found", resp.StatusText)
	assert.False(t, resp.OK())
}

func TestHTTPTransport_Fetch_ForwardsBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		body, _ := io.ReadAll(r.Body)
		_, _ = w.Write(body)
	}))
	defer server.Close()

	transport := NewHTTPTransport(config.TransportConfig{}, zaptest.NewLogger(t))
	req := newRequest(t, http.MethodPost, server.URL+"/echo")
	req.Body = []byte(`{"score":1}`)

	resp, err := transport.Fetch(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"score":1}`), resp.Body)
}

func TestHTTPTransport_Fetch_ConnectionFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	transport := NewHTTPTransport(config.TransportConfig{}, zaptest.NewLogger(t))
	resp, err := transport.Fetch(context.Background(), newRequest(t, http.MethodGet, url+"/"))

	assert.Error(t, err)
	assert.Nil(t, resp)
}

func TestHTTPTransport_Fetch_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	transport := NewHTTPTransport(config.TransportConfig{Timeout: 20 * time.Millisecond}, zaptest.NewLogger(t))
	_, err := transport.Fetch(context.Background(), newRequest(t, http.MethodGet, server.URL+"/slow"))
	assert.Error(t, err)
}

func TestHTTPTransport_Fetch_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	transport := NewHTTPTransport(config.TransportConfig{}, zaptest.NewLogger(t))
	_, err := transport.Fetch(ctx, newRequest(t, http.MethodGet, server.URL+"/"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHTTPTransport_Fetch_NilRequest(t *testing.T) {
	transport := NewHTTPTransport(config.TransportConfig{}, nil)
	_, err := transport.Fetch(context.Background(), nil)
	assert.Error(t, err)
}
