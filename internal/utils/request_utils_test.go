package utils

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestRequestFromHTTP_OriginForm(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/index.html?v=2", nil)
	r.Header.Set("Sec-Fetch-Mode", "navigate")

	req, err := RequestFromHTTP(r, mustURL(t, "https://app.example.com"))
	require.NoError(t, err)

	assert.Equal(t, "GET", req.Method)
	assert.Equal(t, "https://app.example.com/index.html?v=2", req.URL.String())
	assert.True(t, req.Navigate)
	assert.Nil(t, req.Body)
}

func TestRequestFromHTTP_AbsoluteForm(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "https://www.gstatic.com/sdk.js", nil)
	r.Header.Set("Sec-Fetch-Mode", "no-cors")

	req, err := RequestFromHTTP(r, mustURL(t, "https://app.example.com"))
	require.NoError(t, err)

	assert.Equal(t, "https://www.gstatic.com/sdk.js", req.URL.String())
	assert.False(t, req.Navigate)
}

func TestRequestFromHTTP_Body(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/api/scores", strings.NewReader(`{"a":1}`))

	req, err := RequestFromHTTP(r, mustURL(t, "https://app.example.com"))
	require.NoError(t, err)
	assert.Equal(t, "POST", req.Method)
	assert.Equal(t, []byte(`{"a":1}`), req.Body)
}

func TestRequestFromHTTP_BodyTooLarge(t *testing.T) {
	big := strings.NewReader(strings.Repeat("x", MaxRequestBody+1))
	r := httptest.NewRequest(http.MethodPost, "/upload", big)

	_, err := RequestFromHTTP(r, mustURL(t, "https://app.example.com"))
	assert.Error(t, err)
}

func TestRequestFromHTTP_NoOrigin(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	_, err := RequestFromHTTP(r, nil)
	assert.Error(t, err)
}

func TestRequestFromHTTP_HeadersCopied(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Accept", "text/html")

	req, err := RequestFromHTTP(r, mustURL(t, "https://app.example.com"))
	require.NoError(t, err)

	r.Header.Set("Accept", "changed")
	assert.Equal(t, "text/html", req.Header.Get("Accept"))
}
