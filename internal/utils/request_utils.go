package utils

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go-sw-cache/internal/models"
)

// MaxRequestBody caps the request body buffered for forwarding.
const MaxRequestBody = 10 << 20

// RequestFromHTTP converts an incoming request into a fetch request.
// Absolute-form targets are used as they are; origin-form targets are
// resolved against appOrigin.
func RequestFromHTTP(r *http.Request, appOrigin *url.URL) (*models.Request, error) {
	if r == nil || r.URL == nil {
		return nil, fmt.Errorf("empty request")
	}

	target := *r.URL
	if !target.IsAbs() {
		if appOrigin == nil {
			return nil, fmt.Errorf("cannot resolve %q without an app origin", r.URL.String())
		}
		target.Scheme = appOrigin.Scheme
		target.Host = appOrigin.Host
	}
	target.Fragment = ""
	target.RawFragment = ""

	var body []byte
	if r.Body != nil && r.Body != http.NoBody {
		data, err := io.ReadAll(io.LimitReader(r.Body, MaxRequestBody+1))
		if err != nil {
			return nil, fmt.Errorf("read request body: %w", err)
		}
		if len(data) > MaxRequestBody {
			return nil, fmt.Errorf("request body exceeds %d bytes", MaxRequestBody)
		}
		if len(data) > 0 {
			body = data
		}
	}

	method := strings.ToUpper(r.Method)
	if method == "" {
		method = http.MethodGet
	}

	return &models.Request{
		Method:   method,
		URL:      &target,
		Header:   r.Header.Clone(),
		Body:     body,
		Navigate: IsNavigation(r),
	}, nil
}

// IsNavigation reports whether r is a top-level document navigation.
func IsNavigation(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Sec-Fetch-Mode"), "navigate")
}
