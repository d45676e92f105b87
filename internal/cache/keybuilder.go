package cache

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/idna"

	"go-sw-cache/internal/interfaces"
	"go-sw-cache/internal/models"
)

// ErrUncacheableMethod is returned for requests the store cannot hold.
// Only GET responses are stored or matched.
var ErrUncacheableMethod = errors.New("request method is not cacheable")

// Ensure KeyBuilderImpl implements interfaces.KeyBuilder
var _ interfaces.KeyBuilder = (*KeyBuilderImpl)(nil)

// KeyBuilderImpl implements the KeyBuilder interface
type KeyBuilderImpl struct{}

// NewKeyBuilder creates a new KeyBuilder instance
func NewKeyBuilder() interfaces.KeyBuilder {
	return &KeyBuilderImpl{}
}

// Build creates the cache key "GET <normalized-url>" for a request
func (kb *KeyBuilderImpl) Build(req *models.Request) (string, error) {
	if req == nil || req.URL == nil {
		return "", errors.New("request cannot be nil")
	}

	method := strings.ToUpper(req.Method)
	if method == "" {
		method = http.MethodGet
	}
	if method != http.MethodGet {
		return "", fmt.Errorf("%w: %s", ErrUncacheableMethod, method)
	}

	normalized, err := NormalizeURL(req.URL)
	if err != nil {
		return "", err
	}

	return method + " " + normalized, nil
}

// NormalizeURL renders u in the form used for cache identity: lower-case
// scheme and ASCII host, default port dropped, fragment dropped, query kept.
func NormalizeURL(u *url.URL) (string, error) {
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("url %q is not absolute", u.String())
	}

	scheme := strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Hostname())
	if net.ParseIP(host) == nil {
		ascii, err := idna.Lookup.ToASCII(host)
		if err != nil {
			return "", fmt.Errorf("invalid host %q: %w", u.Hostname(), err)
		}
		host = ascii
	}

	port := u.Port()
	if (scheme == "http" && port == "80") || (scheme == "https" && port == "443") {
		port = ""
	}
	if port != "" {
		host = net.JoinHostPort(host, port)
	} else if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}

	normalized := url.URL{
		Scheme:   scheme,
		Host:     host,
		Path:     u.Path,
		RawPath:  u.RawPath,
		RawQuery: u.RawQuery,
	}
	if normalized.Path == "" {
		normalized.Path = "/"
	}

	return normalized.String(), nil
}
