package models

import (
	"net/http"
	"net/url"
	"strings"
)

// Request describes one intercepted fetch. It is never mutated after creation.
type Request struct {
	Method   string      `json:"method"`
	URL      *url.URL    `json:"url"`
	Header   http.Header `json:"header,omitempty"`
	Body     []byte      `json:"-"`
	Navigate bool        `json:"navigate"` // top-level navigation (Sec-Fetch-Mode: navigate)
}

// NewRequest parses rawURL and builds a request. An empty method means GET.
func NewRequest(method, rawURL string, navigate bool) (*Request, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	if method == "" {
		method = http.MethodGet
	}
	return &Request{
		Method:   strings.ToUpper(method),
		URL:      u,
		Header:   http.Header{},
		Navigate: navigate,
	}, nil
}

// Host returns the request host without port, lower-cased.
func (r *Request) Host() string {
	if r == nil || r.URL == nil {
		return ""
	}
	return strings.ToLower(r.URL.Hostname())
}

// Path returns the URL path, "/" when empty.
func (r *Request) Path() string {
	if r == nil || r.URL == nil || r.URL.Path == "" {
		return "/"
	}
	return r.URL.Path
}

// String renders "METHOD URL" for logs.
func (r *Request) String() string {
	if r == nil || r.URL == nil {
		return "<nil>"
	}
	return r.Method + " " + r.URL.String()
}
