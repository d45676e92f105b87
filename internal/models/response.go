package models

import (
	"net/http"
)

const (
	OfflineStatus     = http.StatusServiceUnavailable
	OfflineStatusText = "Offline"
	OfflineBody       = "Offline"
)

// Response is a fully buffered HTTP response snapshot.
type Response struct {
	Status     int         `json:"status"`
	StatusText string      `json:"status_text"`
	Header     http.Header `json:"header"`
	Body       []byte      `json:"body"`
}

// OK reports whether the status is in the 2xx range.
func (r *Response) OK() bool {
	return r != nil && r.Status >= 200 && r.Status <= 299
}

// Clone returns an independent copy so the cache writer and the caller
// can consume the response separately.
func (r *Response) Clone() *Response {
	if r == nil {
		return nil
	}
	clone := &Response{
		Status:     r.Status,
		StatusText: r.StatusText,
		Header:     r.Header.Clone(),
	}
	if r.Body != nil {
		clone.Body = append([]byte(nil), r.Body...)
	}
	return clone
}

// NewOfflineResponse builds the synthetic 503 returned when a static asset is
// neither cached nor reachable.
func NewOfflineResponse() *Response {
	return &Response{
		Status:     OfflineStatus,
		StatusText: OfflineStatusText,
		Header:     http.Header{"Content-Type": []string{"text/plain;charset=UTF-8"}},
		Body:       []byte(OfflineBody),
	}
}
