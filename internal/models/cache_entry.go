package models

import (
	"net/http"
	"time"
)

// CacheEntry is the stored form of a captured response. Entries are only
// ever overwritten wholesale, never patched.
type CacheEntry struct {
	Status     int         `json:"status"`
	StatusText string      `json:"status_text,omitempty"`
	Header     http.Header `json:"header,omitempty"`
	Body       []byte      `json:"body"`
	StoredAt   int64       `json:"stored_at"`
}

// NewCacheEntry captures resp at the current time.
func NewCacheEntry(resp *Response) *CacheEntry {
	clone := resp.Clone()
	return &CacheEntry{
		Status:     clone.Status,
		StatusText: clone.StatusText,
		Header:     clone.Header,
		Body:       clone.Body,
		StoredAt:   time.Now().Unix(),
	}
}

// Response rebuilds a response that the caller may consume freely.
func (e *CacheEntry) Response() *Response {
	if e == nil {
		return nil
	}
	resp := &Response{
		Status:     e.Status,
		StatusText: e.StatusText,
		Header:     e.Header.Clone(),
		Body:       append([]byte(nil), e.Body...),
	}
	if resp.Header == nil {
		resp.Header = http.Header{}
	}
	return resp
}
