package utils

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go-sw-cache/internal/models"
)

// WriteResponse writes resp verbatim. Content-Length always matches the
// buffered body.
func WriteResponse(w http.ResponseWriter, resp *models.Response) error {
	header := w.Header()
	for name, values := range resp.Header {
		if http.CanonicalHeaderKey(name) == "Content-Length" {
			continue
		}
		for _, value := range values {
			header.Add(name, value)
		}
	}
	header.Set("Content-Length", strconv.Itoa(len(resp.Body)))

	status := resp.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, err := w.Write(resp.Body)
	return err
}

// WriteJSON writes v as a JSON body with status
func WriteJSON(w http.ResponseWriter, status int, v interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}
