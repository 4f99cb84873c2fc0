// Package httputil writes JSON responses with a consistent envelope.
package httputil

import (
	"errors"
	"io"
	"net/http"

	"github.com/goccy/go-json"
)

// WriteJSON encodes v as the response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// WriteMessage writes a single-key body such as {"error":"Movie not found"}.
// Callers choose the key because the movie routes use both "error" and
// "message" for their failure bodies.
func WriteMessage(w http.ResponseWriter, status int, key, message string) error {
	return WriteJSON(w, status, map[string]string{key: message})
}

// WriteMessageWithFields adds per-field validation messages to a message body.
func WriteMessageWithFields(w http.ResponseWriter, status int, key, message string, fields map[string]string) error {
	return WriteJSON(w, status, map[string]any{key: message, "fields": fields})
}

// ErrTrailingData is returned by DecodeJSON when the body holds more than one
// JSON value.
var ErrTrailingData = errors.New("request body must contain a single JSON value")

// DecodeJSON decodes a request body into v. An empty body returns io.EOF.
func DecodeJSON(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return ErrTrailingData
	}
	return nil
}
