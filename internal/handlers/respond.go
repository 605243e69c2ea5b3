// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON API endpoints. Every response is
// an envelope {success, message?, ...payload}.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Debug controls whether 500 responses carry the underlying error text
// in an extra "error" field. Set once at startup; never in production.
var Debug bool

// writeJSON writes the given payload with success=true.
func writeJSON(w http.ResponseWriter, status int, payload map[string]any) {
	body := map[string]any{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	writeRaw(w, status, body)
}

// writeError writes the error envelope with the given status and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeRaw(w, status, map[string]any{
		"success": false,
		"message": message,
	})
}

// writeServerError logs the failure and responds with a generic 500.
// The underlying error detail is exposed only in debug mode.
func writeServerError(w http.ResponseWriter, what string, err error) {
	slog.Error(what, "error", err)

	body := map[string]any{
		"success": false,
		"message": "Server error",
	}
	if Debug && err != nil {
		body["error"] = err.Error()
	}
	writeRaw(w, http.StatusInternalServerError, body)
}

func writeRaw(w http.ResponseWriter, status int, body map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// decodeBody decodes a JSON request body into dst. Returns false and
// responds with 400 when the body is not valid JSON.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
