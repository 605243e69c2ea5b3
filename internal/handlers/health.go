package handlers

import "net/http"

// Health reports that the API is up. It deliberately does not probe the
// database: the server stays useful for reads served from a recovering
// pool, and orchestrators only need process liveness.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "API is running",
	})
}

// NotFound is the JSON 404 for unknown routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "Route not found")
}
