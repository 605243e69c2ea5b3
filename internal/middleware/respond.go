package middleware

import (
	"encoding/json"
	"net/http"
)

// writeJSONError writes the API error envelope. Middleware has its own
// small writer so it doesn't depend on the handlers package.
func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"message": message,
	})
}
