package middleware

import (
	"encoding/json"
	"net/http"
)

// writeJSONError is the middleware-layer counterpart of the handler package's
// writeError: rejections issued before a request reaches a handler (missing
// credential, rate limit) still answer in the API's JSON error shape.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
