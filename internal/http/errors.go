// Package httpapi exposes the HTTP API layer of the service.
package httpapi

import (
	"encoding/json"
	"net/http"
)

// errorBody is the JSON error payload. The single detail field matches
// what API clients already parse.
type errorBody struct {
	Detail string `json:"detail"`
}

// WriteError writes a JSON error payload with the given status code.
func WriteError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Detail: detail})
}
