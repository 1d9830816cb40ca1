package httputil

import (
	"encoding/json"
	"net/http"
)

const (
	// ErrorInvalidRequest - a required parameter is missing or malformed.
	ErrorInvalidRequest = "invalid_request"

	// ErrorNotFound - the record addressed by the path does not exist.
	ErrorNotFound = "not_found"

	// ErrorReadOnly - the store behind the record set does not accept changes.
	ErrorReadOnly = "read_only"

	ErrorInternal = "internal_server_error"
)

type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

func JSON(w http.ResponseWriter, v any, code int) {
	var bytes, err = json.Marshal(v)
	if err != nil {
		Error(w, ErrorInternal, err.Error(), http.StatusInternalServerError)
		return
	}

	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(code)
	w.Write(bytes)
}

func Error(w http.ResponseWriter, error string, description string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	NoCache(w)

	w.WriteHeader(code)
	var bytes, _ = json.Marshal(ErrorResponse{error, description})
	w.Write(bytes)
}
