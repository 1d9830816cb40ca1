package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cwkr/safetynet/internal/httputil"
	"go.uber.org/zap"
)

// storeErrors names the store sentinels a CRUD handler maps to client errors.
type storeErrors struct {
	notFound error
	readOnly error
}

func (s storeErrors) write(w http.ResponseWriter, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, s.notFound):
		httputil.Error(w, httputil.ErrorNotFound, err.Error(), http.StatusNotFound)
	case errors.Is(err, s.readOnly):
		httputil.Error(w, httputil.ErrorReadOnly, err.Error(), http.StatusMethodNotAllowed)
	default:
		logger.Error("store operation failed", zap.Error(err))
		httputil.Error(w, httputil.ErrorInternal, err.Error(), http.StatusInternalServerError)
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		httputil.Error(w, httputil.ErrorInvalidRequest, "malformed request body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}
