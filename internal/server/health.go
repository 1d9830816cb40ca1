package server

import (
	"net/http"

	"github.com/cwkr/safetynet/internal/httputil"
	"go.uber.org/zap"
)

// Pinger is satisfied by every store backend.
type Pinger interface {
	Ping() error
}

type healthHandler struct {
	stores map[string]Pinger
	logger *zap.Logger
}

func (h *healthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var status = struct {
		Status string            `json:"status"`
		Stores map[string]string `json:"stores"`
	}{"UP", make(map[string]string, len(h.stores))}

	var code = http.StatusOK
	for name, store := range h.stores {
		if err := store.Ping(); err != nil {
			h.logger.Warn("store unavailable", zap.String("store", name), zap.Error(err))
			status.Status = "DOWN"
			status.Stores[name] = err.Error()
			code = http.StatusServiceUnavailable
		} else {
			status.Stores[name] = "UP"
		}
	}

	httputil.JSON(w, status, code)
}

func HealthHandler(stores map[string]Pinger, logger *zap.Logger) http.Handler {
	return &healthHandler{
		stores: stores,
		logger: logger,
	}
}
