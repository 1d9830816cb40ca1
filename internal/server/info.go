package server

import (
	"net/http"

	"github.com/cwkr/safetynet/internal/httputil"
)

func InfoHandler(version, runtimeVersion string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var info = struct {
			Service   string `json:"service"`
			Version   string `json:"version"`
			GoVersion string `json:"go_version"`
		}{"safetynet", version, runtimeVersion}

		httputil.JSON(w, info, http.StatusOK)
	})
}
