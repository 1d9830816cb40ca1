package server

import (
	"net/http"
	"strconv"

	"github.com/cwkr/safetynet/internal/httputil"
	"github.com/cwkr/safetynet/internal/stations"
	"github.com/cwkr/safetynet/internal/stringutil"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

var stationErrors = storeErrors{notFound: stations.ErrStationNotFound, readOnly: stations.ErrReadOnly}

type stationsAPIHandler struct {
	stationStore stations.Store
	logger       *zap.Logger
}

func (s *stationsAPIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var address = mux.Vars(r)["address"]

	switch r.Method {
	case http.MethodGet:
		if fireStations, err := s.stationStore.All(); err != nil {
			stationErrors.write(w, s.logger, err)
		} else {
			httputil.JSON(w, fireStations, http.StatusOK)
		}
	case http.MethodPost:
		var fireStation stations.FireStation
		if !decodeBody(w, r, &fireStation) {
			return
		}
		if stringutil.IsAnyBlank(fireStation.Address) {
			httputil.Error(w, httputil.ErrorInvalidRequest, "address is required", http.StatusBadRequest)
			return
		}
		if err := s.stationStore.Add(fireStation); err != nil {
			stationErrors.write(w, s.logger, err)
			return
		}
		httputil.JSON(w, fireStation, http.StatusCreated)
	case http.MethodPut:
		var fireStation stations.FireStation
		if !decodeBody(w, r, &fireStation) {
			return
		}
		if err := s.stationStore.Update(address, fireStation.Station); err != nil {
			stationErrors.write(w, s.logger, err)
			return
		}
		if updated, err := s.stationStore.Lookup(address); err != nil {
			stationErrors.write(w, s.logger, err)
		} else {
			httputil.JSON(w, updated, http.StatusOK)
		}
	case http.MethodDelete:
		if err := s.stationStore.Delete(address); err != nil {
			stationErrors.write(w, s.logger, err)
			return
		}
		httputil.NoCache(w)
		w.WriteHeader(http.StatusNoContent)
	}
}

func StationsAPIHandler(stationStore stations.Store, logger *zap.Logger) http.Handler {
	return &stationsAPIHandler{
		stationStore: stationStore,
		logger:       logger,
	}
}

// DeleteStationHandler removes every mapping of the station in the path.
func DeleteStationHandler(stationStore stations.Store, logger *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		station, err := strconv.Atoi(mux.Vars(r)["stationNumber"])
		if err != nil {
			httputil.Error(w, httputil.ErrorInvalidRequest, "stationNumber must be an integer", http.StatusBadRequest)
			return
		}
		removed, err := stationStore.DeleteStation(station)
		if err != nil {
			stationErrors.write(w, logger, err)
			return
		}
		if removed == 0 {
			httputil.Error(w, httputil.ErrorNotFound, stations.ErrStationNotFound.Error(), http.StatusNotFound)
			return
		}
		httputil.JSON(w, struct {
			Removed int `json:"removed"`
		}{removed}, http.StatusOK)
	})
}
