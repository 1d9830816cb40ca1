package server

import (
	"net/http"

	"github.com/cwkr/safetynet/internal/alerts"
	"github.com/cwkr/safetynet/internal/httputil"
	"github.com/cwkr/safetynet/internal/medical"
	"github.com/cwkr/safetynet/internal/metrics"
	"github.com/cwkr/safetynet/internal/people"
	"github.com/cwkr/safetynet/internal/stations"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Stores bundles the three record sets the router serves.
type Stores struct {
	People   people.Store
	Stations stations.Store
	Medical  medical.Store
}

func NewRouter(stores Stores, service *alerts.Service, m *metrics.Metrics, logger *zap.Logger, version, runtimeVersion string) *mux.Router {
	var router = mux.NewRouter()
	router.Use(httputil.RequestLogger(logger))
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httputil.Error(w, httputil.ErrorNotFound, "no such endpoint: "+r.URL.Path, http.StatusNotFound)
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httputil.Error(w, httputil.ErrorInvalidRequest, r.Method+" not allowed on "+r.URL.Path, http.StatusMethodNotAllowed)
	})

	var queryMethods = []string{http.MethodGet, http.MethodOptions}
	router.Handle("/firestation", CoverageHandler(service, m, logger)).
		Methods(queryMethods...)
	router.Handle("/childAlert", ChildAlertHandler(service, m, logger)).
		Methods(queryMethods...)
	router.Handle("/phoneAlert", PhoneAlertHandler(service, m, logger)).
		Methods(queryMethods...)
	router.Handle("/fire", FireHandler(service, m, logger)).
		Methods(queryMethods...)
	router.Handle("/fire/station", FireStationOfHandler(service, m, logger)).
		Methods(queryMethods...)
	router.Handle("/flood/stations", FloodHandler(service, m, logger)).
		Methods(queryMethods...)
	router.Handle("/personInfo", PersonInfoHandler(service, m, logger)).
		Methods(queryMethods...)
	router.Handle("/communityEmail", CommunityEmailHandler(service, m, logger)).
		Methods(queryMethods...)

	var peopleAPI = PeopleAPIHandler(stores.People, logger)
	router.Handle("/persons", peopleAPI).
		Methods(http.MethodGet, http.MethodPost)
	router.Handle("/persons/{lastName}/{firstName}", peopleAPI).
		Methods(http.MethodPut, http.MethodDelete)

	var stationsAPI = StationsAPIHandler(stores.Stations, logger)
	router.Handle("/firestations", stationsAPI).
		Methods(http.MethodGet, http.MethodPost)
	router.Handle("/firestations/station/{stationNumber}", DeleteStationHandler(stores.Stations, logger)).
		Methods(http.MethodDelete)
	router.Handle("/firestations/address/{address}", stationsAPI).
		Methods(http.MethodDelete)
	router.Handle("/firestations/{address}", stationsAPI).
		Methods(http.MethodPut)

	var medicalAPI = MedicalAPIHandler(stores.Medical, logger)
	router.Handle("/medicalRecords", medicalAPI).
		Methods(http.MethodGet, http.MethodPost)
	router.Handle("/medicalRecords/{lastName}/{firstName}", medicalAPI).
		Methods(http.MethodPut, http.MethodDelete)

	router.Handle("/health", HealthHandler(map[string]Pinger{
		"persons":        stores.People,
		"firestations":   stores.Stations,
		"medicalrecords": stores.Medical,
	}, logger)).
		Methods(http.MethodGet)
	router.Handle("/info", InfoHandler(version, runtimeVersion)).
		Methods(http.MethodGet)
	router.Handle("/metrics", m.Handler()).
		Methods(http.MethodGet)

	return router
}
