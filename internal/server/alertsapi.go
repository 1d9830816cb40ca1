package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cwkr/safetynet/internal/alerts"
	"github.com/cwkr/safetynet/internal/httputil"
	"github.com/cwkr/safetynet/internal/metrics"
	"github.com/cwkr/safetynet/internal/stations"
	"github.com/cwkr/safetynet/internal/stringutil"
	"go.uber.org/zap"
)

// parameterError marks a request the caller has to fix.
type parameterError struct {
	message string
}

func (p parameterError) Error() string {
	return p.message
}

// query runs one aggregation and reports the result and how many entries it holds.
type query func(r *http.Request) (any, int, error)

type queryHandler struct {
	operation string
	run       query
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

func (q *queryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	httputil.AllowCORS(w, r, []string{http.MethodGet, http.MethodOptions}, false)

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	var (
		start  = time.Now()
		timing = httputil.NewTiming()
	)

	timing.Start(q.operation)
	result, count, err := q.run(r)
	timing.Stop(q.operation)
	timing.Report(w)

	if err != nil {
		var badRequest parameterError
		switch {
		case errors.As(err, &badRequest):
			q.metrics.ObserveQuery(q.operation, metrics.ResultError, start)
			httputil.Error(w, httputil.ErrorInvalidRequest, err.Error(), http.StatusBadRequest)
		case errors.Is(err, stations.ErrStationNotFound):
			q.metrics.ObserveQuery(q.operation, metrics.ResultEmpty, start)
			httputil.Error(w, httputil.ErrorNotFound, err.Error(), http.StatusNotFound)
		default:
			q.metrics.ObserveQuery(q.operation, metrics.ResultError, start)
			q.logger.Error("query failed", zap.String("operation", q.operation), zap.Error(err))
			httputil.Error(w, httputil.ErrorInternal, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	if count == 0 {
		q.metrics.ObserveQuery(q.operation, metrics.ResultEmpty, start)
	} else {
		q.metrics.ObserveQuery(q.operation, metrics.ResultOK, start)
	}
	httputil.JSON(w, result, http.StatusOK)
}

func requiredParameter(r *http.Request, name string) (string, error) {
	var values, found = r.URL.Query()[name]
	if !found || len(values) == 0 {
		return "", parameterError{name + " parameter is required"}
	}
	return values[0], nil
}

func stationParameter(r *http.Request, name string) (int, error) {
	value, err := requiredParameter(r, name)
	if err != nil {
		return 0, err
	}
	station, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, parameterError{name + " must be an integer"}
	}
	return station, nil
}

// stationsParameter accepts repeated and comma separated values: stations=1,2&stations=3.
func stationsParameter(r *http.Request, name string) []string {
	var stationNumbers []string
	for _, value := range r.URL.Query()[name] {
		stationNumbers = append(stationNumbers, stringutil.SplitList(value)...)
	}
	return stationNumbers
}

func CoverageHandler(service *alerts.Service, m *metrics.Metrics, logger *zap.Logger) http.Handler {
	return &queryHandler{operation: "coverage_by_station", metrics: m, logger: logger, run: func(r *http.Request) (any, int, error) {
		station, err := stationParameter(r, "stationNumber")
		if err != nil {
			return nil, 0, err
		}
		coverage, err := service.CoverageByStation(station)
		if err != nil {
			return nil, 0, err
		}
		return coverage, len(coverage.Persons), nil
	}}
}

func ChildAlertHandler(service *alerts.Service, m *metrics.Metrics, logger *zap.Logger) http.Handler {
	return &queryHandler{operation: "children_by_address", metrics: m, logger: logger, run: func(r *http.Request) (any, int, error) {
		address, err := requiredParameter(r, "address")
		if err != nil {
			return nil, 0, err
		}
		children, err := service.ChildrenByAddress(address)
		return children, len(children), err
	}}
}

func PhoneAlertHandler(service *alerts.Service, m *metrics.Metrics, logger *zap.Logger) http.Handler {
	return &queryHandler{operation: "phone_alert", metrics: m, logger: logger, run: func(r *http.Request) (any, int, error) {
		station, err := stationParameter(r, "firestation")
		if err != nil {
			return nil, 0, err
		}
		phones, err := service.PhoneAlert(station)
		return phones, len(phones), err
	}}
}

func FireHandler(service *alerts.Service, m *metrics.Metrics, logger *zap.Logger) http.Handler {
	return &queryHandler{operation: "fire_info", metrics: m, logger: logger, run: func(r *http.Request) (any, int, error) {
		address, err := requiredParameter(r, "address")
		if err != nil {
			return nil, 0, err
		}
		residents, err := service.FireInfo(address)
		return residents, len(residents), err
	}}
}

func FireStationOfHandler(service *alerts.Service, m *metrics.Metrics, logger *zap.Logger) http.Handler {
	return &queryHandler{operation: "station_of", metrics: m, logger: logger, run: func(r *http.Request) (any, int, error) {
		address, err := requiredParameter(r, "address")
		if err != nil {
			return nil, 0, err
		}
		station, err := service.StationOf(address)
		if err != nil {
			return nil, 0, err
		}
		return stations.FireStation{Address: strings.TrimSpace(address), Station: station}, 1, nil
	}}
}

func FloodHandler(service *alerts.Service, m *metrics.Metrics, logger *zap.Logger) http.Handler {
	return &queryHandler{operation: "flood_info", metrics: m, logger: logger, run: func(r *http.Request) (any, int, error) {
		households, err := service.FloodInfo(stationsParameter(r, "stations"))
		return households, len(households), err
	}}
}

func PersonInfoHandler(service *alerts.Service, m *metrics.Metrics, logger *zap.Logger) http.Handler {
	return &queryHandler{operation: "residents_by_last_name", metrics: m, logger: logger, run: func(r *http.Request) (any, int, error) {
		residents, err := service.ResidentsByLastName(r.URL.Query().Get("lastName"))
		return residents, len(residents), err
	}}
}

func CommunityEmailHandler(service *alerts.Service, m *metrics.Metrics, logger *zap.Logger) http.Handler {
	return &queryHandler{operation: "community_email", metrics: m, logger: logger, run: func(r *http.Request) (any, int, error) {
		city, err := requiredParameter(r, "city")
		if err != nil {
			return nil, 0, err
		}
		emails, err := service.CommunityEmail(city)
		return emails, len(emails), err
	}}
}
