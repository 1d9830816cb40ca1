package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cwkr/safetynet/internal/alerts"
	"github.com/cwkr/safetynet/internal/httputil"
	"github.com/cwkr/safetynet/internal/medical"
	"github.com/cwkr/safetynet/internal/metrics"
	"github.com/cwkr/safetynet/internal/people"
	"github.com/cwkr/safetynet/internal/stations"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	stores Stores
	router *mux.Router
}

func newFixture(t *testing.T, records []medical.MedicalRecord) *fixture {
	t.Helper()

	var stores = Stores{
		People: people.NewInMemoryStore([]people.Person{
			{FirstName: "John", LastName: "Boyd", Address: "1509 Culver St", City: "Culver", Phone: "841-874-6512", Email: "jaboyd@email.com"},
			{FirstName: "Tenley", LastName: "Boyd", Address: "1509 Culver St", City: "Culver", Phone: "841-874-6512", Email: "tenz@email.com"},
			{FirstName: "Peter", LastName: "Duncan", Address: "644 Gershwin Cir", City: "Culver", Phone: "841-874-6512", Email: "jaboyd@email.com"},
		}),
		Stations: stations.NewInMemoryStore([]stations.FireStation{
			{Address: "1509 Culver St", Station: 3},
			{Address: "644 Gershwin Cir", Station: 1},
		}),
		Medical: medical.NewInMemoryStore(records),
	}
	var service = alerts.NewService(stores.People, stores.Stations, stores.Medical, zap.NewNop())
	service.Now = func() time.Time { return time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC) }

	return &fixture{
		stores: stores,
		router: NewRouter(stores, service, metrics.New(), zap.NewNop(), "test", "go-test"),
	}
}

var boydRecords = []medical.MedicalRecord{
	{FirstName: "John", LastName: "Boyd", Birthdate: "03/06/1984", Medications: []string{"aznol:350mg"}, Allergies: []string{"nillacilan"}},
	{FirstName: "Tenley", LastName: "Boyd", Birthdate: "02/18/2012", Medications: []string{}, Allergies: []string{"peanut"}},
	{FirstName: "Peter", LastName: "Duncan", Birthdate: "09/06/2000", Medications: []string{}, Allergies: []string{"shellfish"}},
}

func (f *fixture) do(method, target, body string) *httptest.ResponseRecorder {
	var r = httptest.NewRequest(method, target, strings.NewReader(body))
	var w = httptest.NewRecorder()
	f.router.ServeHTTP(w, r)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestCoverageEndpoint(t *testing.T) {
	var f = newFixture(t, boydRecords)

	var w = f.do(http.MethodGet, "/firestation?stationNumber=3", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, w.Header().Get(httputil.RequestIDHeader))
	assert.Contains(t, w.Header().Get("Server-Timing"), "coverage_by_station;dur=")
	assert.Equal(t, "no-cache, no-store, must-revalidate", w.Header().Get("Cache-Control"))

	var coverage = decode[alerts.Coverage](t, w)
	assert.Len(t, coverage.Persons, 2)
	assert.Equal(t, 1, coverage.AdultCount)
	assert.Equal(t, 1, coverage.ChildCount)

	w = f.do(http.MethodGet, "/firestation?stationNumber=9", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"persons":[],"numberOfAdults":0,"numberOfChildren":0}`, w.Body.String())
}

func TestQueryParameterErrors(t *testing.T) {
	var f = newFixture(t, boydRecords)

	for _, target := range []string{
		"/firestation?stationNumber=three",
		"/firestation",
		"/phoneAlert?firestation=",
		"/childAlert",
		"/fire",
		"/communityEmail",
	} {
		var w = f.do(http.MethodGet, target, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
		assert.Equal(t, httputil.ErrorInvalidRequest, decode[httputil.ErrorResponse](t, w).Error, target)
	}
}

func TestQueryEndpoints(t *testing.T) {
	var f = newFixture(t, boydRecords)

	var w = f.do(http.MethodGet, "/childAlert?address=1509+culver+st", "")
	require.Equal(t, http.StatusOK, w.Code)
	var children = decode[[]alerts.ChildWithHousehold](t, w)
	require.Len(t, children, 1)
	assert.Equal(t, "Tenley", children[0].FirstName)
	assert.Equal(t, 12, children[0].Age)

	w = f.do(http.MethodGet, "/phoneAlert?firestation=1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `["841-874-6512"]`, w.Body.String())

	w = f.do(http.MethodGet, "/fire?address=+1509+Culver+St+", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]alerts.ResidentWithMedical](t, w), 2)

	w = f.do(http.MethodGet, "/personInfo?lastName=boyd", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]alerts.ResidentWithMedical](t, w), 2)

	w = f.do(http.MethodGet, "/personInfo", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = f.do(http.MethodGet, "/communityEmail?city=Culver", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `["jaboyd@email.com","tenz@email.com","jaboyd@email.com"]`, w.Body.String())

	w = f.do(http.MethodGet, "/communityEmail?city=Nowhere", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestFloodEndpoint(t *testing.T) {
	var f = newFixture(t, boydRecords)

	var w = f.do(http.MethodGet, "/flood/stations?stations=3,+1&stations=3", "")
	require.Equal(t, http.StatusOK, w.Code)
	var households = decode[[]alerts.Household](t, w)
	require.Len(t, households, 2)
	assert.Equal(t, "1509 Culver St", households[0].Address)
	assert.Len(t, households[0].Residents, 2)
	assert.Equal(t, "644 Gershwin Cir", households[1].Address)

	w = f.do(http.MethodGet, "/flood/stations?stations=03", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = f.do(http.MethodGet, "/flood/stations", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestFireStationOfEndpoint(t *testing.T) {
	var f = newFixture(t, boydRecords)

	var w = f.do(http.MethodGet, "/fire/station?address=644+gershwin+cir", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[stations.FireStation](t, w).Station)

	w = f.do(http.MethodGet, "/fire/station?address=nowhere", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, httputil.ErrorNotFound, decode[httputil.ErrorResponse](t, w).Error)
}

func TestInvalidBirthdateIsServerError(t *testing.T) {
	var f = newFixture(t, []medical.MedicalRecord{
		{FirstName: "John", LastName: "Boyd", Birthdate: "1984-03-06"},
	})

	var w = f.do(http.MethodGet, "/firestation?stationNumber=3", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, httputil.ErrorInternal, decode[httputil.ErrorResponse](t, w).Error)

	// phoneAlert never consults medical records
	w = f.do(http.MethodGet, "/phoneAlert?firestation=3", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestQueryPreflight(t *testing.T) {
	var f = newFixture(t, boydRecords)

	var r = httptest.NewRequest(http.MethodOptions, "/fire?address=x", nil)
	r.Header.Set("Origin", "https://dispatch.example")
	var w = httptest.NewRecorder()
	f.router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://dispatch.example", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, OPTIONS", w.Header().Get("Allow"))
}

func TestUnknownEndpoint(t *testing.T) {
	var f = newFixture(t, boydRecords)

	var w = f.do(http.MethodGet, "/nowhere", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, httputil.ErrorNotFound, decode[httputil.ErrorResponse](t, w).Error)
}

type downStore struct {
	people.Store
}

func (downStore) Ping() error {
	return errors.New("connection refused")
}

func TestHealthAndInfo(t *testing.T) {
	var f = newFixture(t, boydRecords)

	var w = f.do(http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"UP","stores":{"persons":"UP","firestations":"UP","medicalrecords":"UP"}}`, w.Body.String())

	w = f.do(http.MethodGet, "/info", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"service":"safetynet","version":"test","go_version":"go-test"}`, w.Body.String())

	var down = HealthHandler(map[string]Pinger{"persons": downStore{}}, zap.NewNop())
	w = httptest.NewRecorder()
	down.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"DOWN","stores":{"persons":"connection refused"}}`, w.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	var f = newFixture(t, boydRecords)

	f.do(http.MethodGet, "/communityEmail?city=Culver", "")
	var w = f.do(http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `safetynet_query_total{operation="community_email",result="ok"} 1`)
}
