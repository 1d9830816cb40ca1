package server

import (
	"net/http"

	"github.com/cwkr/safetynet/internal/httputil"
	"github.com/cwkr/safetynet/internal/medical"
	"github.com/cwkr/safetynet/internal/stringutil"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

var recordErrors = storeErrors{notFound: medical.ErrRecordNotFound, readOnly: medical.ErrReadOnly}

type medicalAPIHandler struct {
	medicalStore medical.Store
	logger       *zap.Logger
}

func (m *medicalAPIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var pathVars = mux.Vars(r)
	var firstName, lastName = pathVars["firstName"], pathVars["lastName"]

	switch r.Method {
	case http.MethodGet:
		if records, err := m.medicalStore.All(); err != nil {
			recordErrors.write(w, m.logger, err)
		} else {
			httputil.JSON(w, records, http.StatusOK)
		}
	case http.MethodPost:
		var record medical.MedicalRecord
		if !decodeBody(w, r, &record) {
			return
		}
		if stringutil.IsAnyBlank(record.FirstName, record.LastName) {
			httputil.Error(w, httputil.ErrorInvalidRequest, "firstName and lastName are required", http.StatusBadRequest)
			return
		}
		if err := m.medicalStore.Add(record); err != nil {
			recordErrors.write(w, m.logger, err)
			return
		}
		httputil.JSON(w, record, http.StatusCreated)
	case http.MethodPut:
		var record medical.MedicalRecord
		if !decodeBody(w, r, &record) {
			return
		}
		if err := m.medicalStore.Update(firstName, lastName, record); err != nil {
			recordErrors.write(w, m.logger, err)
			return
		}
		if updated, err := m.medicalStore.Lookup(firstName, lastName); err != nil {
			recordErrors.write(w, m.logger, err)
		} else {
			httputil.JSON(w, updated, http.StatusOK)
		}
	case http.MethodDelete:
		if err := m.medicalStore.Delete(firstName, lastName); err != nil {
			recordErrors.write(w, m.logger, err)
			return
		}
		httputil.NoCache(w)
		w.WriteHeader(http.StatusNoContent)
	}
}

func MedicalAPIHandler(medicalStore medical.Store, logger *zap.Logger) http.Handler {
	return &medicalAPIHandler{
		medicalStore: medicalStore,
		logger:       logger,
	}
}
