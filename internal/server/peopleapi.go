package server

import (
	"net/http"

	"github.com/cwkr/safetynet/internal/httputil"
	"github.com/cwkr/safetynet/internal/people"
	"github.com/cwkr/safetynet/internal/stringutil"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

var personErrors = storeErrors{notFound: people.ErrPersonNotFound, readOnly: people.ErrReadOnly}

type peopleAPIHandler struct {
	peopleStore people.Store
	logger      *zap.Logger
}

func (p *peopleAPIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var pathVars = mux.Vars(r)
	var firstName, lastName = pathVars["firstName"], pathVars["lastName"]

	switch r.Method {
	case http.MethodGet:
		if persons, err := p.peopleStore.All(); err != nil {
			personErrors.write(w, p.logger, err)
		} else {
			httputil.JSON(w, persons, http.StatusOK)
		}
	case http.MethodPost:
		var person people.Person
		if !decodeBody(w, r, &person) {
			return
		}
		if stringutil.IsAnyBlank(person.FirstName, person.LastName) {
			httputil.Error(w, httputil.ErrorInvalidRequest, "firstName and lastName are required", http.StatusBadRequest)
			return
		}
		if err := p.peopleStore.Add(person); err != nil {
			personErrors.write(w, p.logger, err)
			return
		}
		httputil.JSON(w, person, http.StatusCreated)
	case http.MethodPut:
		var person people.Person
		if !decodeBody(w, r, &person) {
			return
		}
		if err := p.peopleStore.Update(firstName, lastName, person); err != nil {
			personErrors.write(w, p.logger, err)
			return
		}
		if updated, err := p.peopleStore.Lookup(firstName, lastName); err != nil {
			personErrors.write(w, p.logger, err)
		} else {
			httputil.JSON(w, updated, http.StatusOK)
		}
	case http.MethodDelete:
		if err := p.peopleStore.Delete(firstName, lastName); err != nil {
			personErrors.write(w, p.logger, err)
			return
		}
		httputil.NoCache(w)
		w.WriteHeader(http.StatusNoContent)
	}
}

func PeopleAPIHandler(peopleStore people.Store, logger *zap.Logger) http.Handler {
	return &peopleAPIHandler{
		peopleStore: peopleStore,
		logger:      logger,
	}
}
