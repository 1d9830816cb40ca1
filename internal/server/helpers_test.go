package server

import (
	"net/http"
	"net/http/httptest"
	"strings"

	"go.uber.org/zap"
)

var nopLogger = zap.NewNop()

func newRecorder(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, target, strings.NewReader(body)))
	return w
}
