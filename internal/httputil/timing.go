package httputil

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"
)

type metric struct {
	start, duration int64
}

// Timing collects named durations for the Server-Timing response header.
type Timing struct {
	metrics map[string]metric
}

func NewTiming() *Timing {
	return &Timing{metrics: map[string]metric{}}
}

func (t *Timing) Start(name string) {
	var m = t.metrics[name]
	m.start = time.Now().UnixMicro()
	t.metrics[name] = m
}

func (t *Timing) Stop(name string) {
	var m = t.metrics[name]
	m.duration += time.Now().UnixMicro() - m.start
	t.metrics[name] = m
}

func (t Timing) Report(w http.ResponseWriter) {
	var names = make([]string, 0, len(t.metrics))
	for name := range t.metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	var values = make([]string, 0, len(names))
	for _, name := range names {
		values = append(values, fmt.Sprintf("%s;dur=%.01f", name, float64(t.metrics[name].duration)/1000))
	}
	w.Header().Set("Server-Timing", strings.Join(values, ","))
}
