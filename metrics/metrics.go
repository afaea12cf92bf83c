// Package metrics instruments chain validation and key store activity with
// Prometheus collectors: counters and a histogram over validation outcomes
// and error codes, and a counter of key store mutations.
package metrics

import (
	"net/http"
	"runtime"
	"time"

	lib "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder records outcomes for chain validation and key store
// mutations. A nil *Recorder is safe to call methods on: every
// method is a no-op, so instrumentation is always optional at the call
// site.
type Recorder struct {
	registry    *lib.Registry
	validations *lib.CounterVec
	latency     *lib.HistogramVec
	keyStoreOps *lib.CounterVec
}

// New builds a Recorder backed by a fresh registry that also exports Go
// runtime and process collectors.
func New() (*Recorder, error) {
	reg := lib.NewRegistry()
	r := &Recorder{
		registry: reg,
		validations: lib.NewCounterVec(lib.CounterOpts{
			Namespace: "zcap",
			Subsystem: "chain",
			Name:      "validations_total",
			Help:      "Total chain validations, labeled by outcome and error code.",
		}, []string{"outcome", "error_code"}),
		latency: lib.NewHistogramVec(lib.HistogramOpts{
			Namespace: "zcap",
			Subsystem: "chain",
			Name:      "validation_duration_seconds",
			Help:      "Chain validation latency in seconds.",
			Buckets:   lib.DefBuckets,
		}, []string{"outcome"}),
		keyStoreOps: lib.NewCounterVec(lib.CounterOpts{
			Namespace: "zcap",
			Subsystem: "keystore",
			Name:      "operations_total",
			Help:      "Key store mutations, labeled by operation.",
		}, []string{"operation"}),
	}
	if err := reg.Register(collectors.NewGoCollector()); err != nil {
		return nil, err
	}
	if runtime.GOOS == "linux" || runtime.GOOS == "windows" {
		if err := reg.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
			return nil, err
		}
	}
	if err := reg.Register(r.validations); err != nil {
		return nil, err
	}
	if err := reg.Register(r.latency); err != nil {
		return nil, err
	}
	if err := reg.Register(r.keyStoreOps); err != nil {
		return nil, err
	}
	return r, nil
}

// Handler returns the HTTP handler a host mounts to expose this recorder's
// metrics for scraping.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// ObserveValidation records a chain validation outcome and its latency.
// errorCode is "" for a successful validation.
func (r *Recorder) ObserveValidation(isValid bool, errorCode string, elapsed time.Duration) {
	if r == nil {
		return
	}
	outcome := "valid"
	if !isValid {
		outcome = "invalid"
	}
	r.validations.WithLabelValues(outcome, errorCode).Inc()
	r.latency.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// ObserveKeyStoreOp records a key store mutation, e.g. "insert", "remove".
func (r *Recorder) ObserveKeyStoreOp(operation string) {
	if r == nil {
		return
	}
	r.keyStoreOps.WithLabelValues(operation).Inc()
}
