package metric

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	// EntriesCounterName counts navbar entries by registration action.
	EntriesCounterName = "navbar_entries_total"

	// RoutesCounterName counts declared routes by whether they carry navbar metadata.
	RoutesCounterName = "navbar_routes_total"
)

// IncrementalCounter is the subset of a counter vector the navbar needs.
type IncrementalCounter interface {
	Increment(val ...string)
}

// Counter wraps a Prometheus counter vector.
type Counter struct {
	Name string
	Help string

	vec *prometheus.CounterVec
}

// Increment adds one to the series identified by the label values.
func (c *Counter) Increment(val ...string) {
	c.vec.WithLabelValues(val...).Inc()
}

// Vec exposes the underlying vector, mostly for tests.
func (c *Counter) Vec() *prometheus.CounterVec {
	return c.vec
}

// NewCounter registers a counter with the default registerer.
func NewCounter(name, help string, labels ...string) *Counter {
	return NewCounterWithRegistry(prometheus.DefaultRegisterer, name, help, labels...)
}

// NewCounterWithRegistry registers a counter with reg. When a counter with the
// same descriptor is already registered, that one is reused so several routers
// can report into one registry.
func NewCounterWithRegistry(reg prometheus.Registerer, name, help string, labels ...string) *Counter {
	vec := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: name,
		Help: help,
	}, labels)

	if err := reg.Register(vec); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			panic(err)
		}
		existing, ok := are.ExistingCollector.(*prometheus.CounterVec)
		if !ok {
			panic(err)
		}
		vec = existing
	}

	return &Counter{
		Name: name,
		Help: help,
		vec:  vec,
	}
}

// NewEntriesCounter registers the navbar entries counter, labeled by action.
func NewEntriesCounter(reg prometheus.Registerer) *Counter {
	return NewCounterWithRegistry(reg, EntriesCounterName,
		"Number of navbar entries created, upgraded or updated.", "action")
}

// NewRoutesCounter registers the declared routes counter, labeled by navbar=true|false.
func NewRoutesCounter(reg prometheus.Registerer) *Counter {
	return NewCounterWithRegistry(reg, RoutesCounterName,
		"Number of declared routes.", "navbar")
}

// GetHandler returns an HTTP handler for serving Prometheus metrics.
func GetHandler() http.Handler {
	return promhttp.Handler()
}

// GetHandlerForRegistry returns an HTTP handler for serving Prometheus metrics from a custom registry.
func GetHandlerForRegistry(reg prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
