// Copyright 2021 The apiclient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package metrics

import (
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/gogama/apiclient"
	"github.com/gogama/apiclient/apierr"
	"github.com/gogama/apiclient/request"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DefaultNamespace prefixes every metric name unless Options says
// otherwise.
const DefaultNamespace = "apiclient"

// Options configures New.
type Options struct {
	// Namespace prefixes every metric name. If empty, DefaultNamespace
	// is used.
	Namespace string
	// Registerer receives the metrics. If nil,
	// prometheus.DefaultRegisterer is used.
	Registerer prometheus.Registerer
}

// Plugin records Prometheus metrics for every attempt and every
// terminal outcome. It never changes requests, results, or errors.
//
// Plugin is safe for concurrent use by multiple goroutines.
type Plugin struct {
	apiclient.NopPlugin

	attempts   *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	inFlight   prometheus.Gauge
	failures   *prometheus.CounterVec
	deliveries prometheus.Counter

	mu      sync.Mutex
	started map[*request.Request]time.Time
}

// New registers the metrics and returns a plug-in which records them.
// It panics if a metric of the same name is already registered.
func New(opts Options) *Plugin {
	ns := opts.Namespace
	if ns == "" {
		ns = DefaultNamespace
	}
	reg := opts.Registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Plugin{
		attempts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "attempts_total",
			Help:      "Transport attempts by method and status code.",
		}, []string{"method", "status_code"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "attempt_duration_seconds",
			Help:      "Duration of transport attempts in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		inFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "attempts_in_flight",
			Help:      "Transport attempts currently in flight.",
		}),
		failures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "failures_total",
			Help:      "Requests delivered as failures, by error kind.",
		}, []string{"kind"}),
		deliveries: f.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "deliveries_total",
			Help:      "Requests delivered successfully.",
		}),
		started: make(map[*request.Request]time.Time),
	}
}

// WillSend starts timing an attempt.
func (p *Plugin) WillSend(r *request.Request) {
	p.mu.Lock()
	p.started[r] = time.Now()
	p.mu.Unlock()
	p.inFlight.Inc()
}

// DidReceive records a concluded attempt. A transport failure counts
// under status code "error".
func (p *Plugin) DidReceive(resp *request.Response, r *request.Request) {
	p.mu.Lock()
	start, ok := p.started[r]
	delete(p.started, r)
	p.mu.Unlock()
	if !ok {
		return
	}

	p.inFlight.Dec()
	m := method(r)
	status := "error"
	if resp != nil {
		status = strconv.Itoa(resp.StatusCode)
	}
	p.attempts.WithLabelValues(m, status).Inc()
	p.duration.WithLabelValues(m).Observe(time.Since(start).Seconds())
}

// Process counts a successful delivery.
func (p *Plugin) Process(result interface{}) interface{} {
	p.deliveries.Inc()
	return result
}

// Decorate counts a failed delivery.
func (p *Plugin) Decorate(err error) error {
	p.failures.WithLabelValues(Kind(err)).Inc()
	return err
}

// Kind names the taxonomy branch of err: the network error code, or
// one of serialization, executor, resolution and undefined.
func Kind(err error) string {
	var re *apierr.ResolutionError
	if errors.As(err, &re) {
		return "resolution"
	}
	if code, ok := apierr.CodeOf(err); ok {
		return code.String()
	}
	var se *apierr.SerializationError
	if errors.As(err, &se) {
		return "serialization"
	}
	var ee *apierr.ExecutorError
	if errors.As(err, &ee) {
		return "executor"
	}
	return "undefined"
}

func method(r *request.Request) string {
	if r == nil || r.Method == "" {
		return "GET"
	}

	return r.Method
}
