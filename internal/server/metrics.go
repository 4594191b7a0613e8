// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// LatencyBuckets are the request latency histogram buckets.
var LatencyBuckets = []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0}

// Metrics holds the Prometheus metrics of a Server.  Each Metrics has
// its own registry.
type Metrics struct {
	reg *prometheus.Registry

	// RequestDuration tracks request duration by route.
	RequestDuration *prometheus.HistogramVec

	// Generated counts generated images by format and level.
	Generated *prometheus.CounterVec

	// Failures counts failed generations by error code.
	Failures *prometheus.CounterVec

	// InFlight is the number of requests being served.
	InFlight prometheus.Gauge
}

// NewMetrics creates and registers the server metrics, along with the
// Go runtime and process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "qr_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: LatencyBuckets,
			},
			[]string{"method", "route", "status_code"},
		),
		Generated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "qr_generated_total",
				Help: "Total QR code images generated",
			},
			[]string{"format", "level"},
		),
		Failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "qr_generate_failures_total",
				Help: "Total failed QR code generations",
			},
			[]string{"code"},
		),
		InFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "qr_http_in_flight_requests",
				Help: "Number of in-flight requests",
			},
		),
	}
	m.reg.MustRegister(
		m.RequestDuration,
		m.Generated,
		m.Failures,
		m.InFlight,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler returns the handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// instrument wraps h to record its duration under route.
func (m *Metrics) instrument(route string, h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		m.InFlight.Inc()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		defer func() {
			m.InFlight.Dec()
			m.RequestDuration.WithLabelValues(
				r.Method,
				route,
				strconv.Itoa(rw.statusCode),
			).Observe(time.Since(start).Seconds())
		}()
		h.ServeHTTP(rw, r)
	})
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    int64
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}
