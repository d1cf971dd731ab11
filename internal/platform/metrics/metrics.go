// Copyright (c) 2026 Receitaria. All rights reserved.
// Author: dev@receitaria.app

/*
Package metrics exposes Prometheus instrumentation for the API.

It follows the constructor-injection convention used across the platform:
a [Metrics] value is built once in main, registered against a registry, and
handed to the layers that record observations. No package-level mutable state.
*/
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles every collector the API records into.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP surface.
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	inflight        prometheus.Gauge

	// Credential lifecycle.
	loginsTotal        *prometheus.CounterVec
	revocationsTotal   prometheus.Counter
	resetRequestsTotal prometheus.Counter
	sweepsTotal        prometheus.Counter
	sweptTokensTotal   prometheus.Counter
}

// New builds and registers every collector on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests processed, by method, route and status.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency distribution.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		inflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "Requests currently being served.",
		}),
		loginsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_logins_total",
			Help: "Login attempts by outcome (success or failure).",
		}, []string{"outcome"}),
		revocationsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "auth_token_revocations_total",
			Help: "Access tokens added to the revocation blocklist.",
		}),
		resetRequestsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "auth_password_reset_requests_total",
			Help: "Password reset challenges issued.",
		}),
		sweepsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "auth_blocklist_sweeps_total",
			Help: "Completed blocklist sweep runs.",
		}),
		sweptTokensTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "auth_blocklist_swept_tokens_total",
			Help: "Expired blocklist rows removed by the sweeper.",
		}),
	}

	registry.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.inflight,
		m.loginsTotal,
		m.revocationsTotal,
		m.resetRequestsTotal,
		m.sweepsTotal,
		m.sweptTokensTotal,
	)

	return m
}

// RegisterPool adds a collector exposing pgxpool connection gauges.
func (m *Metrics) RegisterPool(pool *pgxpool.Pool) {
	m.registry.MustRegister(newPoolCollector(pool))
}

// Handler returns the HTTP handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordLogin increments the login counter for the given outcome.
func (m *Metrics) RecordLogin(success bool) {
	outcome := "failure"
	if success {
		outcome = "success"
	}
	m.loginsTotal.WithLabelValues(outcome).Inc()
}

// RecordRevocation counts a token added to the blocklist.
func (m *Metrics) RecordRevocation() {
	m.revocationsTotal.Inc()
}

// RecordResetRequest counts an issued password reset challenge.
func (m *Metrics) RecordResetRequest() {
	m.resetRequestsTotal.Inc()
}

// RecordSweep counts a completed sweep run and the rows it removed.
func (m *Metrics) RecordSweep(removed int64) {
	m.sweepsTotal.Inc()
	m.sweptTokensTotal.Add(float64(removed))
}

// Instrument wraps an HTTP handler with request counting and latency
// observation. The route label groups by chi route pattern supplied by the
// caller; raw URL paths are never used as labels to keep cardinality bounded.
func (m *Metrics) Instrument(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		m.inflight.Inc()
		start := time.Now()

		recorder := &metricsRecorder{ResponseWriter: writer}
		defer func() {
			m.inflight.Dec()
			m.requestDuration.WithLabelValues(request.Method, route).Observe(time.Since(start).Seconds())

			status := recorder.status
			if status == 0 {
				status = http.StatusOK
			}
			m.requestsTotal.WithLabelValues(request.Method, route, strconv.Itoa(status)).Inc()
		}()

		next.ServeHTTP(recorder, request)
	})
}

// metricsRecorder captures the response status for labeling.
type metricsRecorder struct {
	http.ResponseWriter
	status int
}

func (r *metricsRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// poolCollector exposes pgxpool statistics as gauges.
type poolCollector struct {
	pool *pgxpool.Pool

	acquiredDesc *prometheus.Desc
	idleDesc     *prometheus.Desc
	totalDesc    *prometheus.Desc
}

func newPoolCollector(pool *pgxpool.Pool) *poolCollector {
	return &poolCollector{
		pool:         pool,
		acquiredDesc: prometheus.NewDesc("pg_pool_acquired_conns", "Connections currently acquired from the pool.", nil, nil),
		idleDesc:     prometheus.NewDesc("pg_pool_idle_conns", "Idle connections in the pool.", nil, nil),
		totalDesc:    prometheus.NewDesc("pg_pool_total_conns", "Total connections managed by the pool.", nil, nil),
	}
}

func (c *poolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.acquiredDesc
	ch <- c.idleDesc
	ch <- c.totalDesc
}

func (c *poolCollector) Collect(ch chan<- prometheus.Metric) {
	stat := c.pool.Stat()
	ch <- prometheus.MustNewConstMetric(c.acquiredDesc, prometheus.GaugeValue, float64(stat.AcquiredConns()))
	ch <- prometheus.MustNewConstMetric(c.idleDesc, prometheus.GaugeValue, float64(stat.IdleConns()))
	ch <- prometheus.MustNewConstMetric(c.totalDesc, prometheus.GaugeValue, float64(stat.TotalConns()))
}
