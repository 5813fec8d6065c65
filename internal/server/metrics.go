package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bountyviz_http_requests_total",
		Help: "Total number of HTTP requests by route, mode and status",
	}, []string{"route", "mode", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bountyviz_http_request_duration_seconds",
		Help:    "Duration of HTTP requests by route",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	degradedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bountyviz_degraded_responses_total",
		Help: "Responses served with an empty dataset after a store failure",
	}, []string{"visualization"})
)
