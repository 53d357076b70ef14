package rdbms

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	queriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rdbms_queries_total",
		Help: "Statements sent to the remote engine, by outcome.",
	}, []string{"outcome"})

	queryDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "rdbms_query_duration_seconds",
		Help:    "Round-trip latency of remote engine statements.",
		Buckets: prometheus.DefBuckets,
	})
)
