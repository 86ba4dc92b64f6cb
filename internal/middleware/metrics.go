package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RedisErrors counts Redis command failures by command name. The cache
// package increments it from a go-redis hook so cache degradation stays
// visible even though the application continues without Redis.
var RedisErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "fritter_redis_errors_total",
		Help: "Total number of Redis command errors.",
	},
	[]string{"command"},
)

// GraphMutations counts relationship mutations by operation and outcome.
var GraphMutations = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "fritter_graph_mutations_total",
		Help: "Total number of relationship graph mutations.",
	},
	[]string{"operation", "outcome"},
)

// InitMetrics creates the Prometheus HTTP middleware for the given service name.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}
