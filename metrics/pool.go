package metrics

import (
	"context"
	"fmt"

	"github.com/AdguardTeam/golibs/container"
	"github.com/AdguardTeam/golibs/errors"
	"github.com/AdguardTeam/redispool"
	"github.com/gomodule/redigo/redis"
	"github.com/prometheus/client_golang/prometheus"
)

// Pool is the Prometheus-based implementation of the [redispool.PoolMetrics]
// interface.
type Pool struct {
	// activeConnections is a gauge with the total number of connections in the
	// pool.  The count includes idle connections and connections in use.
	activeConnections prometheus.Gauge

	// idleConnections is a gauge with the number of idle connections in the
	// pool.
	idleConnections prometheus.Gauge

	// errors is a counter of errors of getting a connection from the pool.
	errors prometheus.Counter
}

// NewPool registers the pool metrics in reg and returns a properly initialized
// *Pool.
func NewPool(namespace string, reg prometheus.Registerer) (m *Pool, err error) {
	const (
		activeConnections = "active_connections"
		idleConnections   = "idle_connections"
		poolErrors        = "errors_total"
	)

	m = &Pool{
		activeConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:      activeConnections,
			Subsystem: subsystemPool,
			Namespace: namespace,
			Help:      "Total number of connections in the pool, idle and in use.",
		}),
		idleConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:      idleConnections,
			Subsystem: subsystemPool,
			Namespace: namespace,
			Help:      "Number of idle connections in the pool.",
		}),
		errors: prometheus.NewCounter(prometheus.CounterOpts{
			Name:      poolErrors,
			Subsystem: subsystemPool,
			Namespace: namespace,
			Help:      "Total number of errors of getting a connection from the pool.",
		}),
	}

	var errs []error
	collectors := container.KeyValues[string, prometheus.Collector]{{
		Key:   activeConnections,
		Value: m.activeConnections,
	}, {
		Key:   idleConnections,
		Value: m.idleConnections,
	}, {
		Key:   poolErrors,
		Value: m.errors,
	}}

	for _, c := range collectors {
		err = reg.Register(c.Value)
		if err != nil {
			errs = append(errs, fmt.Errorf("registering metrics %q: %w", c.Key, err))
		}
	}

	if err = errors.Join(errs...); err != nil {
		return nil, err
	}

	return m, nil
}

// type check
var _ redispool.PoolMetrics = (*Pool)(nil)

// Update implements the [redispool.PoolMetrics] interface for *Pool.
func (m *Pool) Update(_ context.Context, s redis.PoolStats, err error) {
	m.activeConnections.Set(float64(s.ActiveCount))
	m.idleConnections.Set(float64(s.IdleCount))

	if err != nil {
		m.errors.Inc()
	}
}
