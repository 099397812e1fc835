package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/AdguardTeam/golibs/container"
	"github.com/AdguardTeam/golibs/errors"
	"github.com/AdguardTeam/redispool"
	"github.com/prometheus/client_golang/prometheus"
)

// Manager is the Prometheus-based implementation of the [redispool.Metrics]
// interface.
type Manager struct {
	// createDuration is a histogram with the durations of dialing new
	// connections, including failed dials.
	createDuration prometheus.Observer

	// createErrors is a counter of failed dials.
	createErrors prometheus.Counter

	// recyclesReused, recyclesExpired, and recyclesProbeError are counters of
	// recycle checks partitioned by their outcome.
	recyclesReused     prometheus.Counter
	recyclesExpired    prometheus.Counter
	recyclesProbeError prometheus.Counter
}

// NewManager registers the connection-lifecycle metrics in reg and returns a
// properly initialized *Manager.
func NewManager(namespace string, reg prometheus.Registerer) (m *Manager, err error) {
	const (
		createDuration = "connection_create_duration_seconds"
		createErrors   = "connection_create_errors_total"
		recycles       = "connection_recycles_total"
	)

	createDurationHist := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:      createDuration,
		Subsystem: subsystemPool,
		Namespace: namespace,
		Help:      "Duration of dialing a single new connection, including failed dials.",
		Buckets:   []float64{0.001, 0.010, 0.100, 1, 10},
	})

	createErrorsCnt := prometheus.NewCounter(prometheus.CounterOpts{
		Name:      createErrors,
		Subsystem: subsystemPool,
		Namespace: namespace,
		Help:      "Total number of failed dials of new connections.",
	})

	recyclesVec := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:      recycles,
		Subsystem: subsystemPool,
		Namespace: namespace,
		Help: "Total number of recycle checks of pooled connections. " +
			"Label status is the outcome of the check.",
	}, []string{"status"})

	m = &Manager{
		createDuration:     createDurationHist,
		createErrors:       createErrorsCnt,
		recyclesReused:     recyclesVec.WithLabelValues(redispool.RecycleStatusReused),
		recyclesExpired:    recyclesVec.WithLabelValues(redispool.RecycleStatusExpired),
		recyclesProbeError: recyclesVec.WithLabelValues(redispool.RecycleStatusProbeError),
	}

	var errs []error
	collectors := container.KeyValues[string, prometheus.Collector]{{
		Key:   createDuration,
		Value: createDurationHist,
	}, {
		Key:   createErrors,
		Value: createErrorsCnt,
	}, {
		Key:   recycles,
		Value: recyclesVec,
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
var _ redispool.Metrics = (*Manager)(nil)

// ObserveCreate implements the [redispool.Metrics] interface for *Manager.
func (m *Manager) ObserveCreate(_ context.Context, dur time.Duration, err error) {
	m.createDuration.Observe(dur.Seconds())

	if err != nil {
		m.createErrors.Inc()
	}
}

// ObserveRecycle implements the [redispool.Metrics] interface for *Manager.
func (m *Manager) ObserveRecycle(_ context.Context, status redispool.RecycleStatus) {
	switch status {
	case redispool.RecycleStatusReused:
		m.recyclesReused.Inc()
	case redispool.RecycleStatusExpired:
		m.recyclesExpired.Inc()
	case redispool.RecycleStatusProbeError:
		m.recyclesProbeError.Inc()
	default:
		panic(fmt.Errorf("status: %w: %q", errors.ErrBadEnumValue, status))
	}
}
