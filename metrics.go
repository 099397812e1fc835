package redispool

import (
	"context"
	"time"

	"github.com/gomodule/redigo/redis"
)

// RecycleStatus is the type alias for string that contains the outcome of a
// recycle check.
//
// NOTE:  This is an alias to reduce the amount of dependencies required of
// implementations.
type RecycleStatus = string

// Recycle check outcomes for [RecycleStatus].
const (
	RecycleStatusReused     RecycleStatus = "reused"
	RecycleStatusExpired    RecycleStatus = "expired"
	RecycleStatusProbeError RecycleStatus = "probe_error"
)

// Metrics is an interface for collection of the connection-lifecycle
// statistics.
type Metrics interface {
	// ObserveCreate records the result of establishing a new connection.  dur
	// is the duration of the dial, including failed ones.
	ObserveCreate(ctx context.Context, dur time.Duration, err error)

	// ObserveRecycle records the outcome of a recycle check.  status must be
	// one of the [RecycleStatus] values.
	ObserveRecycle(ctx context.Context, status RecycleStatus)
}

// EmptyMetrics is the implementation of the [Metrics] interface that does
// nothing.
type EmptyMetrics struct{}

// type check
var _ Metrics = EmptyMetrics{}

// ObserveCreate implements the [Metrics] interface for EmptyMetrics.
func (EmptyMetrics) ObserveCreate(_ context.Context, _ time.Duration, _ error) {}

// ObserveRecycle implements the [Metrics] interface for EmptyMetrics.
func (EmptyMetrics) ObserveRecycle(_ context.Context, _ RecycleStatus) {}

// PoolMetrics is an interface for collection of the pool statistics.
type PoolMetrics interface {
	// Update updates the pool statistics.  err is the error of getting a
	// connection from the pool, if any.
	Update(ctx context.Context, s redis.PoolStats, err error)
}

// EmptyPoolMetrics is the implementation of the [PoolMetrics] interface that
// does nothing.
type EmptyPoolMetrics struct{}

// type check
var _ PoolMetrics = EmptyPoolMetrics{}

// Update implements the [PoolMetrics] interface for EmptyPoolMetrics.
func (EmptyPoolMetrics) Update(_ context.Context, _ redis.PoolStats, _ error) {}
