package redispool

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/AdguardTeam/golibs/errors"
	"github.com/AdguardTeam/golibs/logutil/slogutil"
	"github.com/AdguardTeam/golibs/validate"
	"github.com/gomodule/redigo/redis"
)

// Pool is the interface for pools of Redis connections.
type Pool interface {
	// Get returns a connection from the pool.  The connection must be closed
	// by the caller to return it to the pool.
	Get(ctx context.Context) (conn redis.Conn, err error)
}

// DefaultPoolConfig is the configuration structure for the default pool.
type DefaultPoolConfig struct {
	// Logger is used for logging the operation of the pool.  It must not be
	// nil.
	Logger *slog.Logger

	// Manager governs the lifecycle of the pooled connections.  It must not be
	// nil.
	Manager *Manager

	// Metrics is used for the collection of the pool statistics.  It must not
	// be nil.
	Metrics PoolMetrics

	// IdleTimeout is the duration after which idle connections are closed
	// regardless of their TTL.  Zero means no limit.  It must be non-negative.
	IdleTimeout time.Duration

	// MaxActive is the maximum number of connections in the pool, both idle
	// and in use.  It must be positive.
	MaxActive int

	// MaxIdle is the maximum number of idle connections kept by the pool.  It
	// must be non-negative.
	MaxIdle int

	// Wait defines whether [DefaultPool.Get] queues the caller when MaxActive
	// connections are already in use, as opposed to failing immediately.
	Wait bool
}

// validate checks the configuration for errors.
func (conf *DefaultPoolConfig) validate() (err error) {
	var errs []error

	if conf.Logger == nil {
		errs = append(errs, fmt.Errorf("logger: %w", errors.ErrNoValue))
	}

	if conf.Manager == nil {
		errs = append(errs, fmt.Errorf("manager: %w", errors.ErrNoValue))
	}

	if conf.Metrics == nil {
		errs = append(errs, fmt.Errorf("metrics: %w", errors.ErrNoValue))
	}

	if conf.IdleTimeout < 0 {
		errs = append(errs, fmt.Errorf("idle timeout: %w", errors.ErrNegative))
	}

	errs = append(errs, validate.Positive("max active", conf.MaxActive))

	if conf.MaxIdle < 0 {
		errs = append(errs, fmt.Errorf("max idle: %w", errors.ErrNegative))
	}

	return errors.Join(errs...)
}

// DefaultPool is a bounded pool of Redis connections built on [redis.Pool].
// The queueing, backpressure, and sizing logic is redigo's; the manager only
// supplies the creation and recycling callbacks.
type DefaultPool struct {
	metrics PoolMetrics
	pool    *redis.Pool
}

// NewDefaultPool returns a properly initialized *DefaultPool.  conf must not
// be nil.
func NewDefaultPool(conf *DefaultPoolConfig) (p *DefaultPool, err error) {
	if err = conf.validate(); err != nil {
		return nil, fmt.Errorf("pool config: %w", err)
	}

	mgr := conf.Manager
	logger := conf.Logger

	rp := &redis.Pool{
		DialContext: func(ctx context.Context) (conn redis.Conn, err error) {
			return mgr.Create(ctx)
		},
		TestOnBorrow: func(conn redis.Conn, _ time.Time) (err error) {
			// The pool only ever holds connections produced by DialContext
			// above, so the assertion never fails.
			//
			// There is no caller context at this point; the probe is bound by
			// the connection's own read timeout.
			ctx := context.Background()
			err = mgr.Recycle(ctx, conn.(*Conn))
			if err != nil {
				logger.DebugContext(ctx, "discarding connection", slogutil.KeyError, err)
			}

			return err
		},
		IdleTimeout: conf.IdleTimeout,
		MaxActive:   conf.MaxActive,
		MaxIdle:     conf.MaxIdle,
		Wait:        conf.Wait,
	}

	return &DefaultPool{
		metrics: conf.Metrics,
		pool:    rp,
	}, nil
}

// type check
var _ Pool = (*DefaultPool)(nil)

// Get implements the [Pool] interface for *DefaultPool.  If the pool is
// exhausted and waiting is enabled, it blocks until a connection is available
// or ctx is done.
func (p *DefaultPool) Get(ctx context.Context) (conn redis.Conn, err error) {
	conn, err = p.pool.GetContext(ctx)
	p.metrics.Update(ctx, p.pool.Stats(), err)
	if err != nil {
		return nil, fmt.Errorf("getting connection from pool: %w", err)
	}

	return conn, nil
}

// Stats returns the current statistics of the underlying pool.
func (p *DefaultPool) Stats() (s redis.PoolStats) {
	return p.pool.Stats()
}

// Close releases the resources used by the pool, closing its idle
// connections.  Connections currently in use are closed as they are returned.
func (p *DefaultPool) Close() (err error) {
	return p.pool.Close()
}
