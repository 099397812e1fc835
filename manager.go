package redispool

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/AdguardTeam/golibs/errors"
	"github.com/AdguardTeam/golibs/logutil/slogutil"
	"github.com/AdguardTeam/golibs/timeutil"
	"github.com/AdguardTeam/redispool/internal/randutil"
)

// DefaultProbeKey is the sentinel key that [Manager.Recycle] probes when no
// key is configured.  Only the success of the probe matters, so the key
// doesn't have to exist.
const DefaultProbeKey = "redispool_probe"

// ManagerConfig is the configuration structure for the connection manager.
type ManagerConfig struct {
	// Logger is used for logging the operation of the manager.  It must not be
	// nil.
	Logger *slog.Logger

	// Clock is used to compute and check connection expiration times.  It must
	// not be nil.
	Clock timeutil.Clock

	// Metrics is used for the collection of the connection-lifecycle
	// statistics.  It must not be nil.
	Metrics Metrics

	// Dialer opens the actual network connections.  It must not be nil.
	Dialer Dialer

	// RandSource is the source of randomness for [TTLFuzzy] policies.  It must
	// be safe for concurrent use.  If nil, a concurrency-safe source seeded
	// from the system one is used.  Tests may inject a seeded source to make
	// fuzzy expirations deterministic.
	RandSource rand.Source

	// TTL bounds the lifetime of created connections.  If nil, connections
	// never expire on their own.
	TTL TTL

	// ProbeKey is the key for the EXISTS liveness probe.  If empty,
	// [DefaultProbeKey] is used.
	ProbeKey string

	// ProbeOnRecycle enables the liveness probe before each connection reuse.
	ProbeOnRecycle bool
}

// validate checks the configuration for errors.
func (conf *ManagerConfig) validate() (err error) {
	var errs []error

	if conf.Logger == nil {
		errs = append(errs, fmt.Errorf("logger: %w", errors.ErrNoValue))
	}

	if conf.Clock == nil {
		errs = append(errs, fmt.Errorf("clock: %w", errors.ErrNoValue))
	}

	if conf.Metrics == nil {
		errs = append(errs, fmt.Errorf("metrics: %w", errors.ErrNoValue))
	}

	if conf.Dialer == nil {
		errs = append(errs, fmt.Errorf("dialer: %w", errors.ErrNoValue))
	}

	if err = validateTTL(conf.TTL); err != nil {
		errs = append(errs, fmt.Errorf("ttl: %w", err))
	}

	return errors.Join(errs...)
}

// Manager creates pooled Redis connections and decides whether they may be
// reused.  Its configuration is immutable after construction, so a single
// manager is safe for concurrent use by multiple pool workers.  It must be
// created using [NewManager].
type Manager struct {
	logger   *slog.Logger
	clock    timeutil.Clock
	metrics  Metrics
	dialer   Dialer
	rng      *rand.Rand
	ttl      TTL
	probeKey string
	probe    bool
}

// NewManager returns a properly initialized manager using conf.  conf must not
// be nil.
func NewManager(conf *ManagerConfig) (m *Manager, err error) {
	if err = conf.validate(); err != nil {
		return nil, fmt.Errorf("manager config: %w", err)
	}

	src := conf.RandSource
	if src == nil {
		src = randutil.NewDefaultSource()
	}

	return &Manager{
		logger:   conf.Logger,
		clock:    conf.Clock,
		metrics:  conf.Metrics,
		dialer:   conf.Dialer,
		rng:      rand.New(src),
		ttl:      conf.TTL,
		probeKey: cmp.Or(conf.ProbeKey, DefaultProbeKey),
		probe:    conf.ProbeOnRecycle,
	}, nil
}

// Create opens a new connection through the manager's dialer and returns it
// with its expiration time frozen according to the TTL policy.  Dial errors
// are reported to the caller as is; the manager performs no retries, since
// retry and backoff policies belong to the owning pool.
func (m *Manager) Create(ctx context.Context) (conn *Conn, err error) {
	start := m.clock.Now()
	defer func() { m.metrics.ObserveCreate(ctx, m.clock.Now().Sub(start), err) }()

	actual, err := m.dialer.DialContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating connection: %w", err)
	}

	return &Conn{
		conn:      actual,
		expiresAt: expiryTime(m.ttl, m.clock.Now(), m.rng),
	}, nil
}

// Recycle reports whether conn is fit for reuse by the next borrower.  A nil
// error means the connection is handed out unchanged.  A non-nil error is a
// verdict for the owning pool: the connection must be closed and never reused.
//
// When the liveness probe is enabled, it runs first, and only a failure of the
// probe itself rejects the connection; the returned reply is ignored.  The
// expiration check then rejects any connection whose TTL has elapsed, wrapping
// [ErrExpired].  Recycle never extends or resets the expiration time.
//
// conn must not be nil.  The owning pool must not call Recycle concurrently
// for the same conn.
func (m *Manager) Recycle(ctx context.Context, conn *Conn) (err error) {
	if m.probe {
		// Only the success of the command matters here.  The probed key
		// doesn't have to exist, so the reply is ignored.
		_, err = conn.DoContext(ctx, CmdEXISTS, m.probeKey)
		if err != nil {
			m.metrics.ObserveRecycle(ctx, RecycleStatusProbeError)
			m.logger.DebugContext(ctx, "probe failed", slogutil.KeyError, err)

			return fmt.Errorf("probing connection: %w", err)
		}
	}

	if expiresAt := conn.expiresAt; !expiresAt.IsZero() && !m.clock.Now().Before(expiresAt) {
		m.metrics.ObserveRecycle(ctx, RecycleStatusExpired)
		m.logger.DebugContext(ctx, "connection expired", "expires_at", expiresAt)

		return fmt.Errorf("recycling connection: %w", ErrExpired)
	}

	m.metrics.ObserveRecycle(ctx, RecycleStatusReused)

	return nil
}
