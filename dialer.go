package redispool

import (
	"context"
	"fmt"
	"time"

	"github.com/AdguardTeam/golibs/errors"
	"github.com/AdguardTeam/golibs/netutil"
	"github.com/gomodule/redigo/redis"
)

// Dialer opens new connections to a Redis server.  It is the factory that
// [Manager.Create] delegates the actual network I/O to.
type Dialer interface {
	// DialContext establishes and returns a new connection.  When ctx is
	// cancelled, it must fail cleanly without leaving a half-open connection
	// behind.
	DialContext(ctx context.Context) (conn redis.Conn, err error)
}

// DefaultDialerConfig is the configuration structure for the default dialer.
type DefaultDialerConfig struct {
	// Addr is the address of the Redis server.  It must not be nil.
	Addr *netutil.HostPort

	// Username is the username for the AUTH command.  If empty, no username is
	// sent.
	Username string

	// Password is the password for the AUTH command.  If empty, no AUTH is
	// performed.
	Password string

	// DBIndex is the index of the database to select after dialing.  It must
	// be non-negative.
	DBIndex int

	// ConnectTimeout is the timeout for establishing a connection.  Zero means
	// no timeout beyond the one of ctx.  It must be non-negative.
	ConnectTimeout time.Duration

	// ReadTimeout is the timeout for reading a single reply.  It also bounds
	// the liveness probe issued by [Manager.Recycle].  Zero means no timeout.
	// It must be non-negative.
	ReadTimeout time.Duration

	// WriteTimeout is the timeout for writing a single command.  Zero means no
	// timeout.  It must be non-negative.
	WriteTimeout time.Duration
}

// validate checks the configuration for errors.
func (conf *DefaultDialerConfig) validate() (err error) {
	var errs []error

	if conf.Addr == nil {
		errs = append(errs, fmt.Errorf("addr: %w", errors.ErrNoValue))
	}

	if conf.DBIndex < 0 {
		errs = append(errs, fmt.Errorf("db index: %w", errors.ErrNegative))
	}

	timeouts := []struct {
		val  time.Duration
		name string
	}{{
		val:  conf.ConnectTimeout,
		name: "connect timeout",
	}, {
		val:  conf.ReadTimeout,
		name: "read timeout",
	}, {
		val:  conf.WriteTimeout,
		name: "write timeout",
	}}

	for _, t := range timeouts {
		if t.val < 0 {
			errs = append(errs, fmt.Errorf("%s: %w", t.name, errors.ErrNegative))
		}
	}

	return errors.Join(errs...)
}

// DefaultDialer dials a single Redis server over TCP.  Authentication and
// database selection, when configured, are performed by redigo on the freshly
// dialed connection before it is returned.
type DefaultDialer struct {
	addr string
	opts []redis.DialOption
}

// NewDefaultDialer returns a properly initialized *DefaultDialer.  conf must
// not be nil.
func NewDefaultDialer(conf *DefaultDialerConfig) (d *DefaultDialer, err error) {
	if err = conf.validate(); err != nil {
		return nil, fmt.Errorf("dialer config: %w", err)
	}

	opts := []redis.DialOption{
		redis.DialDatabase(conf.DBIndex),
		redis.DialConnectTimeout(conf.ConnectTimeout),
		redis.DialReadTimeout(conf.ReadTimeout),
		redis.DialWriteTimeout(conf.WriteTimeout),
	}

	if conf.Username != "" {
		opts = append(opts, redis.DialUsername(conf.Username))
	}

	if conf.Password != "" {
		opts = append(opts, redis.DialPassword(conf.Password))
	}

	return &DefaultDialer{
		addr: conf.Addr.String(),
		opts: opts,
	}, nil
}

// type check
var _ Dialer = (*DefaultDialer)(nil)

// DialContext implements the [Dialer] interface for *DefaultDialer.
func (d *DefaultDialer) DialContext(ctx context.Context) (conn redis.Conn, err error) {
	conn, err = redis.DialContext(ctx, "tcp", d.addr, d.opts...)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", d.addr, err)
	}

	return conn, nil
}
