package redispool_test

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/AdguardTeam/golibs/netutil"
	"github.com/AdguardTeam/golibs/testutil"
	"github.com/AdguardTeam/golibs/testutil/faketime"
	"github.com/AdguardTeam/golibs/timeutil"
	"github.com/AdguardTeam/redispool"
	"github.com/AdguardTeam/redispool/redispooltest"
	"github.com/gomodule/redigo/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingDialer returns a fake dialer that dials fresh reusable fake
// connections and counters of performed dials and closed connections.
func countingDialer(tb testing.TB) (d *redispooltest.Dialer, dials, closes *int) {
	tb.Helper()

	dials, closes = new(int), new(int)

	d = redispooltest.NewDialer()
	d.OnDialContext = func(_ context.Context) (conn redis.Conn, err error) {
		*dials++

		c := redispooltest.NewConn()
		c.OnErr = func() (connErr error) { return nil }
		c.OnClose = func() (closeErr error) {
			*closes++

			return nil
		}
		c.OnDo = func(cmd string, _ ...any) (reply any, doErr error) {
			// redigo issues an empty command when a connection is returned to
			// the pool to clear its state.
			assert.Empty(tb, cmd)

			return nil, nil
		}

		return c, nil
	}

	return d, dials, closes
}

// newTestPool returns a pool over a manager built from conf.  Fields of conf
// other than Dialer, Clock, TTL, and the probe ones are set to test defaults.
func newTestPool(tb testing.TB, conf *redispool.ManagerConfig) (p *redispool.DefaultPool) {
	tb.Helper()

	m := newTestManager(tb, conf)

	p, err := redispool.NewDefaultPool(&redispool.DefaultPoolConfig{
		Logger:    testLogger,
		Manager:   m,
		Metrics:   redispool.EmptyPoolMetrics{},
		MaxActive: 2,
		MaxIdle:   2,
		Wait:      true,
	})
	require.NoError(tb, err)

	testutil.CleanupAndRequireSuccess(tb, p.Close)

	return p
}

func TestDefaultPool(t *testing.T) {
	clock := &faketime.Clock{
		OnNow: func() (now time.Time) { return testTime },
	}

	t.Run("reuse", func(t *testing.T) {
		d, dials, _ := countingDialer(t)
		p := newTestPool(t, &redispool.ManagerConfig{
			Clock:  clock,
			Dialer: d,
		})

		ctx := testutil.ContextWithTimeout(t, testTimeout)
		conn, err := p.Get(ctx)
		require.NoError(t, err)
		require.NoError(t, conn.Close())

		conn, err = p.Get(ctx)
		require.NoError(t, err)
		require.NoError(t, conn.Close())

		// The second get reuses the idled connection.
		assert.Equal(t, 1, *dials)
	})

	t.Run("expired_is_replaced", func(t *testing.T) {
		d, dials, closes := countingDialer(t)
		p := newTestPool(t, &redispool.ManagerConfig{
			Clock:  clock,
			Dialer: d,
			TTL:    redispool.TTLImmediate{},
		})

		ctx := testutil.ContextWithTimeout(t, testTimeout)
		conn, err := p.Get(ctx)
		require.NoError(t, err)
		require.NoError(t, conn.Close())

		conn, err = p.Get(ctx)
		require.NoError(t, err)
		require.NoError(t, conn.Close())

		// The idled connection is already expired on borrow, so the pool
		// destroys it and dials a new one.
		assert.Equal(t, 2, *dials)
		assert.GreaterOrEqual(t, *closes, 1)
	})

	t.Run("dial_error", func(t *testing.T) {
		d := redispooltest.NewDialer()
		d.OnDialContext = func(_ context.Context) (conn redis.Conn, err error) {
			return nil, testError
		}

		p := newTestPool(t, &redispool.ManagerConfig{
			Clock:  clock,
			Dialer: d,
		})

		ctx := testutil.ContextWithTimeout(t, testTimeout)
		conn, err := p.Get(ctx)
		assert.ErrorIs(t, err, testError)
		assert.Nil(t, conn)
	})
}

func TestNewDefaultPool_errors(t *testing.T) {
	m := newTestManager(t, &redispool.ManagerConfig{
		Dialer: redispooltest.NewDialer(),
	})

	testCases := []struct {
		conf *redispool.DefaultPoolConfig
		name string
	}{{
		conf: &redispool.DefaultPoolConfig{
			Logger:    testLogger,
			Metrics:   redispool.EmptyPoolMetrics{},
			MaxActive: 1,
		},
		name: "no_manager",
	}, {
		conf: &redispool.DefaultPoolConfig{
			Logger:  testLogger,
			Manager: m,
			Metrics: redispool.EmptyPoolMetrics{},
		},
		name: "bad_max_active",
	}, {
		conf: &redispool.DefaultPoolConfig{
			Logger:      testLogger,
			Manager:     m,
			Metrics:     redispool.EmptyPoolMetrics{},
			MaxActive:   1,
			IdleTimeout: -1 * time.Second,
		},
		name: "bad_idle_timeout",
	}}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := redispool.NewDefaultPool(tc.conf)
			assert.Error(t, err)
		})
	}
}

// testPortEnvVarName is the environment variable name the presence and value
// of which define whether to run depending tests and on which port Redis
// server is running.
const testPortEnvVarName = "TEST_REDIS_PORT"

// testDBIndex is the index of the Redis database used by integration tests.
const testDBIndex = 15

// newIntegrationDialer returns a *redispool.DefaultDialer for tests or skips
// the test if [testPortEnvVarName] is not set.  It selects a database at
// [testDBIndex] and flushes it after the test.
func newIntegrationDialer(tb testing.TB) (d *redispool.DefaultDialer) {
	tb.Helper()

	portStr := os.Getenv(testPortEnvVarName)
	if portStr == "" {
		tb.Skipf("skipping; %s is not set", testPortEnvVarName)
	}

	port64, err := strconv.ParseUint(portStr, 10, 16)
	require.NoError(tb, err)

	d, err = redispool.NewDefaultDialer(&redispool.DefaultDialerConfig{
		Addr: &netutil.HostPort{
			Host: "localhost",
			Port: uint16(port64),
		},
		DBIndex: testDBIndex,
	})
	require.NoError(tb, err)

	testutil.CleanupAndRequireSuccess(tb, func() (cleanupErr error) {
		ctx := testutil.ContextWithTimeout(tb, testTimeout)
		c, cleanupErr := d.DialContext(ctx)
		require.NoError(tb, cleanupErr)
		testutil.CleanupAndRequireSuccess(tb, c.Close)

		okStr, cleanupErr := redis.String(c.Do(redispool.CmdFLUSHDB, redispool.ParamSYNC))
		require.NoError(tb, cleanupErr)

		assert.Equal(tb, redispool.RespOK, okStr)

		return cleanupErr
	})

	return d
}

// TestDefaultPool_integration requires a Redis server running on 127.0.0.1 and
// must be run with [testPortEnvVarName] set to the server port.
func TestDefaultPool_integration(t *testing.T) {
	const (
		testKey   = "test_key"
		testValue = "test_value"
	)

	d := newIntegrationDialer(t)

	m, err := redispool.NewManager(&redispool.ManagerConfig{
		Logger:         testLogger,
		Clock:          timeutil.SystemClock{},
		Metrics:        redispool.EmptyMetrics{},
		Dialer:         d,
		TTL:            redispool.TTLFixed{D: 30 * time.Second},
		ProbeOnRecycle: true,
	})
	require.NoError(t, err)

	p, err := redispool.NewDefaultPool(&redispool.DefaultPoolConfig{
		Logger:    testLogger,
		Manager:   m,
		Metrics:   redispool.EmptyPoolMetrics{},
		MaxActive: 10,
		MaxIdle:   3,
		Wait:      true,
	})
	require.NoError(t, err)

	testutil.CleanupAndRequireSuccess(t, p.Close)

	ctx := testutil.ContextWithTimeout(t, testTimeout)
	conn, err := p.Get(ctx)
	require.NoError(t, err)

	okStr, err := redis.String(conn.Do(redispool.CmdSET, testKey, testValue))
	require.NoError(t, err)
	require.Equal(t, redispool.RespOK, okStr)

	require.NoError(t, conn.Close())

	// The second get goes through the recycle probe against the real server.
	ctx = testutil.ContextWithTimeout(t, testTimeout)
	conn, err = p.Get(ctx)
	require.NoError(t, err)

	defer testutil.CleanupAndRequireSuccess(t, conn.Close)

	val, err := redis.String(conn.Do(redispool.CmdGET, testKey))
	require.NoError(t, err)

	assert.Equal(t, testValue, val)
}
