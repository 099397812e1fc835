package remotekv

import (
	"context"
	"fmt"
	"time"

	"github.com/AdguardTeam/golibs/errors"
	"github.com/AdguardTeam/redispool"
	"github.com/gomodule/redigo/redis"
)

// MinTTL is the minimum TTL that can be set on a key, since that's the minimum
// expiration allowed by Redis.
const MinTTL = 1 * time.Millisecond

// RedisKVConfig is the configuration for the Redis-based [Interface]
// implementation.  All fields must not be empty.
type RedisKVConfig struct {
	// Pool maintains the connections to Redis.  It must not be nil.
	Pool redispool.Pool

	// TTL defines, after how much time the keys should expire.  It must be
	// greater than or equal to [MinTTL].
	TTL time.Duration
}

// RedisKV is a Redis implementation of the [Interface] interface.
//
// Note that Redis, by convention, uses colon ":" character to delimit key
// namespaces, and this client performs no key namespacing of its own.
type RedisKV struct {
	pool redispool.Pool
	ttl  time.Duration
}

// NewRedisKV returns a new *RedisKV.  conf must not be nil.
func NewRedisKV(conf *RedisKVConfig) (kv *RedisKV, err error) {
	var errs []error

	if conf.Pool == nil {
		errs = append(errs, fmt.Errorf("pool: %w", errors.ErrNoValue))
	}

	if conf.TTL < MinTTL {
		errs = append(errs, fmt.Errorf("ttl: %w: got %s, min %s", errors.ErrOutOfRange, conf.TTL, MinTTL))
	}

	if err = errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("redis kv config: %w", err)
	}

	return &RedisKV{
		pool: conf.Pool,
		ttl:  conf.TTL,
	}, nil
}

// type check
var _ Interface = (*RedisKV)(nil)

// Get implements the [Interface] interface for *RedisKV.
func (kv *RedisKV) Get(ctx context.Context, key string) (val []byte, ok bool, err error) {
	defer func() { err = errors.Annotate(err, "getting %q: %w", key) }()

	c, err := kv.pool.Get(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("getting from pool: %w", err)
	}
	defer func() { err = errors.WithDeferred(err, c.Close()) }()

	val, err = redis.Bytes(c.Do(redispool.CmdGET, key))
	switch {
	case err == nil:
		return val, true, nil
	case errors.Is(err, redis.ErrNil):
		return nil, false, nil
	default:
		return nil, false, fmt.Errorf("get command: %w", err)
	}
}

// Set implements the [Interface] interface for *RedisKV.
func (kv *RedisKV) Set(ctx context.Context, key string, val []byte) (err error) {
	defer func() { err = errors.Annotate(err, "setting %q: %w", key) }()

	c, err := kv.pool.Get(ctx)
	if err != nil {
		return fmt.Errorf("getting from pool: %w", err)
	}
	defer func() { err = errors.WithDeferred(err, c.Close()) }()

	_, err = c.Do(redispool.CmdSET, key, val, redispool.ParamPX, kv.ttl.Milliseconds())
	if err != nil {
		return fmt.Errorf("set command: %w", err)
	}

	return nil
}

// Exists implements the [Interface] interface for *RedisKV.
func (kv *RedisKV) Exists(ctx context.Context, key string) (ok bool, err error) {
	defer func() { err = errors.Annotate(err, "checking %q: %w", key) }()

	c, err := kv.pool.Get(ctx)
	if err != nil {
		return false, fmt.Errorf("getting from pool: %w", err)
	}
	defer func() { err = errors.WithDeferred(err, c.Close()) }()

	ok, err = redis.Bool(c.Do(redispool.CmdEXISTS, key))
	if err != nil {
		return false, fmt.Errorf("exists command: %w", err)
	}

	return ok, nil
}
