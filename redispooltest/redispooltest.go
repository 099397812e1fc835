// Package redispooltest contains fakes for the interfaces of the redispool
// module and other test utilities.
package redispooltest

import (
	"context"

	"github.com/AdguardTeam/golibs/testutil"
	"github.com/AdguardTeam/redispool"
	"github.com/gomodule/redigo/redis"
)

// Dialer is the [redispool.Dialer] implementation for tests.
type Dialer struct {
	OnDialContext func(ctx context.Context) (conn redis.Conn, err error)
}

// NewDialer returns a new *Dialer all methods of which panic.
func NewDialer() (d *Dialer) {
	return &Dialer{
		OnDialContext: func(ctx context.Context) (conn redis.Conn, err error) {
			panic(testutil.UnexpectedCall(ctx))
		},
	}
}

// type check
var _ redispool.Dialer = (*Dialer)(nil)

// DialContext implements the [redispool.Dialer] interface for *Dialer.
func (d *Dialer) DialContext(ctx context.Context) (conn redis.Conn, err error) {
	return d.OnDialContext(ctx)
}

// Pool is the [redispool.Pool] implementation for tests.
type Pool struct {
	OnGet func(ctx context.Context) (conn redis.Conn, err error)
}

// NewPool returns a new *Pool all methods of which panic.
func NewPool() (p *Pool) {
	return &Pool{
		OnGet: func(ctx context.Context) (conn redis.Conn, err error) {
			panic(testutil.UnexpectedCall(ctx))
		},
	}
}

// type check
var _ redispool.Pool = (*Pool)(nil)

// Get implements the [redispool.Pool] interface for *Pool.
func (p *Pool) Get(ctx context.Context) (conn redis.Conn, err error) {
	return p.OnGet(ctx)
}
