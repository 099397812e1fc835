package redispooltest

import (
	"context"

	"github.com/AdguardTeam/golibs/testutil"
	"github.com/gomodule/redigo/redis"
)

// Conn is the [redis.Conn] and [redis.ConnWithContext] implementation for
// tests.
type Conn struct {
	OnClose          func() (err error)
	OnErr            func() (err error)
	OnDo             func(cmd string, args ...any) (reply any, err error)
	OnSend           func(cmd string, args ...any) (err error)
	OnFlush          func() (err error)
	OnReceive        func() (reply any, err error)
	OnDoContext      func(ctx context.Context, cmd string, args ...any) (reply any, err error)
	OnReceiveContext func(ctx context.Context) (reply any, err error)
}

// NewConn returns a new *Conn all methods of which panic.
func NewConn() (c *Conn) {
	return &Conn{
		OnClose: func() (err error) { panic(testutil.UnexpectedCall()) },
		OnErr:   func() (err error) { panic(testutil.UnexpectedCall()) },
		OnDo: func(cmd string, args ...any) (reply any, err error) {
			panic(testutil.UnexpectedCall(cmd, args))
		},
		OnSend: func(cmd string, args ...any) (err error) {
			panic(testutil.UnexpectedCall(cmd, args))
		},
		OnFlush: func() (err error) { panic(testutil.UnexpectedCall()) },
		OnReceive: func() (reply any, err error) {
			panic(testutil.UnexpectedCall())
		},
		OnDoContext: func(ctx context.Context, cmd string, args ...any) (reply any, err error) {
			panic(testutil.UnexpectedCall(ctx, cmd, args))
		},
		OnReceiveContext: func(ctx context.Context) (reply any, err error) {
			panic(testutil.UnexpectedCall(ctx))
		},
	}
}

// type checks
var (
	_ redis.Conn            = (*Conn)(nil)
	_ redis.ConnWithContext = (*Conn)(nil)
)

// Close implements the [redis.Conn] interface for *Conn.
func (c *Conn) Close() (err error) {
	return c.OnClose()
}

// Err implements the [redis.Conn] interface for *Conn.
func (c *Conn) Err() (err error) {
	return c.OnErr()
}

// Do implements the [redis.Conn] interface for *Conn.
func (c *Conn) Do(cmd string, args ...any) (reply any, err error) {
	return c.OnDo(cmd, args...)
}

// Send implements the [redis.Conn] interface for *Conn.
func (c *Conn) Send(cmd string, args ...any) (err error) {
	return c.OnSend(cmd, args...)
}

// Flush implements the [redis.Conn] interface for *Conn.
func (c *Conn) Flush() (err error) {
	return c.OnFlush()
}

// Receive implements the [redis.Conn] interface for *Conn.
func (c *Conn) Receive() (reply any, err error) {
	return c.OnReceive()
}

// DoContext implements the [redis.ConnWithContext] interface for *Conn.
func (c *Conn) DoContext(ctx context.Context, cmd string, args ...any) (reply any, err error) {
	return c.OnDoContext(ctx, cmd, args...)
}

// ReceiveContext implements the [redis.ConnWithContext] interface for *Conn.
func (c *Conn) ReceiveContext(ctx context.Context) (reply any, err error) {
	return c.OnReceiveContext(ctx)
}
