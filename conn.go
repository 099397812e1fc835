package redispool

import (
	"context"
	"time"

	"github.com/gomodule/redigo/redis"
)

// Conn is a pooled Redis connection coupled with its expiration time.  It
// implements [redis.Conn] by forwarding every call to the underlying
// connection, so callers use it as a regular Redis connection.  The expiration
// time is frozen when the connection is created and is never renewed.
//
// Conn instances must be created by [Manager.Create].
type Conn struct {
	conn      redis.Conn
	expiresAt time.Time
}

// ExpiresAt returns the absolute point in time after which the connection must
// not be reused.  A zero result means the connection never expires.
func (c *Conn) ExpiresAt() (expiresAt time.Time) {
	return c.expiresAt
}

// type check
var _ redis.Conn = (*Conn)(nil)

// Close implements the [redis.Conn] interface for *Conn.
func (c *Conn) Close() (err error) {
	return c.conn.Close()
}

// Err implements the [redis.Conn] interface for *Conn.
func (c *Conn) Err() (err error) {
	return c.conn.Err()
}

// Do implements the [redis.Conn] interface for *Conn.
func (c *Conn) Do(cmd string, args ...any) (reply any, err error) {
	return c.conn.Do(cmd, args...)
}

// Send implements the [redis.Conn] interface for *Conn.
func (c *Conn) Send(cmd string, args ...any) (err error) {
	return c.conn.Send(cmd, args...)
}

// Flush implements the [redis.Conn] interface for *Conn.
func (c *Conn) Flush() (err error) {
	return c.conn.Flush()
}

// Receive implements the [redis.Conn] interface for *Conn.
func (c *Conn) Receive() (reply any, err error) {
	return c.conn.Receive()
}

// type check
var _ redis.ConnWithContext = (*Conn)(nil)

// DoContext implements the [redis.ConnWithContext] interface for *Conn.  If
// the underlying connection doesn't support contexts, it falls back to a plain
// Do call.
func (c *Conn) DoContext(ctx context.Context, cmd string, args ...any) (reply any, err error) {
	if cwc, ok := c.conn.(redis.ConnWithContext); ok {
		return cwc.DoContext(ctx, cmd, args...)
	}

	return c.conn.Do(cmd, args...)
}

// ReceiveContext implements the [redis.ConnWithContext] interface for *Conn.
// If the underlying connection doesn't support contexts, it falls back to a
// plain Receive call.
func (c *Conn) ReceiveContext(ctx context.Context) (reply any, err error) {
	if cwc, ok := c.conn.(redis.ConnWithContext); ok {
		return cwc.ReceiveContext(ctx)
	}

	return c.conn.Receive()
}
