// Package redispool contains a lifecycle manager for pooled Redis connections
// and the glue that plugs it into redigo's connection pool.
//
// The manager implements the two callbacks that a bounded connection pool
// needs: [Manager.Create], which dials a new connection and freezes its
// expiration time, and [Manager.Recycle], which decides whether a previously
// issued connection may be handed out again.  Connections may be given a
// [TTL], including a fuzzy one that spreads expirations over a randomized
// window to avoid reconnection storms, and may optionally be probed with a
// lightweight EXISTS command before reuse.
//
// [DefaultPool] wires a manager into [redis.Pool], so connections obtained
// from it are used as regular Redis connections:
//
//	pool, err := redispool.NewDefaultPool(&redispool.DefaultPoolConfig{
//		Logger:    logger,
//		Manager:   mgr,
//		Metrics:   redispool.EmptyPoolMetrics{},
//		MaxActive: 5,
//		MaxIdle:   5,
//		Wait:      true,
//	})
package redispool
