package redispool

import "github.com/AdguardTeam/golibs/errors"

// ErrExpired is returned by [Manager.Recycle] when a connection has outlived
// its TTL.  It is a terminal verdict: the pool must close the connection and
// dial a fresh one instead of reusing it.
const ErrExpired errors.Error = "connection expired"
