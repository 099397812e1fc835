package redispool

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/AdguardTeam/golibs/errors"
	"github.com/AdguardTeam/golibs/validate"
)

// TTL is a sum type of the policies that bound the lifetime of pooled
// connections.  A nil TTL means that connections never expire on their own.
// See the following types:
//
//   - [TTLFixed]
//   - [TTLFuzzy]
//   - [TTLImmediate]
type TTL interface {
	isTTL()
}

// TTLFixed expires a connection exactly D after its creation.
type TTLFixed struct {
	// D is the lifetime of a connection.  It must be non-negative.
	D time.Duration
}

// isTTL implements the TTL interface for TTLFixed.
func (TTLFixed) isTTL() {}

// TTLFuzzy expires a connection after at least Min and strictly less than
// Min + Fuzz after its creation.  The actual lifetime is drawn independently
// for every created connection, so connections created at the same instant
// still expire at different times.
type TTLFuzzy struct {
	// Min is the minimum lifetime of a connection.  It must be non-negative.
	Min time.Duration

	// Fuzz is the width of the randomized part of the lifetime.  It must be
	// positive; use [TTLFixed] for a constant lifetime.
	Fuzz time.Duration
}

// isTTL implements the TTL interface for TTLFuzzy.
func (TTLFuzzy) isTTL() {}

// TTLImmediate expires a connection the moment it is created, so it is never
// reused.  It effectively disables pooling.
type TTLImmediate struct{}

// isTTL implements the TTL interface for TTLImmediate.
func (TTLImmediate) isTTL() {}

// validateTTL checks the policy parameters for errors.  A nil ttl is valid.
func validateTTL(ttl TTL) (err error) {
	switch ttl := ttl.(type) {
	case nil:
		return nil
	case TTLFixed:
		if ttl.D < 0 {
			return fmt.Errorf("d: %w", errors.ErrNegative)
		}

		return nil
	case TTLFuzzy:
		var errs []error
		if ttl.Min < 0 {
			errs = append(errs, fmt.Errorf("min: %w", errors.ErrNegative))
		}

		errs = append(errs, validate.Positive("fuzz", ttl.Fuzz))

		return errors.Join(errs...)
	case TTLImmediate:
		return nil
	default:
		// Consider unhandled sum type members as unrecoverable programmer
		// errors.
		panic(fmt.Errorf("unexpected type %T", ttl))
	}
}

// expiryTime computes the absolute point in time after which a connection
// created at now must not be reused.  A zero result means the connection never
// expires.  ttl must be valid; rng must not be nil when ttl is a [TTLFuzzy].
func expiryTime(ttl TTL, now time.Time, rng *rand.Rand) (expiresAt time.Time) {
	switch ttl := ttl.(type) {
	case nil:
		return time.Time{}
	case TTLFixed:
		return now.Add(ttl.D)
	case TTLFuzzy:
		return now.Add(ttl.Min).Add(time.Duration(rng.Int64N(int64(ttl.Fuzz))))
	case TTLImmediate:
		return now
	default:
		// Consider unhandled sum type members as unrecoverable programmer
		// errors.
		panic(fmt.Errorf("unexpected type %T", ttl))
	}
}
