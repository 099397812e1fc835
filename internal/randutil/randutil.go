// Package randutil contains utilities for random numbers.
package randutil

import (
	cryptorand "crypto/rand"
	"math/rand/v2"
	"sync"
)

// LockedSource is an implementation of [rand.Source] that is concurrency-safe.
type LockedSource struct {
	// mu protects src.
	mu *sync.Mutex

	src rand.Source
}

// NewLockedSource returns new properly initialized *LockedSource.
func NewLockedSource(src rand.Source) (s *LockedSource) {
	return &LockedSource{
		mu:  &sync.Mutex{},
		src: src,
	}
}

// type check
var _ rand.Source = (*LockedSource)(nil)

// Uint64 implements the [rand.Source] interface for *LockedSource.
func (s *LockedSource) Uint64() (r uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.src.Uint64()
}

// MustNewSeed returns new 32 byte seed for pseudorandom generators.  Panics on
// errors.
func MustNewSeed() (seed [32]byte) {
	_, err := cryptorand.Read(seed[:])
	if err != nil {
		// Don't wrap the error, because it's informative enough as is.
		panic(err)
	}

	return seed
}

// NewDefaultSource returns a concurrency-safe source seeded from the
// cryptographically strong system source.
func NewDefaultSource() (src rand.Source) {
	return NewLockedSource(rand.NewChaCha8(MustNewSeed()))
}
