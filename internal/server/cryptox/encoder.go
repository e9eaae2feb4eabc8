// Package cryptox implements the password encoder: salted one-way hashing
// of credential secrets with bcrypt. Hashing is CPU-bound, so both
// operations pass through a bounded worker pool sized to the number of
// schedulable CPUs; acquisition honors context cancellation.
package cryptox

import (
	"context"
	"runtime"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// DefaultCost is the bcrypt work factor used when none is configured.
const DefaultCost = 10

// Encoder hashes and verifies plaintext secrets.
type Encoder struct {
	cost int
	sem  *semaphore.Weighted
}

// NewEncoder creates an Encoder with the given bcrypt cost. Costs outside
// the bcrypt range fall back to DefaultCost.
func NewEncoder(cost int) *Encoder {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &Encoder{
		cost: cost,
		sem:  semaphore.NewWeighted(int64(runtime.GOMAXPROCS(0))),
	}
}

// Encode hashes plaintext. Bcrypt salts each call, so two calls with equal
// input yield different hashes.
func (e *Encoder) Encode(ctx context.Context, plaintext string) (string, error) {
	if err := e.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer e.sem.Release(1)

	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), e.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether plaintext matches the stored hash. A mismatch or a
// structurally invalid hash returns false, never an error.
func (e *Encoder) Verify(ctx context.Context, plaintext, hash string) bool {
	if err := e.sem.Acquire(ctx, 1); err != nil {
		return false
	}
	defer e.sem.Release(1)

	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
