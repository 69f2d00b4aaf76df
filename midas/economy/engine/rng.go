package engine

import (
	"encoding/binary"
	"hash/fnv"
	"math/rand/v2"
	"time"
)

// Rand is the randomness source for stochastic engine functions.
// Callers inject it explicitly, so a fixed seed replays a simulation
// run exactly.
type Rand interface {
	Float64() float64
	NormFloat64() float64
	IntN(n int) int
}

// NewRand returns a seeded PCG-backed source.
func NewRand(seed uint64) Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// TickSeed derives a per-tenant, per-tick seed from a base seed.
// Concurrent tenant ticks draw from independent streams, and a replay
// of the same tenant at the same tick time reproduces the run.
func TickSeed(base uint64, guildID string, at time.Time) uint64 {
	h := fnv.New64a()
	h.Write([]byte(guildID))
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(at.Unix()))
	h.Write(buf[:])
	return base ^ h.Sum64()
}

// uniform draws from [lo, hi).
func uniform(r Rand, lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}
