package testutil

import (
	"math/rand"
	"sort"
	"sync"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Uint64 returns a pseudo-random uint64.
func (r *RNG) Uint64() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Uint64()
}

// Bytes returns n pseudo-random bytes.
func (r *RNG) Bytes(n int) []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	b := make([]byte, n)
	_, _ = r.rand.Read(b)
	return b
}

// Split cuts data into at most parts contiguous, possibly empty, chunks at
// random offsets. Concatenating the chunks yields data.
func (r *RNG) Split(data []byte, parts int) [][]byte {
	if parts <= 1 {
		return [][]byte{data}
	}

	r.mu.Lock()
	cuts := make([]int, parts-1)
	for i := range cuts {
		cuts[i] = r.rand.Intn(len(data) + 1)
	}
	r.mu.Unlock()
	sort.Ints(cuts)

	chunks := make([][]byte, 0, parts)
	prev := 0
	for _, c := range cuts {
		chunks = append(chunks, data[prev:c])
		prev = c
	}
	return append(chunks, data[prev:])
}

// FlipBit returns a copy of data with bit i (counting from the most
// significant bit of data[0]) inverted.
func FlipBit(data []byte, i int) []byte {
	out := make([]byte, len(data))
	copy(out, data)
	out[i/8] ^= 0x80 >> (i % 8)
	return out
}
