// Package testutil provides testing utilities for crcgo.
//
// This package is intended for use in tests and benchmarks only.
// It provides a deterministic, thread-safe RNG for generating payloads and
// helpers for corrupting data in controlled ways.
//
// # Random Payloads
//
//	rng := testutil.NewRNG(seed)
//	data := rng.Bytes(4096)
//	chunks := rng.Split(data, 7) // random split points, for streaming tests
//
// # Corruption
//
//	bad := testutil.FlipBit(data, 1234) // copy with one bit inverted
package testutil
