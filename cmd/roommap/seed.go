package main

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
)

// resolveSeed returns configured unless it is zero, in which case a fresh
// seed is drawn from crypto/rand.
func resolveSeed(configured int64) (int64, error) {
	if configured != 0 {
		return configured, nil
	}
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("generate seed: %w", err)
	}
	seed := int64(binary.LittleEndian.Uint64(b[:]) & 0x7fffffffffffffff)
	if seed == 0 {
		seed = 1
	}
	return seed, nil
}
