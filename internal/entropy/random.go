// Package entropy provides non-reproducible randomness for default seeds.
// Reproducible generation always goes through an explicit seed instead.
package entropy

import (
	"crypto/rand"
	"encoding/binary"
	"log/slog"
)

// maxSeed bounds default seeds so they stay exactly representable as float64
// when fed into the sine-based permutation stream.
const maxSeed = 1 << 30

// Seed returns a fresh random seed in [0, 2^30).
func Seed() int64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand does not fail on supported platforms.
		slog.Warn("crypto/rand failed, using fixed seed", "error", err)
		return 1
	}
	return int64(binary.LittleEndian.Uint64(buf[:]) % maxSeed)
}

