package translator

import (
	"encoding/binary"
	"math/rand/v2"
)

// Source is the pseudo-random source behind language draws and synthetic
// entry names. Two Sources built from the same seed produce the same
// sequence, which keeps translations reproducible.
type Source struct {
	chacha *rand.ChaCha8
	rng    *rand.Rand
}

// NewSource returns a Source seeded with seed.
func NewSource(seed uint64) *Source {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:8], seed)
	c := rand.NewChaCha8(key)
	return &Source{chacha: c, rng: rand.New(c)}
}

// NewRandomSource returns a Source with a fresh random seed and that seed,
// so a production run can be replayed.
func NewRandomSource() (*Source, uint64) {
	seed := rand.Uint64()
	return NewSource(seed), seed
}

// Percent draws uniformly from [0, 100).
func (s *Source) Percent() float64 {
	return s.rng.Float64() * 100
}

// Read fills p with random bytes. It never fails.
func (s *Source) Read(p []byte) (int, error) {
	return s.chacha.Read(p)
}
