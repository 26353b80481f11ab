package sorter

import (
	"math/bits"
	"sync"
)

// MMIX multiplier and increment (Knuth).
const (
	lcgMultiplier uint64 = 0x5851f42d4c957f2d
	lcgIncrement  uint64 = 0x14057b7ef767814f
)

// SeededSource is a 64-bit linear congruential generator. The same seed
// always yields the same pivot sequence, so traces can be replayed exactly.
type SeededSource struct {
	mu    sync.Mutex
	state uint64
}

// NewSeededSource mixes seed through xorshift so nearby seeds diverge quickly.
func NewSeededSource(seed uint64) *SeededSource {
	return &SeededSource{state: xorshift(seed ^ lcgIncrement)}
}

func xorshift(x uint64) uint64 {
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	return x
}

func (s *SeededSource) next() uint64 {
	s.state = s.state*lcgMultiplier + lcgIncrement
	return s.state
}

// IntN returns a uniform value in [0, n) using the high bits of the state
// (Lemire's multiply-shift with rejection). It panics if n <= 0.
func (s *SeededSource) IntN(n int) int {
	if n <= 0 {
		panic("sorter: IntN called with non-positive n")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	bound := uint64(n)
	hi, lo := bits.Mul64(s.next(), bound)
	if lo < bound {
		threshold := -bound % bound
		for lo < threshold {
			hi, lo = bits.Mul64(s.next(), bound)
		}
	}
	return int(hi)
}
