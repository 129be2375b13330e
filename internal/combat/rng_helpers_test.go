package combat

import "math/rand/v2"

// zeroSource is a deterministic math/rand/v2 Source that always yields 0,
// making Float64() return 0 and IntN(n) return 0 — useful to force the
// "always succeeds" branch of probability rolls in tests.
type zeroSource struct{}

func (zeroSource) Uint64() uint64 { return 0 }

func rngAlwaysHits() *rand.Rand {
	return rand.New(zeroSource{})
}
