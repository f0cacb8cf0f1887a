package variant

import (
	"fmt"
	"hash/fnv"
	"math/rand"
)

// deriveSeed combines a root seed with arbitrary context parts (row index,
// field name, augmenter name, invocation ordinal, ...) into a reproducible
// sub-seed, so reruns with the same root seed are reproducible. A
// non-cryptographic hash over the ordered tuple is enough here — there is
// no adversarial input to defend against, only the need for a stable,
// well-distributed mapping from a tuple to an int64.
func deriveSeed(root int64, parts ...any) int64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%d", root)
	for _, p := range parts {
		h.Write([]byte{0})
		fmt.Fprintf(h, "%v", p)
	}
	return int64(h.Sum64())
}

// newRand returns a PRNG seeded deterministically from the given parts.
func newRand(root int64, parts ...any) *rand.Rand {
	return rand.New(rand.NewSource(deriveSeed(root, parts...)))
}
