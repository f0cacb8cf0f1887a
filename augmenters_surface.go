package variant

import (
	"math/rand"
	"strings"
	"unicode"
)

// rewordingAugmenter implements the `rewording` / `surface` augmenter:
// spacing, punctuation, typo, and case-change perturbations applied with
// small per-token probabilities, chosen to preserve semantics. Each
// requested variant applies a distinct, deterministically seeded
// combination of these perturbations.
func rewordingAugmenter(value string, ctx AugCtx) ([]FieldVariation, error) {
	n := ctx.NAugments
	if n <= 0 {
		n = 1
	}
	out := make([]FieldVariation, 0, n)
	for i := 0; i < n; i++ {
		r := newRand(ctx.Seed, "rewording", ctx.FieldName, i)
		out = append(out, FieldVariation{Data: perturbSurface(value, r)})
	}
	return out, nil
}

const (
	pDoubleSpace  = 0.15
	pPunctuation  = 0.15
	pCaseChange   = 0.15
	pCharTypo     = 0.10
)

// perturbSurface applies small, independent per-token perturbations. It
// never changes word order or removes content, so the result stays
// semantically equivalent to the input.
func perturbSurface(value string, r *rand.Rand) string {
	tokens := strings.Fields(value)
	if len(tokens) == 0 {
		return value
	}

	for i, tok := range tokens {
		if r.Float64() < pCaseChange && len(tok) > 0 {
			tokens[i] = flipFirstRuneCase(tok)
		}
		if r.Float64() < pCharTypo && len(tok) > 2 {
			tokens[i] = swapAdjacentRunes(tokens[i], r)
		}
	}

	result := strings.Join(tokens, " ")

	if r.Float64() < pDoubleSpace {
		result = insertExtraSpace(result, r)
	}
	if r.Float64() < pPunctuation {
		result = nudgePunctuation(result, r)
	}
	return result
}

func flipFirstRuneCase(tok string) string {
	runes := []rune(tok)
	if unicode.IsUpper(runes[0]) {
		runes[0] = unicode.ToLower(runes[0])
	} else {
		runes[0] = unicode.ToUpper(runes[0])
	}
	return string(runes)
}

func swapAdjacentRunes(tok string, r *rand.Rand) string {
	runes := []rune(tok)
	if len(runes) < 3 {
		return tok
	}
	i := 1 + r.Intn(len(runes)-2)
	runes[i], runes[i+1] = runes[i+1], runes[i]
	return string(runes)
}

func insertExtraSpace(s string, r *rand.Rand) string {
	idx := strings.IndexByte(s, ' ')
	if idx < 0 {
		return s
	}
	positions := []int{}
	for i, c := range s {
		if c == ' ' {
			positions = append(positions, i)
		}
	}
	pos := positions[r.Intn(len(positions))]
	return s[:pos] + " " + s[pos:]
}

func nudgePunctuation(s string, r *rand.Rand) string {
	switch {
	case strings.HasSuffix(s, "."):
		if r.Intn(2) == 0 {
			return strings.TrimSuffix(s, ".") + "!"
		}
		return s + ".."
	case strings.HasSuffix(s, "?"):
		return s + "?"
	default:
		return s + ","
	}
}
