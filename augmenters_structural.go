package variant

import (
	"strconv"
	"strings"
)

// romanNumerals is the literal table found in the original Python source's
// few-shot renderer (fewshot.py: `romans = [...'XL']`), capped at 40. Past
// this bound marker returns a KindAugmenterFailed error rather than
// truncating or wrapping; the `enumerate` field augmenter then omits the
// roman variant and still emits the other styles.
var romanNumerals = []string{
	"I", "II", "III", "IV", "V", "VI", "VII", "VIII", "IX", "X",
	"XI", "XII", "XIII", "XIV", "XV", "XVI", "XVII", "XVIII", "XIX", "XX",
	"XXI", "XXII", "XXIII", "XXIV", "XXV", "XXVI", "XXVII", "XXVIII", "XXIX", "XXX",
	"XXXI", "XXXII", "XXXIII", "XXXIV", "XXXV", "XXXVI", "XXXVII", "XXXVIII", "XXXIX", "XL",
}

const abcdLetters = "abcdefghijklmnopqrstuvwxyz"

// marker renders the N-th (0-based) enumeration marker for a style.
func marker(style EnumerateMarker, i int) (string, error) {
	switch style {
	case Enumerate1234:
		return strconv.Itoa(i+1) + ". ", nil
	case EnumerateABCD:
		if i >= len(abcdLetters) {
			return "", newErr(KindAugmenterFailed, "ABCD marker exhausted at index %d", i)
		}
		return strings.ToUpper(string(abcdLetters[i])) + ". ", nil
	case Enumerateabcd:
		if i >= len(abcdLetters) {
			return "", newErr(KindAugmenterFailed, "abcd marker exhausted at index %d", i)
		}
		return string(abcdLetters[i]) + ". ", nil
	case EnumerateRoman:
		if i >= len(romanNumerals) {
			return "", newErr(KindAugmenterFailed, "roman numeral table exhausted at index %d (max %d options)", i, len(romanNumerals))
		}
		return romanNumerals[i] + ". ", nil
	default:
		return "", newErr(KindAugmenterFailed, "unknown enumerate marker style %q", style)
	}
}

// renderEnumerated joins a list of options into a single comma-separated
// string, each prefixed with its marker: "1. a, 2. b, 3. c".
func renderEnumerated(options []string, style EnumerateMarker) (string, error) {
	parts := make([]string, len(options))
	for i, opt := range options {
		m, err := marker(style, i)
		if err != nil {
			return "", err
		}
		parts[i] = m + opt
	}
	return strings.Join(parts, ", "), nil
}

// enumerateAugmenter implements the `enumerate` field-variation form: it
// emits one variant per marker style, bounded by ctx.NAugments, the way
// multiple_choice_augmenter.py's "create variations with different
// enumeration styles" loop does.
func enumerateAugmenter(value string, ctx AugCtx) ([]FieldVariation, error) {
	options := splitList(value)
	if len(options) == 0 {
		return []FieldVariation{{Data: value}}, nil
	}

	styles := []EnumerateMarker{Enumerate1234, EnumerateABCD, Enumerateabcd, EnumerateRoman}
	var out []FieldVariation
	for _, style := range styles {
		rendered, err := renderEnumerated(options, style)
		if err != nil {
			continue // this style can't cover this many options; skip it
		}
		out = append(out, FieldVariation{Data: rendered})
		if ctx.NAugments > 0 && len(out) >= ctx.NAugments {
			break
		}
	}
	if len(out) == 0 {
		return nil, newErr(KindAugmenterFailed, "no enumerate marker style could cover %d options", len(options))
	}
	return out, nil
}

// shuffleAugmenter implements `shuffle`: parses the field value as a list,
// permutes it with the seeded RNG, and for every permutation emits a
// gold_update mapping the gold field to the new 0-based position of the
// original gold option.
func shuffleAugmenter(value string, ctx AugCtx) ([]FieldVariation, error) {
	options := splitList(value)
	if len(options) == 0 {
		return []FieldVariation{{Data: value}}, nil
	}
	if ctx.GoldField == "" {
		return nil, newErr(KindShuffleRequiresIndexGold, "shuffle invoked on field %q without a gold field in context", ctx.FieldName)
	}

	originalIdx, err := strconv.Atoi(strings.TrimSpace(ctx.GoldValue))
	if err != nil {
		return nil, wrapErr(KindGoldExtractionFailed, err, "shuffle: gold value %q is not an integer index", ctx.GoldValue)
	}
	if originalIdx < 0 || originalIdx >= len(options) {
		return nil, newErr(KindGoldExtractionFailed, "shuffle: gold index %d out of range for %d options", originalIdx, len(options))
	}

	n := ctx.NAugments
	if n <= 0 {
		n = 1
	}

	var out []FieldVariation
	for i := 0; i < n; i++ {
		r := newRand(ctx.Seed, "shuffle", ctx.FieldName, i)
		perm := r.Perm(len(options))

		shuffled := make([]string, len(options))
		newIdx := -1
		for pos, origIdx := range perm {
			shuffled[pos] = options[origIdx]
			if origIdx == originalIdx {
				newIdx = pos
			}
		}

		out = append(out, FieldVariation{
			Data:       strings.Join(shuffled, ", "),
			GoldUpdate: GoldUpdate{ctx.GoldField: strconv.Itoa(newIdx)},
		})
	}
	return out, nil
}
