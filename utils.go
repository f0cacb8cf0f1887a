package variant

import (
	"fmt"
	"strings"
)

// toDisplayString renders a Row value to its display form: scalars via
// fmt.Sprint, lists comma-joined, anything else via fmt.Sprint as a last
// resort (gold accessor results land here after extraction).
func toDisplayString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case []string:
		return strings.Join(x, ", ")
	case []any:
		parts := make([]string, len(x))
		for i, item := range x {
			parts[i] = toDisplayString(item)
		}
		return strings.Join(parts, ", ")
	case nil:
		return ""
	default:
		return fmt.Sprint(x)
	}
}

// splitList parses a field value the way the `shuffle` and `enumerate`
// structural augmenters expect it: an explicit []string passes through,
// otherwise a string is split on commas or newlines per the enumeration
// convention (whichever the value actually uses).
func splitList(v any) []string {
	switch x := v.(type) {
	case []string:
		out := make([]string, len(x))
		copy(out, x)
		return out
	case []any:
		out := make([]string, len(x))
		for i, item := range x {
			out[i] = strings.TrimSpace(toDisplayString(item))
		}
		return out
	case string:
		sep := ","
		if strings.Contains(x, "\n") && !strings.Contains(x, ",") {
			sep = "\n"
		}
		parts := strings.Split(x, sep)
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				out = append(out, p)
			}
		}
		return out
	default:
		return nil
	}
}

func dedupVariants(in []FieldVariation) []FieldVariation {
	seen := make(map[string]struct{}, len(in))
	out := make([]FieldVariation, 0, len(in))
	for _, v := range in {
		k := v.key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, v)
	}
	return out
}

func dedupStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
