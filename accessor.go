package variant

import (
	"strconv"
	"strings"
)

// accessorStep is one hop of a gold accessor path: either a map key (Key
// non-empty) or a list index (HasIndex true).
type accessorStep struct {
	Key      string
	Index    int
	HasIndex bool
}

// parseAccessor splits a gold accessor expression into steps. Grammar is
// deliberately tiny: this is not a general expression evaluator, which
// would be a needless sandbox risk for what is just field lookups:
//
//	foo             -> [{Key: "foo"}]
//	foo.bar         -> [{Key: "foo"}, {Key: "bar"}]
//	foo['bar']      -> [{Key: "foo"}, {Key: "bar"}]
//	foo[0]          -> [{Key: "foo"}, {Index: 0, HasIndex: true}]
//	answers['text'][0] -> [{Key:"answers"}, {Key:"text"}, {Index:0,HasIndex:true}]
func parseAccessor(expr string) ([]accessorStep, error) {
	if expr == "" {
		return nil, newErr(KindGoldExtractionFailed, "empty accessor expression")
	}

	var steps []accessorStep
	i := 0
	n := len(expr)

	readBareKey := func() string {
		start := i
		for i < n && expr[i] != '.' && expr[i] != '[' {
			i++
		}
		return expr[start:i]
	}

	for i < n {
		switch {
		case expr[i] == '.':
			i++
			if i >= n {
				return nil, newErr(KindGoldExtractionFailed, "accessor %q ends with '.'", expr)
			}
			key := readBareKey()
			if key == "" {
				return nil, newErr(KindGoldExtractionFailed, "accessor %q has an empty path segment", expr)
			}
			steps = append(steps, accessorStep{Key: key})
		case expr[i] == '[':
			end := strings.IndexByte(expr[i:], ']')
			if end < 0 {
				return nil, newErr(KindGoldExtractionFailed, "accessor %q has an unbalanced '['", expr)
			}
			inner := expr[i+1 : i+end]
			i += end + 1
			inner = strings.TrimSpace(inner)
			if len(inner) >= 2 && (inner[0] == '\'' || inner[0] == '"') && inner[len(inner)-1] == inner[0] {
				steps = append(steps, accessorStep{Key: inner[1 : len(inner)-1]})
			} else {
				idx, err := strconv.Atoi(inner)
				if err != nil {
					return nil, wrapErr(KindGoldExtractionFailed, err, "accessor %q has a non-integer, unquoted bracket index %q", expr, inner)
				}
				steps = append(steps, accessorStep{Index: idx, HasIndex: true})
			}
		default:
			key := readBareKey()
			if key == "" {
				return nil, newErr(KindGoldExtractionFailed, "accessor %q could not be parsed", expr)
			}
			steps = append(steps, accessorStep{Key: key})
		}
	}
	return steps, nil
}

// evalAccessor walks a Row value through the parsed steps and renders the
// result with toDisplayString.
func evalAccessor(row Row, expr string) (string, error) {
	steps, err := parseAccessor(expr)
	if err != nil {
		return "", err
	}
	if len(steps) == 0 {
		return "", newErr(KindGoldExtractionFailed, "accessor %q resolved to no steps", expr)
	}

	var cur any = row
	for i, step := range steps {
		switch {
		case step.HasIndex:
			list, ok := asSlice(cur)
			if !ok {
				return "", newErr(KindGoldExtractionFailed, "accessor %q: step %d expected a list, got %T", expr, i, cur)
			}
			if step.Index < 0 || step.Index >= len(list) {
				return "", newErr(KindGoldExtractionFailed, "accessor %q: index %d out of range (len %d)", expr, step.Index, len(list))
			}
			cur = list[step.Index]
		default:
			m, ok := asMap(cur)
			if !ok {
				return "", newErr(KindGoldExtractionFailed, "accessor %q: step %d expected a map, got %T", expr, i, cur)
			}
			v, ok := m[step.Key]
			if !ok {
				return "", newErr(KindGoldExtractionFailed, "accessor %q: key %q not found", expr, step.Key)
			}
			cur = v
		}
	}
	return toDisplayString(cur), nil
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case Row:
		return map[string]any(m), true
	case map[string]any:
		return m, true
	default:
		return nil, false
	}
}

func asSlice(v any) ([]any, bool) {
	switch s := v.(type) {
	case []any:
		return s, true
	case []string:
		out := make([]any, len(s))
		for i, x := range s {
			out[i] = x
		}
		return out, true
	default:
		return nil, false
	}
}
