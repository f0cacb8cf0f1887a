package variant

import (
	"strings"

	"github.com/tyler-sommer/stick"
)

// extractPlaceholders returns the distinct {name} placeholders in a
// template string in first-seen order, or an error if braces are
// unbalanced. Placeholder names are restricted to the simple
// `{identifier}` form the prompt_format/instruction grammar uses — not
// stick's `{{ expr }}` syntax, which is an internal rendering detail, not
// the wire contract.
func extractPlaceholders(tpl string) ([]string, error) {
	var names []string
	depth := 0
	var cur strings.Builder
	for i := 0; i < len(tpl); i++ {
		c := tpl[i]
		switch c {
		case '{':
			if depth > 0 {
				return nil, newErr(KindTemplateInvalid, "nested '{' in template at byte %d", i)
			}
			depth++
			cur.Reset()
		case '}':
			if depth == 0 {
				return nil, newErr(KindTemplateInvalid, "unbalanced '}' in template at byte %d", i)
			}
			depth--
			names = append(names, cur.String())
		default:
			if depth > 0 {
				cur.WriteByte(c)
			}
		}
	}
	if depth != 0 {
		return nil, newErr(KindTemplateInvalid, "unbalanced '{' in template %q", tpl)
	}
	return dedupStrings(names), nil
}

// toStickSyntax rewrites `{name}` placeholders into stick's `{{ name }}`
// expression syntax so rendering goes through a real Twig-family template
// engine instead of naive string replacement, while keeping the
// single-brace wire-level placeholder grammar untouched.
func toStickSyntax(tpl string) string {
	var sb strings.Builder
	depth := 0
	var name strings.Builder
	for i := 0; i < len(tpl); i++ {
		c := tpl[i]
		switch c {
		case '{':
			depth++
			name.Reset()
		case '}':
			depth--
			sb.WriteString("{{ ")
			sb.WriteString(name.String())
			sb.WriteString(" }}")
		default:
			if depth > 0 {
				name.WriteByte(c)
			} else {
				sb.WriteByte(c)
			}
		}
	}
	return sb.String()
}

// stripPlaceholder removes a single `{name}` placeholder's literal text
// from a template: gold placeholders are stripped, not filled, so they
// never leak into a rendered prompt. It is applied before stick conversion
// so the gold field never becomes a renderable variable.
func stripPlaceholder(tpl, name string) string {
	return strings.ReplaceAll(tpl, "{"+name+"}", "")
}

// renderTemplate fills a `{field}` template against the given values using
// a stick.Env. Missing values render as "" and are reported via missing, a
// non-fatal diagnostic.
func renderTemplate(tpl string, values map[string]string) (rendered string, missing []string, err error) {
	placeholders, perr := extractPlaceholders(tpl)
	if perr != nil {
		return "", nil, perr
	}

	ctx := make(map[string]stick.Value, len(placeholders))
	for _, name := range placeholders {
		if v, ok := values[name]; ok {
			ctx[name] = v
		} else {
			ctx[name] = ""
			missing = append(missing, name)
		}
	}

	env := stick.New(nil)
	var out strings.Builder
	if err := env.Execute(toStickSyntax(tpl), &out, ctx); err != nil {
		return "", missing, wrapErr(KindMissingField, err, "render template %q", tpl)
	}
	return strings.TrimSpace(out.String()), missing, nil
}
