package variant

import (
	"math/rand"
	"sort"
	"strconv"
)

// fewShotSelector picks and renders the example pairs embedded ahead of
// the main question. It is constructed once per Engine.Generate call so
// the "shared_*" formats can draw their pool a single time and reuse it
// across every row and variation, the way a fixed few-shot prefix would
// in the original tool.
//
// Split assignment is read from a "split" column on each row (values
// "train"/"test"); rows without the column are treated as belonging to
// every split. This isn't spelled out by the closed few-shot format
// enumeration, so it follows the convention the original dataset loader
// uses for train/test partitioning.
type fewShotSelector struct {
	template *Template
	data     []Row
	rootSeed int64

	pool          []int // row indices in the configured split
	sharedChosen  []int // cached draw for shared_* formats
	sharedDrawn   bool
}

func newFewShotSelector(t *Template, data []Row, rootSeed int64) *fewShotSelector {
	s := &fewShotSelector{template: t, data: data, rootSeed: rootSeed}
	if t.FewShot == nil {
		return s
	}
	for i, row := range data {
		if fewShotRowInSplit(row, t.FewShot.Split) {
			s.pool = append(s.pool, i)
		}
	}
	return s
}

func fewShotRowInSplit(row Row, split FewShotSplit) bool {
	if split == "" || split == SplitAll {
		return true
	}
	v, ok := row["split"]
	if !ok {
		return true
	}
	return toDisplayString(v) == string(split)
}

// examplesFor returns the (input, output) pairs for one (row, variation)
// combination, or an InsufficientFewShotData error if the pool can't
// supply the configured count once the current row is excluded.
func (s *fewShotSelector) examplesFor(currentRow int, rowSeed int64, variationOrdinal int) ([]Message, error) {
	cfg := s.template.FewShot
	if cfg == nil {
		return nil, nil
	}

	available := excludeIndex(s.pool, currentRow)
	if len(available) < cfg.Count {
		return nil, newErr(KindInsufficientFewShotData, "few_shot requires %d examples but only %d rows are available in split %q excluding the current row", cfg.Count, len(available), cfg.Split)
	}

	var indices []int
	switch cfg.Format {
	case SharedOrderedFirstN:
		indices = firstN(available, cfg.Count)

	case SharedOrderedRandomN:
		s.ensureSharedDraw(cfg.Count)
		indices = excludeIndex(s.sharedChosen, currentRow)
		if len(indices) > cfg.Count {
			indices = indices[:cfg.Count]
		}
		sort.Ints(indices)

	case SharedUnorderedRandomN:
		s.ensureSharedDraw(cfg.Count)
		indices = excludeIndex(s.sharedChosen, currentRow)
		if len(indices) > cfg.Count {
			indices = indices[:cfg.Count]
		}
		r := newRand(rowSeed^int64(variationOrdinal), "fewshot-order")
		r.Shuffle(len(indices), func(i, j int) { indices[i], indices[j] = indices[j], indices[i] })

	case RandomPerRow:
		r := newRand(rowSeed^int64(variationOrdinal), "fewshot-sample")
		indices = sampleN(r, available, cfg.Count)

	default:
		return nil, newErr(KindTemplateInvalid, "unknown few_shot format %q", cfg.Format)
	}

	msgs := make([]Message, 0, len(indices)*2)
	for _, idx := range indices {
		user, assistant, err := s.renderExample(s.data[idx])
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, user, assistant)
	}
	return msgs, nil
}

func (s *fewShotSelector) ensureSharedDraw(count int) {
	if s.sharedDrawn {
		return
	}
	r := newRand(42, "fewshot-shared")
	s.sharedChosen = sampleN(r, s.pool, count+1) // +1 slack to survive per-row exclusion
	s.sharedDrawn = true
}

// renderExample turns a dataset row into one {input, output} pair. The
// gold placeholder is stripped from prompt_format before rendering so the
// example's input never leaks the answer it's demonstrating.
func (s *fewShotSelector) renderExample(row Row) (user, assistant Message, err error) {
	t := s.template
	tpl := t.PromptFormat
	if t.Gold != nil {
		tpl = stripPlaceholder(tpl, t.Gold.Field)
	}

	values := make(map[string]string, len(t.fieldOrder))
	for _, name := range t.fieldOrder {
		values[name] = row.String(name)
	}

	input, _, rerr := renderTemplate(tpl, values)
	if rerr != nil {
		return Message{}, Message{}, rerr
	}

	answer, aerr := formatGoldAnswer(row, t)
	if aerr != nil {
		return Message{}, Message{}, aerr
	}

	return Message{Role: "user", Content: input}, Message{Role: "assistant", Content: answer}, nil
}

// formatGoldAnswer renders the expected answer for a row: the raw gold
// value, or for an index gold the option text, prefixed with its marker
// when the template has an enumerate spec. The top-level enumerate spec is
// used only here: rendered prompts and few-shot inputs show the options
// list without markers.
func formatGoldAnswer(row Row, t *Template) (string, error) {
	if t.Gold == nil {
		return "", newErr(KindGoldExtractionFailed, "template has no gold specification")
	}
	raw, err := evalAccessor(row, t.Gold.Field)
	if err != nil {
		return "", err
	}
	if t.Gold.Kind == GoldValue {
		return raw, nil
	}

	idx, err := strconv.Atoi(raw)
	if err != nil {
		return "", wrapErr(KindGoldExtractionFailed, err, "gold index %q is not an integer", raw)
	}
	options := splitList(row.String(t.Gold.OptionsField))
	if idx < 0 || idx >= len(options) {
		return "", newErr(KindGoldExtractionFailed, "gold index %d out of range for %d options", idx, len(options))
	}
	if t.Enumerate != nil {
		m, merr := marker(t.Enumerate.Type, idx)
		if merr != nil {
			return "", merr
		}
		return m + options[idx], nil
	}
	return options[idx], nil
}

func excludeIndex(indices []int, exclude int) []int {
	out := make([]int, 0, len(indices))
	for _, i := range indices {
		if i != exclude {
			out = append(out, i)
		}
	}
	return out
}

func firstN(indices []int, n int) []int {
	if n > len(indices) {
		n = len(indices)
	}
	out := make([]int, n)
	copy(out, indices[:n])
	return out
}

func sampleN(r *rand.Rand, pool []int, n int) []int {
	if n > len(pool) {
		n = len(pool)
	}
	perm := r.Perm(len(pool))[:n]
	out := make([]int, n)
	for i, p := range perm {
		out[i] = pool[p]
	}
	return out
}
