package variant

import "log/slog"

// Row is an ordered mapping from field name to field value. Values are
// stored pre-formatted as strings by the caller for scalars, or as
// []string for list-valued fields (joined with ", " when rendered), or as
// arbitrary nested data reachable only via a gold accessor expression.
type Row map[string]any

// String renders a row value to its display form: scalars pass through
// fmt.Sprint, []string joins with ", ".
func (r Row) String(field string) string {
	v, ok := r[field]
	if !ok {
		return ""
	}
	return toDisplayString(v)
}

// GoldKind distinguishes a literal gold value from an index into an
// options list.
type GoldKind int

const (
	// GoldValue means the gold field holds the answer text itself.
	GoldValue GoldKind = iota
	// GoldIndex means the gold field holds a 0-based index into
	// OptionsField's list.
	GoldIndex
)

func (k GoldKind) String() string {
	if k == GoldIndex {
		return "index"
	}
	return "value"
}

// GoldConfig describes where the expected answer for a row lives.
type GoldConfig struct {
	// Field is either a bare column name or an accessor expression
	// (foo.bar, foo['bar'], foo[0], ...).
	Field string
	Kind  GoldKind
	// OptionsField names the column holding the candidate list, required
	// when Kind == GoldIndex.
	OptionsField string
}

// FewShotFormat is the closed set of few-shot sampling strategies.
type FewShotFormat string

const (
	SharedOrderedFirstN     FewShotFormat = "shared_ordered_first_n"
	SharedOrderedRandomN    FewShotFormat = "shared_ordered_random_n"
	SharedUnorderedRandomN  FewShotFormat = "shared_unordered_random_n"
	RandomPerRow            FewShotFormat = "random_per_row"
)

// FewShotSplit restricts the sampling pool to a subset of the dataset.
type FewShotSplit string

const (
	SplitAll   FewShotSplit = "all"
	SplitTrain FewShotSplit = "train"
	SplitTest  FewShotSplit = "test"
)

// FewShotConfig is the validated form of the template's `few_shot` key.
type FewShotConfig struct {
	Count  int
	Format FewShotFormat
	Split  FewShotSplit
}

// EnumerateMarker is the closed set of option-list marker styles.
type EnumerateMarker string

const (
	Enumerate1234 EnumerateMarker = "1234"
	EnumerateABCD EnumerateMarker = "ABCD"
	Enumerateabcd EnumerateMarker = "abcd"
	EnumerateRoman EnumerateMarker = "roman"
)

// EnumerateConfig is the validated form of the template's `enumerate` key.
type EnumerateConfig struct {
	Field string
	Type  EnumerateMarker
}

// GoldUpdate maps a gold field name to its rewritten value, emitted by
// augmenters (only `shuffle` in the closed set) that reorder options.
type GoldUpdate map[string]string

// FieldVariation is one augmented value of a single field.
type FieldVariation struct {
	Data       string
	GoldUpdate GoldUpdate // nil unless the field is gold-linked (the original-order entry carries the unchanged gold)
}

// key identifies a FieldVariation for the expander's dedup pass.
func (v FieldVariation) key() string {
	if len(v.GoldUpdate) == 0 {
		return v.Data + "\x00"
	}
	s := v.Data + "\x00"
	for k, val := range v.GoldUpdate {
		s += k + "=" + val + "\x01"
	}
	return s
}

// Message is one turn of a rendered conversation.
type Message struct {
	Role    string // "system", "user", "assistant"
	Content string
}

// GeneratedVariation is the unit of engine output: one fully rendered
// prompt plus the metadata needed to trace it back to its source row.
type GeneratedVariation struct {
	Prompt            string
	Conversation      []Message
	OriginalRowIndex  int
	VariationOrdinal  int
	FieldValues       map[string]string
	GoldUpdates       GoldUpdate // nil when no chosen variant carries a gold update (no gold-linked options field)
}

// Template is the validated internal model of a template document.
type Template struct {
	Instruction             string
	InstructionVariations   []string
	PromptFormat            string
	PromptFormatVariations  []string
	// FieldAugmenters maps a dataset column name to its ordered augmenter
	// list; fieldOrder holds the field order (see FieldOrder).
	FieldAugmenters map[string][]string
	fieldOrder      []string

	Gold     *GoldConfig
	FewShot  *FewShotConfig
	Enumerate *EnumerateConfig
}

// FieldOrder returns the per-field augmenter keys in TemplateDoc.FieldOrder
// order, or sorted by name when that was empty. The Row Combinator takes the
// Cartesian product in this order so that variation numbering is
// reproducible.
func (t *Template) FieldOrder() []string {
	return append([]string(nil), t.fieldOrder...)
}

// VariationConfig bounds and seeds one engine run.
type VariationConfig struct {
	VariationsPerField int
	// MaxVariations is the hard cap on total output size. Zero is a real
	// budget of zero: Generate returns an empty list with no side effects.
	// A negative value means unbounded.
	MaxVariations int
	RandomSeed    int64
	MaxRows       int // 0 means unbounded
}

// Runner lets the Engine schedule shard work with any concurrency model:
// "schedule" plus "join / propagate first err" is exactly what
// GenerateSharded needs.
type Runner interface {
	Go(fn func() error)
	Wait() error
}

// EngineOption configures an Engine at construction time.
type EngineOption func(*Engine)

// WithLogger overrides the default slog.Default() logger.
func WithLogger(log *slog.Logger) EngineOption {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithParaphraser wires the capability used by `paraphrase_with_llm` and
// `context`. Without it those augmenters return a KindParaphraserUnavailable
// error; the engine logs that as an augmenter failure and keeps the
// original value, and Generate does not return the error.
func WithParaphraser(p Paraphraser) EngineOption {
	return func(e *Engine) { e.paraphraser = p }
}

// WithRunner overrides the Runner used by GenerateSharded. It has no
// effect on single-shard Generate calls, which are always sequential.
func WithRunner(r Runner) EngineOption {
	return func(e *Engine) { e.runner = r }
}

// WithModelName records which model the configured Paraphraser is calling,
// so it reaches ParaphraseCtx.ModelName and can be echoed into prompts or
// used for per-model seed derivation.
func WithModelName(name string) EngineOption {
	return func(e *Engine) { e.modelName = name }
}
