// Package variant generates deterministic, deduplicated prompt variations
// from a tabular dataset and a declarative template.
//
// # Problem statement
//
// Evaluating an LLM against a single fixed phrasing of a prompt tells you
// how it does on that phrasing, not on the task. Small, meaning-preserving
// changes — a reworded instruction, a different few-shot selection, a
// shuffled multiple-choice option order — routinely move accuracy by
// double digits. Building that variation set by hand for every dataset and
// task doesn't scale, and two runs of a hand-rolled script rarely agree on
// exactly which variations exist, making regressions hard to attribute.
//
// The variant package solves this by providing:
//
//   - Declarative templates: describe which fields get which augmenters
//     instead of writing generation code per dataset.
//   - A closed augmenter set: rewording, paraphrase_with_llm, context,
//     shuffle, and enumerate are the only transformations the core knows,
//     so output is auditable.
//   - Determinism: the same template, dataset, and seed always produce the
//     same stream of variations, down to their ordinal numbering.
//   - Gold tracking: augmenters that reorder options (shuffle) carry their
//     gold_update forward automatically so labels never drift out of sync
//     with the option list a variation actually presents.
//
// # Basic usage
//
//	doc := variant.TemplateDoc{
//	    PromptFormat: "Question: {question}\nOptions: {options}\nAnswer:",
//	    Fields: map[string][]string{
//	        "question": {"rewording"},
//	        "options":  {"shuffle"},
//	    },
//	    FieldOrder: []string{"question", "options"},
//	    Gold: &variant.GoldSpec{Field: "answer_idx", Type: "index", OptionsField: "options"},
//	}
//	tpl, err := variant.ParseAndValidate(doc)
//
//	engine := variant.NewEngine()
//	variations, err := engine.Generate(tpl, dataset, variant.VariationConfig{
//	    VariationsPerField: 3,
//	    MaxVariations:      500,
//	    RandomSeed:         42,
//	})
//
// # Gold accessors
//
// The gold field is a small accessor expression, not a general expression
// language: bare keys, dotted paths, and bracketed string or integer
// indices (answers['text'][0]) are the whole grammar. Anything richer is
// out of scope by design — see accessor.go.
//
// # Sharded generation
//
// GenerateSharded fans a dataset split into independent shards out across
// a Runner, useful when a dataset is large enough that single-threaded
// expansion becomes the bottleneck. WithRunner overrides the default
// errgroup-backed implementation.
package variant
