package variant

import (
	"context"
	"errors"
)

// Canonical augmenter names. `surface` and `paraphrase` are documented
// aliases below; these five are canonical.
const (
	augRewording   = "rewording"
	augParaphrase  = "paraphrase_with_llm"
	augContext     = "context"
	augShuffle     = "shuffle"
	augEnumerate   = "enumerate"
	augFewShot     = "fewshot" // structural, never listed in a per-field list
)

// aliasTable maps a user-facing alias to its canonical name.
var aliasTable = map[string]string{
	"surface":    augRewording,
	"paraphrase": augParaphrase,
}

// resolveAugmenter maps a (possibly aliased) name to its canonical form
// and reports whether it belongs to the closed registry.
func resolveAugmenter(name string) (canonical string, ok bool) {
	if canon, aliased := aliasTable[name]; aliased {
		name = canon
	}
	switch name {
	case augRewording, augParaphrase, augContext, augShuffle, augEnumerate:
		return name, true
	default:
		return "", false
	}
}

// AugCtx carries everything an augmenter invocation needs beyond the raw
// field value.
type AugCtx struct {
	Context context.Context

	NAugments int
	Seed      int64

	// FieldName and Row give context-dependent augmenters (shuffle,
	// enumerate) access to the row they're operating on without handing
	// them the whole row by default for every augmenter.
	FieldName string
	Row       Row

	// GoldField/GoldValue/OptionsField are populated when the field being
	// augmented is gold-linked, so shuffle can compute gold_update.
	GoldField    string
	GoldValue    string
	OptionsField string

	// Paraphraser backs paraphrase_with_llm and context; nil unless
	// WithParaphraser was set on the Engine.
	Paraphraser Paraphraser
	ModelName   string
}

// augmenter is the internal dispatch contract every registry entry
// implements: `augment(value, ctx) -> [Variant]`.
type augmenter func(value string, ctx AugCtx) ([]FieldVariation, error)

// registry is the closed set of augmenter implementations, keyed by
// canonical name.
var registry = map[string]augmenter{
	augRewording:  rewordingAugmenter,
	augParaphrase: paraphraseAugmenter,
	augContext:    contextAugmenter,
	augShuffle:    shuffleAugmenter,
	augEnumerate:  enumerateAugmenter,
}

// invokeAugmenter runs one named augmenter and dedupes its result by
// (data, gold_update). The original value is guaranteed to survive in the
// field's variant list regardless of what an augmenter returns: the field
// expander always seeds that list with the original as entry zero before
// any augmenter runs, so individual augmenters need not re-add it
// (paraphrase_with_llm in particular is documented to omit it).
//
// A failed augmenter is non-fatal: the original value is kept for that
// step and a warning is logged.
func invokeAugmenter(name string, value string, ctx AugCtx, log augmenterLogger) []FieldVariation {
	canonical, ok := resolveAugmenter(name)
	if !ok {
		// Validate should have already caught this; defensive fallback.
		return []FieldVariation{{Data: value}}
	}

	fn := registry[canonical]
	variants, err := fn(value, ctx)
	if err != nil || len(variants) == 0 {
		if err == nil {
			err = errNoVariants
		}
		log.warnAugmenterFailed(canonical, ctx.FieldName, err)
		return []FieldVariation{{Data: value}}
	}

	return dedupVariants(variants)
}

var errNoVariants = errors.New("augmenter returned no variants")

// augmenterLogger decouples the registry from a concrete *slog.Logger so
// it can be unit-tested without constructing an Engine.
type augmenterLogger interface {
	warnAugmenterFailed(augmenter, field string, err error)
}
