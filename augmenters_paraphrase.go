package variant

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// ParaphraseCtx carries call-scoped parameters down to a Paraphraser
// implementation. It deliberately excludes transport concerns (API keys,
// HTTP clients) — those belong to the concrete implementation, not the
// core generation path.
type ParaphraseCtx struct {
	ModelName string
	Seed      int64
}

// Paraphraser is the external capability abstraction:
// "paraphrase(instruction, n, context) -> Result<[string], Error>". The
// core never constructs one itself — callers supply an implementation via
// WithParaphraser.
type Paraphraser interface {
	Paraphrase(ctx context.Context, instruction string, n int, pctx ParaphraseCtx) ([]string, error)
}

// paraphraseInstructionTemplate is the default wrapping prompt the core
// sends to the configured Paraphraser. Kept verbatim so output stays
// compatible with existing evaluation baselines built against it; carried
// over unchanged from the original source's instruction_template
// (promptsuite/augmentations/text/paraphrase.py), with its Python
// `.format()` placeholders translated to fmt verbs.
const paraphraseInstructionTemplate = `Help me write creative variations of an instruction prompt to an LLM for the following task description.

IMPORTANT: The instruction may contain placeholders in curly braces like {subject}, {topic}, {field}, etc. These placeholders MUST be preserved EXACTLY as they appear in ALL variations.

Provide %d creative versions while:
1. Preserving the original meaning and intent
2. Keeping ALL placeholders {} unchanged in their exact positions
3. Varying the instructional language around the placeholders
4. NEVER introduce new placeholders - if the original has no placeholders, the variations must have none

Output only a Python list of strings with the alternatives. Do not include any explanation or additional text.

Original instruction: '''%s'''`

// buildRephrasingPrompt fills paraphraseInstructionTemplate the way
// build_rephrasing_prompt did in the original source.
func buildRephrasingPrompt(n int, prompt string) string {
	return fmt.Sprintf(paraphraseInstructionTemplate, n, prompt)
}

// paraphraseAugmenter implements `paraphrase_with_llm`. It may omit the
// original value from its output (the field expander's initial seed entry
// already guarantees the original survives). Results
// that dropped or renamed a placeholder are discarded: the capability
// "must preserve every {placeholder} token verbatim ... never invents new
// placeholders".
func paraphraseAugmenter(value string, ctx AugCtx) ([]FieldVariation, error) {
	if ctx.Paraphraser == nil {
		return nil, &EngineError{Kind: KindParaphraserUnavailable, Message: "paraphrase_with_llm requires a configured Paraphraser"}
	}
	n := ctx.NAugments
	if n <= 0 {
		n = 1
	}

	wantPlaceholders, err := extractPlaceholders(value)
	if err != nil {
		return nil, err
	}

	rephrasingPrompt := buildRephrasingPrompt(n, value)

	cctx := ctx.Context
	if cctx == nil {
		cctx = context.Background()
	}

	results, err := retryParaphrase(cctx, ctx.Paraphraser, rephrasingPrompt, n, ParaphraseCtx{ModelName: ctx.ModelName, Seed: ctx.Seed}, 2, 100*time.Millisecond)
	if err != nil {
		return nil, wrapErr(KindAugmenterFailed, err, "paraphrase_with_llm")
	}

	out := make([]FieldVariation, 0, len(results))
	for _, r := range results {
		if !preservesPlaceholders(r, wantPlaceholders) {
			continue
		}
		out = append(out, FieldVariation{Data: r})
	}
	if len(out) == 0 {
		return nil, newErr(KindAugmenterFailed, "paraphrase_with_llm: no candidate preserved all placeholders")
	}
	return out, nil
}

// contextAugmenter implements `context`: calls the Paraphraser to prepend
// a short contextual preamble, yielding both "with-context" and
// "without-context" variants.
func contextAugmenter(value string, ctx AugCtx) ([]FieldVariation, error) {
	if ctx.Paraphraser == nil {
		return nil, &EngineError{Kind: KindParaphraserUnavailable, Message: "context requires a configured Paraphraser"}
	}

	cctx := ctx.Context
	if cctx == nil {
		cctx = context.Background()
	}

	instruction := "Write one short, neutral sentence of background context that would plausibly precede the following text, without revealing or guessing its answer:\n\n'''" + value + "'''"

	preambles, err := retryParaphrase(cctx, ctx.Paraphraser, instruction, 1, ParaphraseCtx{ModelName: ctx.ModelName, Seed: ctx.Seed}, 2, 100*time.Millisecond)
	if err != nil || len(preambles) == 0 {
		// context generation is a best-effort enrichment; fall back to the
		// bare, context-free variant rather than failing the field.
		return []FieldVariation{{Data: value}}, nil
	}

	out := []FieldVariation{{Data: value}}
	for _, p := range preambles {
		out = append(out, FieldVariation{Data: strings.TrimSpace(p) + "\n\n" + value})
	}
	return out, nil
}

// preservesPlaceholders checks that a paraphrase candidate contains every
// placeholder the original had, and no others.
func preservesPlaceholders(candidate string, want []string) bool {
	got, err := extractPlaceholders(candidate)
	if err != nil {
		return false
	}
	if len(got) != len(want) {
		return false
	}
	wantSet := make(map[string]struct{}, len(want))
	for _, w := range want {
		wantSet[w] = struct{}{}
	}
	for _, g := range got {
		if _, ok := wantSet[g]; !ok {
			return false
		}
	}
	return true
}

// retryParaphrase wraps a single Paraphraser call with bounded exponential
// backoff, since a remote LLM call is exactly the kind of transient
// failure retrying helps with.
func retryParaphrase(ctx context.Context, p Paraphraser, instruction string, n int, pctx ParaphraseCtx, maxRetries int, backoff time.Duration) ([]string, error) {
	var lastErr error
	delay := backoff
	for attempt := 0; attempt <= maxRetries; attempt++ {
		results, err := p.Paraphrase(ctx, instruction, n, pctx)
		if err == nil {
			return results, nil
		}
		lastErr = err
		if attempt == maxRetries {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return nil, lastErr
}
