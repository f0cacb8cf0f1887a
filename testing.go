package variant

import (
	"context"
	"fmt"
)

// fakeParaphraser is a deterministic stand-in for a real LLM-backed
// Paraphraser, used by tests that exercise paraphrase_with_llm and
// context without a network dependency.
type fakeParaphraser struct {
	// Responses, if set, is returned verbatim (cycled to fill n) in place
	// of the generated echo variants below.
	Responses []string
	Err       error
}

func (f *fakeParaphraser) Paraphrase(_ context.Context, instruction string, n int, pctx ParaphraseCtx) ([]string, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	if len(f.Responses) > 0 {
		out := make([]string, 0, n)
		for i := 0; i < n; i++ {
			out = append(out, f.Responses[i%len(f.Responses)])
		}
		return out, nil
	}
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s (variant %d)", instruction, i)
	}
	return out, nil
}

// newEngineForTesting builds an Engine wired to a fakeParaphraser so
// paraphrase_with_llm and context can be exercised deterministically.
func newEngineForTesting(opts ...EngineOption) *Engine {
	all := append([]EngineOption{WithParaphraser(&fakeParaphraser{})}, opts...)
	return NewEngine(all...)
}
