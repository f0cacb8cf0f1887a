package variant

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func engineTestTemplate(t *testing.T) *Template {
	t.Helper()
	tpl, err := ParseAndValidate(TemplateDoc{
		PromptFormat: "Q: {question}\nOptions: {options}\nA:",
		Fields: map[string][]string{
			"question": {"rewording"},
			"options":  {"shuffle"},
		},
		FieldOrder: []string{"question", "options"},
		Gold:       &GoldSpec{Field: "answer_idx", Type: "index", OptionsField: "options"},
	})
	require.NoError(t, err)
	return tpl
}

func engineTestRows() []Row {
	return []Row{
		{"question": "2+2?", "options": []string{"3", "4", "5"}, "answer_idx": "1"},
		{"question": "3+3?", "options": []string{"5", "6", "7"}, "answer_idx": "1"},
	}
}

func TestEngine_Generate_Deterministic(t *testing.T) {
	tpl := engineTestTemplate(t)
	rows := engineTestRows()
	cfg := VariationConfig{VariationsPerField: 2, RandomSeed: 7, MaxVariations: -1}

	e1 := NewEngine()
	e2 := NewEngine()

	out1, err := e1.Generate(tpl, rows, cfg)
	require.NoError(t, err)
	out2, err := e2.Generate(tpl, rows, cfg)
	require.NoError(t, err)

	require.Equal(t, len(out1), len(out2))
	for i := range out1 {
		assert.Equal(t, out1[i].Prompt, out2[i].Prompt)
	}

	// Full structural comparison, not just Prompt: two independently
	// constructed engines given the same seed must reproduce identical
	// FieldValues/GoldUpdates/ordinals too. testify's assert.Equal on a
	// whole-slice mismatch prints an unreadable single-line diff here, so
	// use cmp for a readable field-by-field report on failure.
	if diff := cmp.Diff(out1, out2); diff != "" {
		t.Fatalf("Generate is not deterministic (-run1 +run2):\n%s", diff)
	}
}

func TestEngine_Generate_RespectsMaxVariations(t *testing.T) {
	tpl := engineTestTemplate(t)
	rows := engineTestRows()
	cfg := VariationConfig{VariationsPerField: 2, RandomSeed: 7, MaxVariations: 3}

	out, err := NewEngine().Generate(tpl, rows, cfg)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(out), 3)
}

func TestEngine_Generate_RespectsMaxRows(t *testing.T) {
	tpl := engineTestTemplate(t)
	rows := engineTestRows()
	cfg := VariationConfig{VariationsPerField: 1, RandomSeed: 7, MaxRows: 1, MaxVariations: -1}

	out, err := NewEngine().Generate(tpl, rows, cfg)
	require.NoError(t, err)
	for _, gv := range out {
		assert.Equal(t, 0, gv.OriginalRowIndex)
	}
}

func TestEngine_Generate_InvalidTemplate(t *testing.T) {
	tpl := Parse(TemplateDoc{})
	_, err := NewEngine().Generate(tpl, nil, VariationConfig{})
	require.Error(t, err)
}

func TestEngine_GenerateSharded(t *testing.T) {
	tpl := engineTestTemplate(t)
	rows := engineTestRows()
	cfg := VariationConfig{VariationsPerField: 1, RandomSeed: 7, MaxVariations: -1}

	shards := [][]Row{{rows[0]}, {rows[1]}}
	results, err := NewEngine().GenerateSharded(context.Background(), tpl, shards, cfg)
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, shard := range results {
		assert.NotEmpty(t, shard)
	}
}

func TestEngine_Generate_ParaphraserFailureSurfaces(t *testing.T) {
	tpl, err := ParseAndValidate(TemplateDoc{
		Instruction: "Summarize {text}",
		Fields:      map[string][]string{"text": {"paraphrase_with_llm"}},
		FieldOrder:  []string{"text"},
	})
	require.NoError(t, err)

	rows := []Row{{"text": "hello"}}
	// No Paraphraser configured: the augmenter fails non-fatally and the
	// original value survives, it does not abort Generate.
	out, err := NewEngine().Generate(tpl, rows, VariationConfig{VariationsPerField: 1, MaxVariations: -1})
	require.NoError(t, err)
	require.NotEmpty(t, out)
}

func TestEngine_Generate_ZeroMaxVariationsYieldsEmpty(t *testing.T) {
	tpl := engineTestTemplate(t)
	rows := engineTestRows()
	cfg := VariationConfig{VariationsPerField: 2, RandomSeed: 7, MaxVariations: 0}

	out, err := NewEngine().Generate(tpl, rows, cfg)
	require.NoError(t, err)
	assert.Empty(t, out)
}
