package variant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nullLogger struct{}

func (nullLogger) warnAugmenterFailed(augmenter, field string, err error) {}

func TestExpandField_OriginalAlwaysFirst(t *testing.T) {
	tpl := Parse(TemplateDoc{
		Instruction: "{q}",
		Fields:      map[string][]string{"q": nil},
		FieldOrder:  []string{"q"},
	})
	row := Row{"q": "hello world"}
	cfg := VariationConfig{VariationsPerField: 3}

	out := expandField(tpl, row, "q", 1, 0, cfg, nil, "", nullLogger{})
	require.NotEmpty(t, out)
	assert.Equal(t, "hello world", out[0].Data)
}

func TestExpandField_AppliesAugmentersAndCaps(t *testing.T) {
	tpl := Parse(TemplateDoc{
		Instruction: "{q}",
		Fields:      map[string][]string{"q": {"rewording"}},
		FieldOrder:  []string{"q"},
	})
	row := Row{"q": "a somewhat longer test sentence here"}
	cfg := VariationConfig{VariationsPerField: 2}

	out := expandField(tpl, row, "q", 1, 0, cfg, nil, "", nullLogger{})
	assert.LessOrEqual(t, len(out), 2)
}

func TestExpandField_Deterministic(t *testing.T) {
	tpl := Parse(TemplateDoc{
		Instruction: "{q}",
		Fields:      map[string][]string{"q": {"rewording"}},
		FieldOrder:  []string{"q"},
	})
	row := Row{"q": "a somewhat longer test sentence here"}
	cfg := VariationConfig{VariationsPerField: 3}

	a := expandField(tpl, row, "q", 1, 0, cfg, nil, "", nullLogger{})
	b := expandField(tpl, row, "q", 1, 0, cfg, nil, "", nullLogger{})
	assert.Equal(t, a, b)
}

func TestExpandTextVariations(t *testing.T) {
	out := expandTextVariations("original", []string{"v1", "v2", "original"}, 0)
	assert.Equal(t, []string{"original", "v1", "v2"}, out)
}

func TestExpandTextVariations_Capped(t *testing.T) {
	out := expandTextVariations("original", []string{"v1", "v2"}, 2)
	assert.Len(t, out, 2)
}
