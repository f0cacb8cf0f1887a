package variant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAccessor(t *testing.T) {
	cases := []struct {
		expr string
		want []accessorStep
	}{
		{"foo", []accessorStep{{Key: "foo"}}},
		{"foo.bar", []accessorStep{{Key: "foo"}, {Key: "bar"}}},
		{"foo['bar']", []accessorStep{{Key: "foo"}, {Key: "bar"}}},
		{"foo[0]", []accessorStep{{Key: "foo"}, {Index: 0, HasIndex: true}}},
		{"answers['text'][0]", []accessorStep{{Key: "answers"}, {Key: "text"}, {Index: 0, HasIndex: true}}},
	}
	for _, tc := range cases {
		got, err := parseAccessor(tc.expr)
		require.NoError(t, err, tc.expr)
		assert.Equal(t, tc.want, got, tc.expr)
	}
}

func TestParseAccessor_Errors(t *testing.T) {
	for _, expr := range []string{"", "foo.", "foo[bad]", "foo["} {
		_, err := parseAccessor(expr)
		assert.Error(t, err, expr)
	}
}

func TestEvalAccessor(t *testing.T) {
	row := Row{
		"answer": "Paris",
		"nested": map[string]any{"city": "Rome"},
		"answers": map[string]any{
			"text": []any{"first", "second"},
		},
	}

	v, err := evalAccessor(row, "answer")
	require.NoError(t, err)
	assert.Equal(t, "Paris", v)

	v, err = evalAccessor(row, "nested.city")
	require.NoError(t, err)
	assert.Equal(t, "Rome", v)

	v, err = evalAccessor(row, "answers['text'][1]")
	require.NoError(t, err)
	assert.Equal(t, "second", v)
}

func TestEvalAccessor_OutOfRange(t *testing.T) {
	row := Row{"answers": []any{"a", "b"}}
	_, err := evalAccessor(row, "answers[5]")
	require.Error(t, err)
	var ee *EngineError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, KindGoldExtractionFailed, ee.Kind)
}
