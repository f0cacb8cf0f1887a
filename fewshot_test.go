package variant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fewShotTestTemplate(format FewShotFormat, count int) *Template {
	return Parse(TemplateDoc{
		PromptFormat: "Q: {question}\nA:",
		Fields:       map[string][]string{"question": nil},
		FieldOrder:   []string{"question"},
		Gold:         &GoldSpec{Plain: "answer"},
		FewShot:      &FewShotSpec{Count: count, Format: string(format), Split: "all"},
	})
}

func fewShotTestRows() []Row {
	return []Row{
		{"question": "q0", "answer": "a0"},
		{"question": "q1", "answer": "a1"},
		{"question": "q2", "answer": "a2"},
		{"question": "q3", "answer": "a3"},
	}
}

func TestFewShotSelector_InsufficientData(t *testing.T) {
	tpl := fewShotTestTemplate(SharedOrderedFirstN, 10)
	rows := fewShotTestRows()
	sel := newFewShotSelector(tpl, rows, 1)

	_, err := sel.examplesFor(0, 1, 0)
	require.Error(t, err)
	var ee *EngineError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, KindInsufficientFewShotData, ee.Kind)
}

func TestFewShotSelector_SharedOrderedFirstN_ExcludesCurrentRow(t *testing.T) {
	tpl := fewShotTestTemplate(SharedOrderedFirstN, 2)
	rows := fewShotTestRows()
	sel := newFewShotSelector(tpl, rows, 1)

	msgs, err := sel.examplesFor(0, 1, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 4) // 2 examples * (user, assistant)
	assert.Contains(t, msgs[0].Content, "q1")
	assert.Contains(t, msgs[2].Content, "q2")
}

func TestFewShotSelector_SharedOrderedFirstN_StableAcrossRows(t *testing.T) {
	tpl := fewShotTestTemplate(SharedOrderedFirstN, 2)
	rows := fewShotTestRows()
	sel := newFewShotSelector(tpl, rows, 1)

	msgsForRow3, err := sel.examplesFor(3, 1, 0)
	require.NoError(t, err)
	assert.Contains(t, msgsForRow3[0].Content, "q0")
	assert.Contains(t, msgsForRow3[2].Content, "q1")
}

func TestFewShotSelector_RandomPerRow_Deterministic(t *testing.T) {
	tpl := fewShotTestTemplate(RandomPerRow, 2)
	rows := fewShotTestRows()
	sel1 := newFewShotSelector(tpl, rows, 1)
	sel2 := newFewShotSelector(tpl, rows, 1)

	a, err := sel1.examplesFor(0, 42, 1)
	require.NoError(t, err)
	b, err := sel2.examplesFor(0, 42, 1)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestFormatGoldAnswer_IndexWithEnumerate(t *testing.T) {
	tpl := Parse(TemplateDoc{
		PromptFormat: "{options}",
		Fields:       map[string][]string{"options": nil},
		FieldOrder:   []string{"options"},
		Gold:         &GoldSpec{Field: "answer_idx", Type: "index", OptionsField: "options"},
		Enumerate:    &EnumerateSpec{Field: "options", Type: "ABCD"},
	})
	row := Row{"options": []string{"red", "green", "blue"}, "answer_idx": "2"}

	answer, err := formatGoldAnswer(row, tpl)
	require.NoError(t, err)
	assert.Equal(t, "C. blue", answer)
}

func TestFormatGoldAnswer_PlainValue(t *testing.T) {
	tpl := Parse(TemplateDoc{PromptFormat: "{q}", Fields: map[string][]string{"q": nil}, FieldOrder: []string{"q"}, Gold: &GoldSpec{Plain: "answer"}})
	row := Row{"q": "x", "answer": "Paris"}
	answer, err := formatGoldAnswer(row, tpl)
	require.NoError(t, err)
	assert.Equal(t, "Paris", answer)
}
