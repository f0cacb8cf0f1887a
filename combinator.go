package variant

import "strings"

// combinatorDim is one axis of the Cartesian product: a named set of
// candidate values for either a real dataset field or one of the two
// instruction/prompt_format pseudo-fields.
type combinatorDim struct {
	name   string
	values []FieldVariation
}

const (
	dimInstruction  = "__instruction"
	dimPromptFormat = "__prompt_format"
)

func wrapStrings(ss []string) []FieldVariation {
	out := make([]FieldVariation, len(ss))
	for i, s := range ss {
		out[i] = FieldVariation{Data: s}
	}
	return out
}

// combineRow runs the row combinator for a single dataset row: it takes
// the Cartesian product of every field's variant list (in
// template field order) plus the instruction and prompt_format variation
// lists, renders each combination into a full prompt and conversation, and
// stops once budget variations have been emitted.
func combineRow(t *Template, row Row, rowIdx int, cfg VariationConfig, rootSeed int64, paraphraser Paraphraser, modelName string, log augmenterLogger, fewShot *fewShotSelector, budget int) ([]GeneratedVariation, error) {
	if budget <= 0 {
		return nil, nil
	}

	dims := make([]combinatorDim, 0, len(t.fieldOrder)+2)
	dims = append(dims, combinatorDim{
		name:   dimInstruction,
		values: wrapStrings(expandTextVariations(t.Instruction, t.InstructionVariations, cfg.VariationsPerField)),
	})
	dims = append(dims, combinatorDim{
		name:   dimPromptFormat,
		values: wrapStrings(expandTextVariations(t.PromptFormat, t.PromptFormatVariations, cfg.VariationsPerField)),
	})
	for _, name := range t.fieldOrder {
		dims = append(dims, combinatorDim{
			name:   name,
			values: expandField(t, row, name, rootSeed, rowIdx, cfg, paraphraser, modelName, log),
		})
	}

	rowSeed := deriveSeed(rootSeed, rowIdx)

	idx := make([]int, len(dims))
	var out []GeneratedVariation
	ordinal := 0

	for {
		values := make(map[string]string, len(t.fieldOrder))
		var goldUpdates GoldUpdate
		var instruction, promptFormat string

		for d, dim := range dims {
			chosen := dim.values[idx[d]]
			switch dim.name {
			case dimInstruction:
				instruction = chosen.Data
			case dimPromptFormat:
				promptFormat = chosen.Data
			default:
				values[dim.name] = chosen.Data
			}
			if len(chosen.GoldUpdate) > 0 {
				if goldUpdates == nil {
					goldUpdates = GoldUpdate{}
				}
				for k, v := range chosen.GoldUpdate {
					goldUpdates[k] = v
				}
			}
		}

		gv, err := renderVariation(t, row, rowIdx, ordinal, rowSeed, instruction, promptFormat, values, goldUpdates, fewShot)
		if err != nil {
			return nil, err
		}
		out = append(out, gv)
		ordinal++
		if len(out) >= budget {
			return out, nil
		}

		if !incrementCounter(idx, dims) {
			break
		}
	}
	return out, nil
}

// incrementCounter advances a mixed-radix counter over each dim's value
// count, the rightmost (last-declared) dim moving fastest. Returns false
// once every combination has been produced.
func incrementCounter(idx []int, dims []combinatorDim) bool {
	for d := len(dims) - 1; d >= 0; d-- {
		idx[d]++
		if idx[d] < len(dims[d].values) {
			return true
		}
		idx[d] = 0
	}
	return false
}

func renderVariation(t *Template, row Row, rowIdx, ordinal int, rowSeed int64, instruction, promptFormat string, fieldValues map[string]string, goldUpdates GoldUpdate, fewShot *fewShotSelector) (GeneratedVariation, error) {
	strippedInstruction, strippedPromptFormat := instruction, promptFormat
	if t.Gold != nil {
		strippedInstruction = stripPlaceholder(strippedInstruction, t.Gold.Field)
		strippedPromptFormat = stripPlaceholder(strippedPromptFormat, t.Gold.Field)
	}

	renderedInstruction, _, err := renderTemplate(strippedInstruction, fieldValues)
	if err != nil {
		return GeneratedVariation{}, err
	}
	renderedFormat, _, err := renderTemplate(strippedPromptFormat, fieldValues)
	if err != nil {
		return GeneratedVariation{}, err
	}

	var userContent string
	switch {
	case renderedInstruction != "" && renderedFormat != "":
		userContent = renderedInstruction + "\n\n" + renderedFormat
	case renderedInstruction != "":
		userContent = renderedInstruction
	default:
		userContent = renderedFormat
	}

	var conversation []Message
	if fewShot != nil && t.FewShot != nil {
		examples, err := fewShot.examplesFor(rowIdx, rowSeed, ordinal)
		if err != nil {
			return GeneratedVariation{}, err
		}
		conversation = append(conversation, examples...)
	}
	conversation = append(conversation, Message{Role: "user", Content: userContent})

	var promptParts []string
	for _, m := range conversation {
		promptParts = append(promptParts, m.Content)
	}

	return GeneratedVariation{
		Prompt:           strings.Join(promptParts, "\n\n"),
		Conversation:     conversation,
		OriginalRowIndex: rowIdx,
		VariationOrdinal: ordinal,
		FieldValues:      fieldValues,
		GoldUpdates:      goldUpdates,
	}, nil
}
