package variant

// expandField builds the full variant list for one dataset field: the
// original value always comes first, so that skipping augmentation
// degenerates to the identity case, followed by every listed augmenter's
// output, deduplicated and capped at VariationsPerField.
func expandField(t *Template, row Row, fieldName string, rootSeed int64, rowIdx int, cfg VariationConfig, paraphraser Paraphraser, modelName string, log augmenterLogger) []FieldVariation {
	original := row.String(fieldName)

	var goldField, goldValue, optionsField string
	if t.Gold != nil && t.Gold.Kind == GoldIndex && t.Gold.OptionsField == fieldName {
		goldField = t.Gold.Field
		optionsField = t.Gold.OptionsField
		if v, err := evalAccessor(row, t.Gold.Field); err == nil {
			goldValue = v
		}
	}

	// The identity entry must carry the identity gold_update when this
	// field is gold-linked: it is itself one of the permutations (the
	// unshuffled one), and every permutation, not just the augmented
	// ones, needs its gold_update populated.
	identity := FieldVariation{Data: original}
	if goldField != "" {
		identity.GoldUpdate = GoldUpdate{goldField: goldValue}
	}
	out := []FieldVariation{identity}

	for _, augName := range t.FieldAugmenters[fieldName] {
		seed := deriveSeed(rootSeed, rowIdx, fieldName, augName)
		ctx := AugCtx{
			NAugments:    maxInt(cfg.VariationsPerField, 1),
			Seed:         seed,
			FieldName:    fieldName,
			Row:          row,
			GoldField:    goldField,
			GoldValue:    goldValue,
			OptionsField: optionsField,
			Paraphraser:  paraphraser,
			ModelName:    modelName,
		}
		out = append(out, invokeAugmenter(augName, original, ctx, log)...)
	}

	out = dedupVariants(out)
	if cfg.VariationsPerField > 0 && len(out) > cfg.VariationsPerField {
		out = out[:cfg.VariationsPerField]
	}
	return out
}

// expandTextVariations handles the instruction/prompt_format pseudo-fields:
// their `*_variations` lists are literal alternate texts, not augmenter
// names, so expansion is just "original first, then the declared
// variants", deduplicated and capped.
func expandTextVariations(original string, variations []string, maxPerField int) []string {
	out := make([]string, 0, len(variations)+1)
	out = append(out, original)
	out = append(out, variations...)
	out = dedupStrings(out)
	if maxPerField > 0 && len(out) > maxPerField {
		out = out[:maxPerField]
	}
	return out
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
