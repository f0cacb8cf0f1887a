package variant

import (
	"sort"
)

// TemplateDoc is the loosely-typed shape a template document arrives in.
// Callers build one from whatever serialization they use (JSON, YAML, a
// builder UI); Parse turns it into a validated Template.
type TemplateDoc struct {
	Instruction            string
	InstructionVariations  []string
	PromptFormat           string
	PromptFormatVariations []string
	// Fields maps column name to its augmenter list. The Row Combinator's
	// Cartesian-product field order is FieldOrder, or the sorted keys of
	// Fields when FieldOrder is empty.
	Fields     map[string][]string
	FieldOrder []string // must list every key of Fields exactly once

	Gold     *GoldSpec
	FewShot  *FewShotSpec
	Enumerate *EnumerateSpec
}

// GoldSpec is the raw form of the template's `gold` key: either a bare
// field/accessor string, or the struct form.
type GoldSpec struct {
	// Plain holds the string form ("a" or "answers['text'][0]"). Empty
	// when Field/Type are used instead.
	Plain string

	Field        string
	Type         string // "value" | "index"
	OptionsField string
}

// FewShotSpec is the raw form of the template's `few_shot` key.
type FewShotSpec struct {
	Count  int
	Format string
	Split  string
}

// EnumerateSpec is the raw form of the template's top-level `enumerate`
// key.
type EnumerateSpec struct {
	Field string
	Type  string
}

// Parse normalizes a TemplateDoc into the internal Template model without
// validating it; call Validate (or ParseAndValidate) before using the
// result with an Engine.
func Parse(doc TemplateDoc) *Template {
	t := &Template{
		Instruction:            doc.Instruction,
		InstructionVariations:  append([]string(nil), doc.InstructionVariations...),
		PromptFormat:           doc.PromptFormat,
		PromptFormatVariations: append([]string(nil), doc.PromptFormatVariations...),
		FieldAugmenters:        make(map[string][]string, len(doc.Fields)),
	}

	order := doc.FieldOrder
	if len(order) == 0 {
		order = make([]string, 0, len(doc.Fields))
		for name := range doc.Fields {
			order = append(order, name)
		}
		sort.Strings(order)
	}
	for _, name := range order {
		t.fieldOrder = append(t.fieldOrder, name)
		t.FieldAugmenters[name] = append([]string(nil), doc.Fields[name]...)
	}

	if doc.Gold != nil {
		g := &GoldConfig{}
		if doc.Gold.Plain != "" {
			g.Field = doc.Gold.Plain
			g.Kind = GoldValue
		} else {
			g.Field = doc.Gold.Field
			g.OptionsField = doc.Gold.OptionsField
			if doc.Gold.Type == "index" {
				g.Kind = GoldIndex
			} else {
				g.Kind = GoldValue
			}
		}
		t.Gold = g
	}

	if doc.FewShot != nil {
		t.FewShot = &FewShotConfig{
			Count:  doc.FewShot.Count,
			Format: FewShotFormat(doc.FewShot.Format),
			Split:  FewShotSplit(doc.FewShot.Split),
		}
	}

	if doc.Enumerate != nil {
		t.Enumerate = &EnumerateConfig{
			Field: doc.Enumerate.Field,
			Type:  EnumerateMarker(doc.Enumerate.Type),
		}
	}

	return t
}

// Validate enforces every structural and referential rule a template must
// satisfy, returning the complete list of problems rather than stopping at
// the first one.
func Validate(t *Template) error {
	var errs []*EngineError

	if t.Instruction == "" && t.PromptFormat == "" {
		errs = append(errs, newErr(KindTemplateInvalid, "at least one of instruction or prompt_format must be present and non-empty"))
	}

	fieldSet := make(map[string]struct{}, len(t.fieldOrder))
	for _, name := range t.fieldOrder {
		fieldSet[name] = struct{}{}
	}

	checkPlaceholders := func(label, tpl string) {
		if tpl == "" {
			return
		}
		names, err := extractPlaceholders(tpl)
		if err != nil {
			errs = append(errs, newErr(KindTemplateInvalid, "%s: %v", label, err))
			return
		}
		for _, name := range names {
			if t.Gold != nil && name == t.Gold.Field {
				continue // gold placeholders are stripped, not filled
			}
			if _, ok := fieldSet[name]; !ok {
				errs = append(errs, newErr(KindTemplateInvalid, "%s references unknown placeholder {%s}", label, name))
			}
		}
	}
	checkPlaceholders("instruction", t.Instruction)
	checkPlaceholders("prompt_format", t.PromptFormat)

	checkAugmenterNames := func(label string, names []string) {
		for _, name := range names {
			if _, ok := resolveAugmenter(name); !ok {
				errs = append(errs, newErr(KindTemplateInvalid, "%s: unknown augmenter %q", label, name))
			}
		}
	}
	checkAugmenterNames("instruction_variations", t.InstructionVariations)
	checkAugmenterNames("prompt_format_variations", t.PromptFormatVariations)
	for _, name := range t.fieldOrder {
		checkAugmenterNames("field "+name, t.FieldAugmenters[name])
	}

	if t.Gold != nil {
		if t.Gold.Field == "" {
			errs = append(errs, newErr(KindTemplateInvalid, "gold struct form requires field"))
		}
		if t.Gold.Kind == GoldIndex && t.Gold.OptionsField == "" {
			errs = append(errs, newErr(KindTemplateInvalid, `gold type "index" requires options_field`))
		}
		if _, err := parseAccessor(t.Gold.Field); err != nil {
			errs = append(errs, newErr(KindTemplateInvalid, "gold field %q is not a valid accessor: %v", t.Gold.Field, err))
		}
	}

	if t.FewShot != nil {
		if t.FewShot.Count < 1 {
			errs = append(errs, newErr(KindTemplateInvalid, "few_shot.count must be >= 1, got %d", t.FewShot.Count))
		}
		switch t.FewShot.Format {
		case SharedOrderedFirstN, SharedOrderedRandomN, SharedUnorderedRandomN, RandomPerRow:
		default:
			errs = append(errs, newErr(KindTemplateInvalid, "few_shot.format %q is not one of the closed enumeration", t.FewShot.Format))
		}
		switch t.FewShot.Split {
		case SplitAll, SplitTrain, SplitTest, "":
		default:
			errs = append(errs, newErr(KindTemplateInvalid, "few_shot.split %q must be one of all|train|test", t.FewShot.Split))
		}
		if t.Gold == nil {
			errs = append(errs, newErr(KindTemplateInvalid, "few_shot requires a gold specification"))
		}
	}

	if t.Enumerate != nil {
		switch t.Enumerate.Type {
		case Enumerate1234, EnumerateABCD, Enumerateabcd, EnumerateRoman:
		default:
			errs = append(errs, newErr(KindTemplateInvalid, "enumerate.type %q is not one of 1234|ABCD|abcd|roman", t.Enumerate.Type))
		}
	}

	for _, name := range t.fieldOrder {
		hasShuffle := false
		for _, aug := range t.FieldAugmenters[name] {
			canonical, _ := resolveAugmenter(aug)
			if canonical == augShuffle {
				hasShuffle = true
				break
			}
		}
		if hasShuffle {
			if t.Gold == nil || t.Gold.Kind != GoldIndex || t.Gold.OptionsField != name {
				errs = append(errs, newErr(KindShuffleRequiresIndexGold, "field %q lists shuffle but gold is not an index gold with options_field=%q", name, name))
			}
		}
	}

	if len(errs) > 0 {
		return &ValidationErrors{Errors: errs}
	}
	return nil
}

// ParseAndValidate is the common-case helper: Parse then Validate.
func ParseAndValidate(doc TemplateDoc) (*Template, error) {
	t := Parse(doc)
	if err := Validate(t); err != nil {
		return nil, err
	}
	return t, nil
}
