// Package variant's plan.go implements the pre-flight "Explain" estimator:
// given a validated Template and a dataset, predict how many prompt
// variations a Generate call will actually produce before running it, so
// callers can catch a runaway Cartesian product (or an unreachable
// few-shot split) without spending the time to generate it.
//
// # Basic usage
//
//	plan, err := NewPlanBuilder(tpl, dataset, cfg).Explain()
//	textPlan, _ := NewPlanBuilder(tpl, dataset, cfg).ExplainPretty(FormatText)
//	fmt.Println(textPlan)
package variant

import (
	"fmt"
)

// PlanNodeType labels one stage of the estimate tree.
type PlanNodeType string

const (
	NodeDataset       PlanNodeType = "Dataset"
	NodeInstruction   PlanNodeType = "InstructionVariations"
	NodePromptFormat  PlanNodeType = "PromptFormatVariations"
	NodeFieldExpand   PlanNodeType = "FieldExpansion"
	NodeCombinator    PlanNodeType = "RowCombinator"
)

// PlanNode is one node of the estimate tree. Warning: Children and
// Metadata are exported for extensibility but should not be modified after
// Explain returns, to keep EstimatedCount consistent with its children.
type PlanNode struct {
	Type           PlanNodeType           `json:"type"`
	Label          string                 `json:"label,omitempty"`
	EstimatedCount int                    `json:"estimatedCount"`
	Children       []*PlanNode            `json:"children,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// FormatType selects the Explain output rendering.
type FormatType string

const (
	FormatText FormatType = "text"
	FormatJSON FormatType = "json"
)

// PlanBuilder estimates the variation count a Generate call with the same
// template, dataset, and config would produce.
//
// Note: PlanBuilder is not thread-safe. Create separate instances for
// concurrent use.
type PlanBuilder struct {
	template *Template
	data     []Row
	cfg      VariationConfig
}

// NewPlanBuilder builds a PlanBuilder for the given template, dataset, and
// generation config.
func NewPlanBuilder(t *Template, data []Row, cfg VariationConfig) *PlanBuilder {
	return &PlanBuilder{template: t, data: data, cfg: cfg}
}

// Explain validates the template and builds the estimate tree.
func (pb *PlanBuilder) Explain() (*PlanNode, error) {
	if err := Validate(pb.template); err != nil {
		return nil, err
	}

	rows := pb.data
	if pb.cfg.MaxRows > 0 && pb.cfg.MaxRows < len(rows) {
		rows = rows[:pb.cfg.MaxRows]
	}

	t := pb.template
	perField := maxInt(pb.cfg.VariationsPerField, 1)

	instrCount := capCount(1+len(t.InstructionVariations), perField)
	promptCount := capCount(1+len(t.PromptFormatVariations), perField)

	instrNode := &PlanNode{Type: NodeInstruction, Label: "instruction", EstimatedCount: instrCount}
	promptNode := &PlanNode{Type: NodePromptFormat, Label: "prompt_format", EstimatedCount: promptCount}

	combos := instrCount * promptCount
	fieldChildren := make([]*PlanNode, 0, len(t.fieldOrder))
	for _, name := range t.fieldOrder {
		n := estimateFieldVariantCount(t, name, perField)
		combos *= n
		fieldChildren = append(fieldChildren, &PlanNode{
			Type:           NodeFieldExpand,
			Label:          name,
			EstimatedCount: n,
			Metadata:       map[string]interface{}{"augmenters": t.FieldAugmenters[name]},
		})
	}

	combinatorNode := &PlanNode{
		Type:           NodeCombinator,
		Label:          "combinations per row",
		EstimatedCount: combos,
		Children:       fieldChildren,
	}

	total := combos * len(rows)
	capped := false
	if pb.cfg.MaxVariations >= 0 && total > pb.cfg.MaxVariations {
		total = pb.cfg.MaxVariations
		capped = true
	}

	root := &PlanNode{
		Type:           NodeDataset,
		Label:          "dataset",
		EstimatedCount: total,
		Children:       []*PlanNode{instrNode, promptNode, combinatorNode},
		Metadata: map[string]interface{}{
			"rows":             len(rows),
			"truncatedByBudget": capped,
		},
	}

	if t.FewShot != nil {
		if warning := pb.fewShotWarning(rows); warning != "" {
			root.Metadata["fewShotWarning"] = warning
		}
	}

	return root, nil
}

// fewShotWarning reports a pool that can't satisfy the configured count
// once a row excludes itself, the same shortfall Generate would surface at
// runtime as InsufficientFewShotData.
func (pb *PlanBuilder) fewShotWarning(rows []Row) string {
	cfg := pb.template.FewShot
	poolSize := 0
	for _, row := range rows {
		if fewShotRowInSplit(row, cfg.Split) {
			poolSize++
		}
	}
	if poolSize-1 < cfg.Count {
		return fmt.Sprintf("split %q has %d eligible rows; few_shot.count=%d needs %d including the current row", cfg.Split, poolSize, cfg.Count, cfg.Count+1)
	}
	return ""
}

// estimateFieldVariantCount bounds expandField's output length without
// running any augmenter: 1 (the original) plus each listed augmenter's
// expected yield, capped at VariationsPerField the same way expandField
// truncates its result. Duplicates that expandField's dedup pass removes
// are not predicted, so the real count can be lower.
func estimateFieldVariantCount(t *Template, field string, perField int) int {
	n := 1
	for _, aug := range t.FieldAugmenters[field] {
		canonical, ok := resolveAugmenter(aug)
		if !ok {
			continue
		}
		switch canonical {
		case augEnumerate:
			n += minInt(4, perField) // at most one variant per marker style
		default:
			n += perField
		}
	}
	return capCount(n, perField)
}

func capCount(n, max int) int {
	if max > 0 && n > max {
		return max
	}
	return n
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// ExplainPretty runs Explain and renders the result in the given format.
func (pb *PlanBuilder) ExplainPretty(format FormatType) (string, error) {
	plan, err := pb.Explain()
	if err != nil {
		return "", err
	}
	return pb.FormatPlan(plan, format)
}

// FormatPlan renders an already-built plan tree.
func (pb *PlanBuilder) FormatPlan(plan *PlanNode, format FormatType) (string, error) {
	switch format {
	case FormatText:
		return pb.formatAsText(plan), nil
	case FormatJSON:
		return pb.formatAsJSON(plan)
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

