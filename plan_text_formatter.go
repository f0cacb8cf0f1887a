package variant

import (
	"fmt"
	"strings"
)

// formatAsText formats the plan as an ASCII tree.
func (pb *PlanBuilder) formatAsText(plan *PlanNode) string {
	var sb strings.Builder
	sb.WriteString("Variation Generation Plan (estimated counts)\n")
	pb.formatNodeAsText(plan, "", true, &sb)
	return sb.String()
}

// formatNodeAsText recursively formats a node and its children as text.
func (pb *PlanBuilder) formatNodeAsText(node *PlanNode, prefix string, isLast bool, sb *strings.Builder) {
	connector := "├─ "
	if isLast {
		connector = "└─ "
	}
	if prefix == "" {
		connector = ""
	}

	sb.WriteString(fmt.Sprintf("%s%s%s\n", prefix, connector, pb.formatNodeInfo(node)))

	childPrefix := prefix
	if prefix == "" {
		childPrefix = "  "
	} else if isLast {
		childPrefix += "   "
	} else {
		childPrefix += "│  "
	}

	for i, child := range node.Children {
		pb.formatNodeAsText(child, childPrefix, i == len(node.Children)-1, sb)
	}
}

// formatNodeInfo formats information for a single node.
func (pb *PlanBuilder) formatNodeInfo(node *PlanNode) string {
	parts := []string{string(node.Type)}
	if node.Label != "" {
		parts = append(parts, fmt.Sprintf(`"%s"`, node.Label))
	}

	details := []string{fmt.Sprintf("count=%d", node.EstimatedCount)}
	for k, v := range node.Metadata {
		details = append(details, fmt.Sprintf("%s=%v", k, v))
	}
	parts = append(parts, fmt.Sprintf("(%s)", strings.Join(details, ", ")))

	return strings.Join(parts, " ")
}
