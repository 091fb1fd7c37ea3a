package graph

import "strings"

// DefaultLabel is applied to imported nodes that declare no labels.
const DefaultLabel = "Node"

// QuoteIdentifier formats a label or relationship type for the identifier
// position of a Cypher query. Cypher has no parameter binding for schema
// identifiers, so every label and type that reaches query text goes through
// here: the value is wrapped in backticks and embedded backticks are doubled.
func QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// LabelExpression renders a label set as ":`A`:`B`". Blank and duplicate
// labels are dropped; an empty set yields DefaultLabel.
func LabelExpression(labels []string) string {
	seen := make(map[string]bool, len(labels))
	var sb strings.Builder
	for _, label := range labels {
		label = strings.TrimSpace(label)
		if label == "" || seen[label] {
			continue
		}
		seen[label] = true
		sb.WriteString(":")
		sb.WriteString(QuoteIdentifier(label))
	}
	if sb.Len() == 0 {
		return ":" + QuoteIdentifier(DefaultLabel)
	}
	return sb.String()
}
