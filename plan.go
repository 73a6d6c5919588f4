package intake

import (
	"encoding/json"
	"fmt"
	"strings"
)

// PlanNodeType defines the type of operation a node represents.
type PlanNodeType string

const (
	ExtractRecordType  PlanNodeType = "ExtractRecord"
	SectionCallType    PlanNodeType = "SectionCall"
	MergeFragmentsType PlanNodeType = "MergeFragments"
	SanitizeType       PlanNodeType = "Sanitize"
	AssembleType       PlanNodeType = "Assemble"
)

// PlanNode represents one step of an extraction request.
// Children and Metadata should not be modified after plan generation.
type PlanNode struct {
	Type         PlanNodeType   `json:"type"`
	Section      SectionKind    `json:"section,omitempty"`
	Model        string         `json:"model,omitempty"`
	InputTokens  int            `json:"inputTokens,omitempty"`  // instruction + text
	OutputTokens int            `json:"outputTokens,omitempty"` // rough guess
	EstCost      float64        `json:"estCost"`                // abstract units, includes children
	ActCost      *float64       `json:"actCost,omitempty"`      // USD, when pricing is known
	Children     []*PlanNode    `json:"children,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// ModelPrice represents the pricing for a specific model.
type ModelPrice struct {
	PromptTokCost     float64 // Cost per 1000 input tokens
	CompletionTokCost float64 // Cost per 1000 output tokens
}

// FormatType represents different output formats for the execution plan.
type FormatType string

const (
	FormatText FormatType = "text"
	FormatJSON FormatType = "json"
)

// expected output size per section, in tokens
var sectionOutputTokens = map[SectionKind]int{
	SectionBasicInfo:     120,
	SectionContactInfo:   150,
	SectionRelationships: 200,
}

// Plan describes the calls ExtractRecord would make for text without calling
// the model. model labels the section calls; pricing may be nil.
func (x *Extractor) Plan(text, model string, pricing map[string]ModelPrice) *PlanNode {
	root := &PlanNode{
		Type:     ExtractRecordType,
		Model:    model,
		Metadata: map[string]any{"textTokens": EstimateTokensFromText(text)},
	}
	for _, s := range x.sections {
		root.Children = append(root.Children, &PlanNode{
			Type:         SectionCallType,
			Section:      s.kind,
			Model:        model,
			InputTokens:  EstimateTokensFromText(s.instruction) + EstimateTokensFromText(text),
			OutputTokens: sectionOutputTokens[s.kind],
		})
	}
	root.Children = append(root.Children,
		&PlanNode{Type: MergeFragmentsType, Metadata: map[string]any{"order": Sections()}},
		&PlanNode{Type: SanitizeType},
		&PlanNode{Type: AssembleType},
	)
	for _, c := range root.Children {
		root.InputTokens += c.InputTokens
		root.OutputTokens += c.OutputTokens
	}
	calculateCosts(root, pricing)
	return root
}

// Explain renders Plan in the given format.
func (x *Extractor) Explain(text, model string, format FormatType, pricing map[string]ModelPrice) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("explain: %w", ErrEmptyDocument)
	}
	return FormatPlan(x.Plan(text, model, pricing), format)
}

// calculateCosts fills EstCost bottom-up and ActCost where pricing is known.
func calculateCosts(node *PlanNode, pricing map[string]ModelPrice) {
	childrenCost := 0.0
	var childrenAct *float64
	for _, child := range node.Children {
		calculateCosts(child, pricing)
		childrenCost += child.EstCost
		if child.ActCost != nil {
			sum := *child.ActCost
			if childrenAct != nil {
				sum += *childrenAct
			}
			childrenAct = &sum
		}
	}
	node.EstCost = calculateNodeCost(node) + childrenCost

	if node.Type == SectionCallType {
		if price, ok := pricing[node.Model]; ok {
			act := float64(node.InputTokens)*price.PromptTokCost/1000.0 +
				float64(node.OutputTokens)*price.CompletionTokCost/1000.0
			node.ActCost = &act
		}
		return
	}
	node.ActCost = childrenAct
}

func calculateNodeCost(node *PlanNode) float64 {
	switch node.Type {
	case SectionCallType:
		return 3.0 + float64(node.InputTokens)*0.01
	case MergeFragmentsType:
		return 0.5
	case SanitizeType:
		return 0.2
	case AssembleType:
		return 1.5
	default:
		return 0
	}
}

// FormatPlan formats a plan according to the specified format.
func FormatPlan(plan *PlanNode, format FormatType) (string, error) {
	switch format {
	case FormatText, "":
		return formatAsText(plan), nil
	case FormatJSON:
		b, err := json.MarshalIndent(plan, "", "  ")
		if err != nil {
			return "", err
		}
		return string(b), nil
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// formatAsText formats the plan as an ASCII tree.
func formatAsText(plan *PlanNode) string {
	var sb strings.Builder
	sb.WriteString("Extraction Plan (estimated costs)\n")
	formatNodeAsText(plan, "", true, &sb)
	return sb.String()
}

func formatNodeAsText(node *PlanNode, prefix string, isLast bool, sb *strings.Builder) {
	connector := "├─ "
	if isLast {
		connector = "└─ "
	}
	if prefix == "" {
		connector = ""
	}
	fmt.Fprintf(sb, "%s%s%s\n", prefix, connector, formatNodeInfo(node))

	childPrefix := prefix
	switch {
	case prefix == "":
		childPrefix = "  "
	case isLast:
		childPrefix += "   "
	default:
		childPrefix += "│  "
	}
	for i, child := range node.Children {
		formatNodeAsText(child, childPrefix, i == len(node.Children)-1, sb)
	}
}

func formatNodeInfo(node *PlanNode) string {
	parts := []string{string(node.Type)}
	if node.Section != "" {
		parts = append(parts, fmt.Sprintf("%q", node.Section))
	}

	var details []string
	if node.Model != "" && node.Type == SectionCallType {
		details = append(details, "model="+node.Model)
	}
	details = append(details, fmt.Sprintf("cost=%.1f", node.EstCost))
	if node.InputTokens > 0 || node.OutputTokens > 0 {
		details = append(details, fmt.Sprintf("tokens(in=%d,out=%d)", node.InputTokens, node.OutputTokens))
	}
	if node.ActCost != nil {
		details = append(details, fmt.Sprintf("$%.6f", *node.ActCost))
	}
	parts = append(parts, fmt.Sprintf("(%s)", strings.Join(details, ", ")))
	return strings.Join(parts, " ")
}

// DefaultModelPricing returns input/output token costs (USD per 1K tokens)
// for the Gemini models the completer targets.
func DefaultModelPricing() map[string]ModelPrice {
	return map[string]ModelPrice{
		"gemini-2.5-pro":   {PromptTokCost: 0.00125, CompletionTokCost: 0.0100},
		"gemini-2.5-flash": {PromptTokCost: 0.00030, CompletionTokCost: 0.0025},
		"gemini-2.0-flash": {PromptTokCost: 0.00015, CompletionTokCost: 0.0006},
		"gemini-1.5-pro":   {PromptTokCost: 0.00125, CompletionTokCost: 0.0050},
		"gemini-1.5-flash": {PromptTokCost: 0.000075, CompletionTokCost: 0.00030},
	}
}

// EstimateTokensFromText provides a rough token estimate from text length.
func EstimateTokensFromText(text string) int {
	// ~4 characters per token for English text
	return (len(text) + 3) / 4
}
