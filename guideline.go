package intake

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vivaneiona/genkit-intake/record"
)

const guidelineTag = "guideline"

// GuidelineExtractor pulls clinical guideline metadata from text in a single
// model call.
type GuidelineExtractor struct {
	instruction string
	completer   Completer
	log         *slog.Logger
}

// NewGuidelineExtractor renders the guideline instruction from p. A nil p
// selects DefaultPrompts.
func NewGuidelineExtractor(c Completer, p PromptProvider, log *slog.Logger) (*GuidelineExtractor, error) {
	if c == nil {
		return nil, fmt.Errorf("completer is required")
	}
	if log == nil {
		log = slog.Default()
	}
	if p == nil {
		defaults, err := DefaultPrompts()
		if err != nil {
			return nil, fmt.Errorf("default prompts: %w", err)
		}
		p = defaults
	}
	instruction, err := p.GetPrompt(guidelineTag, 1)
	if err != nil {
		return nil, fmt.Errorf("guideline prompt: %w", err)
	}
	return &GuidelineExtractor{instruction: instruction, completer: c, log: log}, nil
}

// Extract returns the guideline described by text, or (nil, nil) when the
// model found none.
func (g *GuidelineExtractor) Extract(ctx context.Context, text string) (*record.Guideline, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("extract guideline: %w", ErrEmptyDocument)
	}

	raw, err := g.completer.Complete(ctx, g.instruction, text)
	if err != nil {
		return nil, &ProviderError{Err: err}
	}
	g.log.Debug("Raw guideline response", "content", raw)

	obj, err := parseResponse(raw, g.log)
	if err != nil {
		return nil, err
	}
	clean := SanitizeObject(obj)
	if clean.Len() == 0 {
		g.log.Info("No guideline found")
		return nil, nil
	}
	foldEnum(clean, "category")

	payload, err := clean.MarshalJSON()
	if err != nil {
		return nil, &SchemaViolationError{Err: err}
	}
	gl, err := record.DecodeGuideline(payload)
	if err != nil {
		return nil, &SchemaViolationError{Payload: payload, Err: err}
	}
	g.log.Info("Guideline extracted", "id", gl.ID, "lab_tests", len(gl.LabTests))
	return gl, nil
}
