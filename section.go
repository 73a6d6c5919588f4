package intake

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// SectionKind names one extraction pass.
type SectionKind string

const (
	SectionBasicInfo     SectionKind = "basic_info"
	SectionContactInfo   SectionKind = "contact_info"
	SectionRelationships SectionKind = "relationships"
)

// Sections returns every section kind in merge order. Scalar conflicts are
// won by the earlier section.
func Sections() []SectionKind {
	return []SectionKind{SectionBasicInfo, SectionContactInfo, SectionRelationships}
}

// Valid reports whether k is one of Sections.
func (k SectionKind) Valid() bool {
	for _, s := range Sections() {
		if k == s {
			return true
		}
	}
	return false
}

// SectionExtractor pairs one rendered instruction with the model capability.
// It holds no mutable state and is safe for concurrent use.
type SectionExtractor struct {
	kind        SectionKind
	instruction string
	completer   Completer
	log         *slog.Logger
}

// NewSectionExtractor renders the instruction for kind from prompts.
func NewSectionExtractor(kind SectionKind, c Completer, prompts PromptProvider, log *slog.Logger) (*SectionExtractor, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSection, kind)
	}
	if log == nil {
		log = slog.Default()
	}
	instruction, err := prompts.GetPrompt(string(kind), 1)
	if err != nil {
		return nil, fmt.Errorf("section %s: %w", kind, err)
	}
	return &SectionExtractor{kind: kind, instruction: instruction, completer: c, log: log}, nil
}

func (s *SectionExtractor) Kind() SectionKind { return s.kind }
func (s *SectionExtractor) Instruction() string { return s.instruction }

// Extract asks the model for this section of text and parses the reply into a
// fragment. Provider failures come back as *ProviderError and unparsable
// replies as *MalformedResponseError.
func (s *SectionExtractor) Extract(ctx context.Context, text string) (*Object, error) {
	start := time.Now()
	s.log.Debug("Calling section", "section", s.kind, "instruction_length", len(s.instruction), "text_length", len(text))

	raw, err := s.completer.Complete(ctx, s.instruction, text)
	if err != nil {
		s.log.Debug("Section call failed", "section", s.kind, "error", err)
		return nil, &ProviderError{Section: s.kind, Err: err}
	}
	s.log.Debug("Raw section response", "section", s.kind, "content", raw, "duration", time.Since(start))

	frag, err := parseSectionResponse(s.kind, raw, s.log)
	if err != nil {
		s.log.Debug("Section response malformed", "section", s.kind, "error", err)
		return nil, err
	}
	s.log.Debug("Section extracted", "section", s.kind, "keys", frag.Keys())
	return frag, nil
}
