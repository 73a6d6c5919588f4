package intake

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/vivaneiona/genkit-intake/record"
)

// Extractor runs the three section passes over a text and reconciles them
// into one validated patient record. It is safe for concurrent use.
type Extractor struct {
	sections []*SectionExtractor // merge order
	log      *slog.Logger
}

// New returns an Extractor that logs with slog.Default(). A nil prompt
// provider selects DefaultPrompts.
func New(c Completer, p PromptProvider) (*Extractor, error) {
	return NewWithLogger(c, p, slog.Default())
}

// NewWithLogger lets the caller supply their own logger.
func NewWithLogger(c Completer, p PromptProvider, log *slog.Logger) (*Extractor, error) {
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

	x := &Extractor{log: log}
	for _, kind := range Sections() {
		s, err := NewSectionExtractor(kind, c, p, log)
		if err != nil {
			return nil, err
		}
		x.sections = append(x.sections, s)
	}
	return x, nil
}

// Section returns the extractor for kind.
func (x *Extractor) Section(kind SectionKind) (*SectionExtractor, error) {
	for _, s := range x.sections {
		if s.kind == kind {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSection, kind)
}

// ExtractSection runs a single section pass and returns its raw fragment.
func (x *Extractor) ExtractSection(ctx context.Context, kind SectionKind, text string, optFns ...func(*Options)) (*Object, error) {
	s, err := x.Section(kind)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("extract section: %w", ErrEmptyDocument)
	}
	opts := buildOptions(optFns)
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}
	start := time.Now()
	frag, err := s.Extract(ctx, text)
	opts.Metrics.observeSection(kind, time.Since(start), err)
	return frag, err
}

// ExtractFragments runs every section concurrently and returns the fragments
// in merge order. Any failing section fails the whole call.
func (x *Extractor) ExtractFragments(ctx context.Context, text string, optFns ...func(*Options)) ([]*Object, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("extract: %w", ErrEmptyDocument)
	}
	opts := buildOptions(optFns)
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
		x.log.Debug("Set timeout", "timeout", opts.Timeout)
	}
	return x.fanOut(ctx, text, opts)
}

// ExtractRecord extracts one patient record from text. It returns (nil, nil)
// when the text holds no information about a subject. Errors match
// ErrProvider, ErrMalformedResponse or ErrSchemaViolation; no partial record
// is ever returned.
func (x *Extractor) ExtractRecord(ctx context.Context, text string, optFns ...func(*Options)) (*record.Patient, error) {
	x.log.Debug("=== EXTRACTION STARTED ===", "text_length", len(text))
	opts := buildOptions(optFns)

	p, err := x.extractRecord(ctx, text, opts)
	opts.Metrics.observeRecord(p != nil, err)
	if err != nil {
		x.log.Debug("Extraction failed", "error", err)
		return nil, err
	}
	if p == nil {
		x.log.Info("No subject information found")
		return nil, nil
	}
	x.log.Info("Extraction completed successfully", "id", p.ID, "contacts", len(p.Contacts))
	return p, nil
}

func (x *Extractor) extractRecord(ctx context.Context, text string, opts Options) (*record.Patient, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("extract: %w", ErrEmptyDocument)
	}
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	fragments, err := x.fanOut(ctx, text, opts)
	if err != nil {
		return nil, err
	}

	agg := Reconcile(fragments...)
	x.log.Debug("Fragments merged", "aggregate", agg.String())
	clean := SanitizeObject(agg)
	x.log.Debug("Aggregate sanitized", "keys", clean.Keys())

	return Assemble(clean, opts.IDGenerator)
}

// fanOut schedules one task per section and joins them. Each task owns one
// slot of the result, so completion order never leaks into merge order.
func (x *Extractor) fanOut(ctx context.Context, text string, opts Options) ([]*Object, error) {
	r := opts.Runner
	if r == nil {
		// Section calls wait on the network, so all of them run at once
		// whatever the CPU count.
		r = NewLimitedRunner(ctx, len(x.sections))
		x.log.Debug("Using default runner", "max_concurrency", len(x.sections))
	}
	taskCtx := ctx
	if cr, ok := r.(ContextRunner); ok {
		taskCtx = cr.Context()
	}

	fragments := make([]*Object, len(x.sections))
	x.log.Debug("Starting concurrent section calls", "section_count", len(x.sections))
	for i, s := range x.sections {
		r.Go(func() error {
			start := time.Now()
			frag, err := s.Extract(taskCtx, text)
			opts.Metrics.observeSection(s.kind, time.Since(start), err)
			if err != nil {
				return fmt.Errorf("%s: %w", s.kind, err)
			}
			fragments[i] = frag
			return nil
		})
	}
	if err := r.Wait(); err != nil {
		x.log.Debug("Section calls failed", "error", err)
		return nil, err
	}
	x.log.Debug("All section calls completed", "fragment_count", len(fragments))
	return fragments, nil
}
