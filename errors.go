package intake

import (
	"errors"
	"fmt"
)

// ErrEmptyDocument is returned when the source text is empty or blank.
var ErrEmptyDocument = errors.New("document text is empty")
var ErrUnknownSection = errors.New("unknown section")

// Error kinds. Every failure of an extraction request matches exactly one of
// these with errors.Is.
var (
	ErrProvider          = errors.New("model provider failed")
	ErrMalformedResponse = errors.New("malformed model response")
	ErrSchemaViolation   = errors.New("record violates schema")
)

// ProviderError wraps a failure of the model-call capability.
type ProviderError struct {
	Section SectionKind
	Err     error
}

func (e *ProviderError) Error() string {
	if e.Section == "" {
		return fmt.Sprintf("provider: %v", e.Err)
	}
	return fmt.Sprintf("provider (%s): %v", e.Section, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

func (e *ProviderError) Is(target error) bool { return target == ErrProvider }

// MalformedResponseError reports model output that is not a JSON object after
// fence stripping. Raw holds the untouched model output.
type MalformedResponseError struct {
	Section SectionKind
	Raw     string
	Err     error
}

func (e *MalformedResponseError) Error() string {
	preview := e.Raw
	if len(preview) > 120 {
		preview = preview[:120] + "..."
	}
	if e.Section == "" {
		return fmt.Sprintf("malformed response: %v (raw %q)", e.Err, preview)
	}
	return fmt.Sprintf("malformed response (%s): %v (raw %q)", e.Section, e.Err, preview)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

func (e *MalformedResponseError) Is(target error) bool { return target == ErrMalformedResponse }

// SchemaViolationError reports an assembled aggregate the canonical schema
// rejects. Payload is the JSON that failed.
type SchemaViolationError struct {
	Payload []byte
	Err     error
}

func (e *SchemaViolationError) Error() string {
	return fmt.Sprintf("schema violation: %v", e.Err)
}

func (e *SchemaViolationError) Unwrap() error { return e.Err }

func (e *SchemaViolationError) Is(target error) bool { return target == ErrSchemaViolation }
