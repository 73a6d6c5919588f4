// Package intake extracts structured patient records from free-form intake
// text using a language model. Each request runs three focused extraction
// passes concurrently, reconciles their JSON fragments deterministically and
// returns one validated record.
//
// # Problem Statement
//
// A single "extract everything" prompt tends to mix up the patient with the
// people around them: a daughter's phone number ends up on the patient, a
// relative's name replaces the patient's. Splitting the work into narrow
// sections keeps each instruction small and keeps contacts out of the
// patient's own demographics.
//
// # Pipeline
//
//   - basic_info, contact_info and relationships each get their own
//     instruction and model call, scheduled on a Runner
//   - replies are stripped of code fences and parsed into ordered Values
//   - fragments are deep merged in that fixed order: first writer wins for
//     scalars, arrays are unioned without duplicates
//   - the aggregate is sanitized (blank strings become null, empty items and
//     keys are dropped)
//   - the assembler prunes malformed list entries, fills placeholders and
//     validates against the record schema
//
// # Basic Usage
//
//	client, _ := genai.NewClient(ctx, &genai.ClientConfig{APIKey: key})
//	completer, _ := intake.NewGeminiCompleter(client, nil)
//	x, _ := intake.New(completer, nil)
//
//	patient, err := x.ExtractRecord(ctx, "John Doe, male, born 1980-05-12, phone 555-1234")
//	if err != nil {
//	    return err
//	}
//	if patient == nil {
//	    // the text mentions no subject
//	}
//
// # Errors
//
// A request either returns a complete record, returns (nil, nil) when the
// text describes nobody, or fails. Failures match one of ErrProvider,
// ErrMalformedResponse or ErrSchemaViolation with errors.Is, and the typed
// errors (*ProviderError, *MalformedResponseError, *SchemaViolationError)
// carry the section and raw model output.
//
// # Templates
//
// Instructions are Stick templates embedded under prompts/. DefaultPrompts
// binds the record enumerations as template variables; pass WithTemplates or
// WithFS to override them.
//
// # Cost Estimation
//
// Explain and Plan describe the calls a request would make, with rough
// token counts, without contacting the model.
package intake
