package main

import (
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/vivaneiona/genkit-intake/record"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
	formatFHIR = "fhir"
)

// writePatient prints p as JSON, YAML or a FHIR Patient resource.
func writePatient(w io.Writer, p *record.Patient, format string) error {
	if format == formatFHIR {
		return writeValue(w, record.ToFHIR(p), formatJSON)
	}
	return writeValue(w, p, format)
}

// writeValue prints v as indented JSON or YAML.
func writeValue(w io.Writer, v any, format string) error {
	switch format {
	case formatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format %q: use json, yaml or fhir", format)
	}
}
