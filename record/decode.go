package record

import (
	"encoding/json"
	"fmt"
)

// DecodePatient unmarshals JSON into a Patient and validates it. Unknown
// fields are ignored.
func DecodePatient(data []byte) (*Patient, error) {
	var p Patient
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode patient: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// DecodeGuideline unmarshals JSON into a Guideline and validates it.
func DecodeGuideline(data []byte) (*Guideline, error) {
	var g Guideline
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("decode guideline: %w", err)
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return &g, nil
}
