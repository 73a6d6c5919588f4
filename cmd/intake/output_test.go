package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	intake "github.com/vivaneiona/genkit-intake"
	"github.com/vivaneiona/genkit-intake/record"
)

func samplePatient() *record.Patient {
	return &record.Patient{
		ID:        "p-1",
		Name:      record.HumanName{FirstName: record.Ptr("John"), LastName: record.Ptr("Doe")},
		Gender:    record.Ptr(record.GenderMale),
		BirthDate: record.Ptr(record.MustParseDate("1980-05")),
		Phones:    []record.Phone{{Value: "5551234", UseFor: record.Ptr(record.PhoneMobile)}},
	}
}

func TestWritePatient(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writePatient(&buf, samplePatient(), formatJSON))

		p, err := record.DecodePatient(buf.Bytes())
		require.NoError(t, err)
		assert.Equal(t, samplePatient(), p)
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writePatient(&buf, samplePatient(), formatYAML))

		out := buf.String()
		assert.Contains(t, out, "id: p-1\n")
		assert.Contains(t, out, "first_name: John")
		assert.Contains(t, out, "birth_date: 1980-05")
		assert.Contains(t, out, `value: "5551234"`)
	})

	t.Run("fhir", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writePatient(&buf, samplePatient(), formatFHIR))

		var res map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &res))
		assert.Equal(t, "Patient", res["resourceType"])
		assert.Equal(t, "male", res["gender"])
	})

	t.Run("unknown format", func(t *testing.T) {
		err := writePatient(&bytes.Buffer{}, samplePatient(), "xml")
		assert.ErrorContains(t, err, "unsupported format")
	})
}

func TestWriteValue_Fragment(t *testing.T) {
	frag := intake.NewObject(
		intake.F("phones", intake.Array(intake.Obj(intake.F("value", intake.String("5551234"))))),
		intake.F("gender", intake.String("male")),
	)

	var buf bytes.Buffer
	require.NoError(t, writeValue(&buf, frag, formatYAML))
	assert.Equal(t, "phones:\n  - value: \"5551234\"\ngender: male\n", buf.String())

	buf.Reset()
	require.NoError(t, writeValue(&buf, frag, formatJSON))
	assert.JSONEq(t, `{"phones":[{"value":"5551234"}],"gender":"male"}`, buf.String())
	assert.True(t, strings.Index(buf.String(), "phones") < strings.Index(buf.String(), "gender"))
}

func TestInputPath(t *testing.T) {
	assert.Equal(t, "-", inputPath(nil))
	assert.Equal(t, "note.txt", inputPath([]string{"note.txt"}))
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	versionCmd.Run(versionCmd, nil)
	assert.Equal(t, "intake dev\n", buf.String())
}
