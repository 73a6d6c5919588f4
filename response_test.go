package intake

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"fence with crlf", "```json\r\n{\"a\":1}\r\n```", `{"a":1}`},
		{"surrounding whitespace", "  \n```JSON\n{\"a\":1}```  \n", `{"a":1}`},
		{"only opening fence", "```json\n{\"a\":1}", `{"a":1}`},
		{"blank", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripFences(tt.input))
		})
	}
}

func TestParseResponse(t *testing.T) {
	t.Run("fenced object", func(t *testing.T) {
		obj, err := ParseResponse("```json\n{\"gender\": \"male\", \"name\": {\"first_name\": \"John\"}}\n```")
		require.NoError(t, err)
		assert.Equal(t, []string{"gender", "name"}, obj.Keys())
	})

	t.Run("blank is nothing found", func(t *testing.T) {
		obj, err := ParseResponse("  \n")
		require.NoError(t, err)
		assert.Equal(t, 0, obj.Len())
	})

	t.Run("null is nothing found", func(t *testing.T) {
		obj, err := ParseResponse("null")
		require.NoError(t, err)
		assert.Equal(t, 0, obj.Len())
	})

	t.Run("empty fence is nothing found", func(t *testing.T) {
		obj, err := ParseResponse("```json\n```")
		require.NoError(t, err)
		assert.Equal(t, 0, obj.Len())
	})

	t.Run("prose with broken json", func(t *testing.T) {
		raw := "Sure! Here's the info:\n{invalid json"
		_, err := ParseResponse(raw)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrMalformedResponse))

		var mre *MalformedResponseError
		require.True(t, errors.As(err, &mre))
		assert.Equal(t, raw, mre.Raw)
	})

	t.Run("array is malformed", func(t *testing.T) {
		_, err := ParseResponse(`[{"a":1}]`)
		assert.ErrorIs(t, err, ErrMalformedResponse)
	})

	t.Run("scalar is malformed", func(t *testing.T) {
		_, err := ParseResponse(`"John"`)
		assert.ErrorIs(t, err, ErrMalformedResponse)
	})
}

func TestParseSectionResponse_RecordsSection(t *testing.T) {
	_, err := parseSectionResponse(SectionContactInfo, "not json", quietLogger())

	var mre *MalformedResponseError
	require.True(t, errors.As(err, &mre))
	assert.Equal(t, SectionContactInfo, mre.Section)
	assert.Contains(t, err.Error(), "contact_info")
	assert.False(t, errors.Is(err, ErrProvider))
	assert.False(t, errors.Is(err, ErrSchemaViolation))
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "short", preview("short", previewLen))
	assert.Equal(t, "abc", preview("abcdef", 3))

	// "é" is two bytes; cutting at 2 would split it.
	got := preview("aé", 2)
	assert.Equal(t, "a", got)
	assert.True(t, utf8.ValidString(got))

	long := strings.Repeat("Nguyễn ", 40)
	got = preview(long, previewLen)
	assert.LessOrEqual(t, len(got), previewLen)
	assert.True(t, utf8.ValidString(got))
}

func TestParseSectionResponse_UsesGivenLogger(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := parseSectionResponse(SectionBasicInfo, `{"name":{"full_name":"Trần Thị Mai"}}`, log)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Parsing model response")
	assert.Contains(t, buf.String(), "key_count=1")
}
