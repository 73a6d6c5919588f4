package intake

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"
)

const fence = "```"

// openingFence matches a leading code fence with an optional format tag such
// as ```json.
var openingFence = regexp.MustCompile("^```[A-Za-z0-9_+.-]*[ \t]*\r?\n?")

// stripFences removes at most one leading and one trailing code fence.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if loc := openingFence.FindStringIndex(s); loc != nil {
		s = s[loc[1]:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), fence)
	return strings.TrimSpace(s)
}

// previewLen caps how much raw model output goes into debug logs.
const previewLen = 100

// preview returns at most n bytes of s, cut on a rune boundary.
func preview(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// ParseResponse turns raw model output into a fragment. Blank output (or a
// JSON null) is a valid "nothing found" answer and yields an empty object.
// Anything that is not a JSON object after fence stripping is a
// *MalformedResponseError carrying the raw text.
func ParseResponse(raw string) (*Object, error) {
	return parseResponse(raw, slog.Default())
}

func parseResponse(raw string, log *slog.Logger) (*Object, error) {
	log.Debug("Parsing model response", "raw_length", len(raw), "raw_preview", preview(raw, previewLen))

	s := stripFences(raw)
	if s == "" {
		log.Debug("Empty model response")
		return &Object{}, nil
	}

	v, err := DecodeValue([]byte(s))
	if err != nil {
		return nil, &MalformedResponseError{Raw: raw, Err: err}
	}
	switch v.Kind() {
	case KindNull:
		return &Object{}, nil
	case KindObject:
		log.Debug("Parsed model response", "key_count", v.Object().Len())
		return v.Object(), nil
	}
	return nil, &MalformedResponseError{Raw: raw, Err: fmt.Errorf("expected a JSON object, got %s", v.Kind())}
}

// parseSectionResponse is ParseResponse with the section recorded on errors.
func parseSectionResponse(kind SectionKind, raw string, log *slog.Logger) (*Object, error) {
	obj, err := parseResponse(raw, log)
	var mre *MalformedResponseError
	if errors.As(err, &mre) {
		mre.Section = kind
	}
	return obj, err
}
