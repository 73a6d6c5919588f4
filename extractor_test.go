package intake

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vivaneiona/genkit-intake/record"
)

const johnDoeText = "John Doe, male, born 1980-05-12. Phone 555-1234 (mobile). " +
	"Lives at 1 Main St, Springfield. Emergency contact: his daughter Jane Doe, 555-9876."

func johnDoeStub() *StubCompleter {
	return &StubCompleter{Replies: map[string]string{
		"basic_info": "```json\n" + `{"name":{"first_name":"John","last_name":"Doe","full_name":"John Doe"},` +
			`"gender":"male","birth_date":"1980-05-12","marital_status":"unknown"}` + "\n```",
		"contact_info": `{"phones":[{"value":"5551234","use_for":"mobile"}],` +
			`"addresses":[{"line":["1 Main St"],"city":"Springfield"}],"emails":[]}`,
		"relationships": `{"contacts":[{"name":{"first_name":"Jane","last_name":"Doe"},` +
			`"relationship":["daughter"],"phones":[{"value":"5559876","use_for":"other"}],"gender":"female"}]}`,
	}}
}

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestNew(t *testing.T) {
	t.Run("nil completer", func(t *testing.T) {
		_, err := New(nil, nil)
		assert.Error(t, err)
	})

	t.Run("default prompts", func(t *testing.T) {
		x, err := NewWithLogger(&StubCompleter{}, nil, quietLogger())
		require.NoError(t, err)
		require.Len(t, x.sections, 3)
		for i, kind := range Sections() {
			assert.Equal(t, kind, x.sections[i].Kind())
			assert.Contains(t, x.sections[i].Instruction(), "JSON")
		}
	})

	t.Run("missing template", func(t *testing.T) {
		_, err := New(&StubCompleter{}, SimplePromptProvider{"basic_info": "x"})
		assert.Error(t, err)
	})
}

func TestExtractRecord_JohnDoe(t *testing.T) {
	stub := johnDoeStub()
	x := NewForTesting(stub)

	p, err := x.ExtractRecord(context.Background(), johnDoeText, WithIDGenerator(fixedID))
	require.NoError(t, err)
	require.NotNil(t, p)

	assert.Equal(t, "patient-1", p.ID)
	assert.Equal(t, "John", *p.Name.FirstName)
	assert.Equal(t, "Doe", *p.Name.LastName)
	assert.Equal(t, record.GenderMale, *p.Gender)
	assert.Equal(t, "1980-05-12", p.BirthDate.String())
	assert.Equal(t, record.MaritalUnknown, *p.MaritalStatus)

	require.Len(t, p.Phones, 1)
	assert.Equal(t, "5551234", p.Phones[0].Value)
	require.Len(t, p.Addresses, 1)
	assert.Equal(t, []string{"1 Main St"}, p.Addresses[0].Line)
	assert.Empty(t, p.Emails)

	require.Len(t, p.Contacts, 1)
	assert.Equal(t, "Jane", *p.Contacts[0].Name.FirstName)
	assert.Equal(t, []string{"daughter"}, p.Contacts[0].Relationship)
	require.Len(t, p.Contacts[0].Phones, 1)
	assert.Equal(t, "5559876", p.Contacts[0].Phones[0].Value)

	assert.ElementsMatch(t, []string{"basic_info", "contact_info", "relationships"}, stub.Calls())
}

func TestExtractRecord_FamilyPhoneStaysWithContact(t *testing.T) {
	stub := &StubCompleter{Replies: map[string]string{
		"basic_info":   `{"name":{"full_name":"Tran Thi B"},"gender":"female"}`,
		"contact_info": `{}`,
		"relationships": `{"contacts":[{"name":{"full_name":"Tran Van C"},"relationship":["son"],` +
			`"phones":[{"value":"0901234567","use_for":"mobile"}]}]}`,
	}}
	x := NewForTesting(stub)

	p, err := x.ExtractRecord(context.Background(), "Tran Thi B. Her son Tran Van C can be reached at 0901234567.")
	require.NoError(t, err)
	require.NotNil(t, p)

	assert.Empty(t, p.Phones, "patient must not inherit contact phones")
	require.Len(t, p.Contacts, 1)
	assert.Equal(t, "0901234567", p.Contacts[0].Phones[0].Value)
}

func TestExtractRecord_Absence(t *testing.T) {
	stub := &StubCompleter{Replies: map[string]string{
		"basic_info":    `{"gender":"unknown","marital_status":"unknown","name":{}}`,
		"contact_info":  "",
		"relationships": "```json\n{\"contacts\": []}\n```",
	}}
	reg := newTestMetrics(t)
	x := NewForTesting(stub)

	p, err := x.ExtractRecord(context.Background(), "Ingredients: water, sugar, citric acid. Store below 25°C.", WithMetrics(reg))
	require.NoError(t, err)
	assert.Nil(t, p)
	assert.Equal(t, 1.0, recordsCount(reg, OutcomeAbsent))
}

func TestExtractRecord_EmptyText(t *testing.T) {
	stub := &StubCompleter{}
	x := NewForTesting(stub)

	for _, text := range []string{"", "   \n\t"} {
		_, err := x.ExtractRecord(context.Background(), text)
		assert.ErrorIs(t, err, ErrEmptyDocument)
	}
	assert.Empty(t, stub.Calls())
}

func TestExtractRecord_MalformedResponse(t *testing.T) {
	stub := johnDoeStub()
	stub.Replies["contact_info"] = "Sure! Here's the info:\n{invalid json"
	x := NewForTesting(stub)

	p, err := x.ExtractRecord(context.Background(), johnDoeText)
	assert.Nil(t, p)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedResponse))
	assert.False(t, errors.Is(err, ErrProvider))

	var mre *MalformedResponseError
	require.True(t, errors.As(err, &mre))
	assert.Equal(t, SectionContactInfo, mre.Section)
	assert.Equal(t, "Sure! Here's the info:\n{invalid json", mre.Raw)
}

func TestExtractRecord_ProviderError(t *testing.T) {
	stub := johnDoeStub()
	stub.Errors = map[string]error{"relationships": errors.New("quota exceeded")}
	reg := newTestMetrics(t)
	x := NewForTesting(stub)

	p, err := x.ExtractRecord(context.Background(), johnDoeText, WithMetrics(reg))
	assert.Nil(t, p)
	require.ErrorIs(t, err, ErrProvider)
	assert.Contains(t, err.Error(), "quota exceeded")

	var pe *ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, SectionRelationships, pe.Section)
	assert.Equal(t, 1.0, recordsCount(reg, OutcomeProvider))
}

func TestExtractRecord_SchemaViolation(t *testing.T) {
	stub := johnDoeStub()
	stub.Replies["basic_info"] = `{"name":{"full_name":"John Doe"},"gender":"robot"}`
	x := NewForTesting(stub)

	_, err := x.ExtractRecord(context.Background(), johnDoeText)
	assert.ErrorIs(t, err, ErrSchemaViolation)
}

func TestExtractRecord_CompletionOrderDoesNotMatter(t *testing.T) {
	replies := map[string]string{
		"basic_info":    `{"gender":"male","name":{"first_name":"John"}}`,
		"contact_info":  `{"gender":"female","phones":[{"value":"1"}]}`,
		"relationships": `{"gender":"other","phones":[{"value":"2"}],"contacts":[{"name":{"full_name":"Jane"}}]}`,
	}
	delays := []map[string]time.Duration{
		{"basic_info": 30 * time.Millisecond},
		{"contact_info": 30 * time.Millisecond},
		{"relationships": 0, "basic_info": 20 * time.Millisecond, "contact_info": 10 * time.Millisecond},
	}

	var results []*record.Patient
	for _, d := range delays {
		x := NewForTesting(&StubCompleter{Replies: replies, Delays: d})
		p, err := x.ExtractRecord(context.Background(), "text", WithIDGenerator(fixedID))
		require.NoError(t, err)
		results = append(results, p)
	}

	for _, p := range results {
		assert.Equal(t, results[0], p)
		assert.Equal(t, record.GenderMale, *p.Gender)
		require.Len(t, p.Phones, 2)
		assert.Equal(t, "1", p.Phones[0].Value)
		assert.Equal(t, "2", p.Phones[1].Value)
	}
}

// peakCompleter holds every call until want calls are in flight together, or
// gives up after a second, and records the highest overlap seen.
type peakCompleter struct {
	want int

	mu       sync.Mutex
	inFlight int
	peak     int
	all      chan struct{}
}

func (c *peakCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	c.mu.Lock()
	c.inFlight++
	c.peak = max(c.peak, c.inFlight)
	if c.inFlight == c.want {
		close(c.all)
	}
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.inFlight--
		c.mu.Unlock()
	}()

	select {
	case <-c.all:
	case <-time.After(time.Second):
	case <-ctx.Done():
		return "", ctx.Err()
	}
	return "{}", nil
}

func TestExtractRecord_DefaultRunnerRunsAllSectionsAtOnce(t *testing.T) {
	c := &peakCompleter{want: len(Sections()), all: make(chan struct{})}
	x, err := NewWithLogger(c, TagPrompts(), quietLogger())
	require.NoError(t, err)

	got, err := x.ExtractRecord(context.Background(), johnDoeText)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, 3, c.peak, "max concurrent section calls")
}

func TestExtractRecord_SequentialRunner(t *testing.T) {
	stub := johnDoeStub()
	x := NewForTesting(stub)

	p, err := x.ExtractRecord(context.Background(), johnDoeText, WithRunner(NewSequentialRunner()))
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, []string{"basic_info", "contact_info", "relationships"}, stub.Calls())
}

func TestExtractRecord_Timeout(t *testing.T) {
	stub := johnDoeStub()
	stub.Delays = map[string]time.Duration{"contact_info": time.Second}
	x := NewForTesting(stub)

	start := time.Now()
	_, err := x.ExtractRecord(context.Background(), johnDoeText, WithTimeout(20*time.Millisecond))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.ErrorIs(t, err, ErrProvider)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestExtractRecord_FailureCancelsSiblings(t *testing.T) {
	stub := johnDoeStub()
	stub.Errors = map[string]error{"basic_info": errors.New("unavailable")}
	stub.Delays = map[string]time.Duration{"contact_info": time.Second, "relationships": time.Second}
	x := NewForTesting(stub)

	start := time.Now()
	_, err := x.ExtractRecord(context.Background(), johnDoeText)
	require.ErrorIs(t, err, ErrProvider)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestExtractSection(t *testing.T) {
	stub := johnDoeStub()
	x := NewForTesting(stub)

	t.Run("known section", func(t *testing.T) {
		frag, err := x.ExtractSection(context.Background(), SectionContactInfo, johnDoeText)
		require.NoError(t, err)
		assert.Equal(t, []string{"phones", "addresses", "emails"}, frag.Keys())
	})

	t.Run("unknown section", func(t *testing.T) {
		_, err := x.ExtractSection(context.Background(), SectionKind("billing"), johnDoeText)
		assert.ErrorIs(t, err, ErrUnknownSection)
	})

	t.Run("empty text", func(t *testing.T) {
		_, err := x.ExtractSection(context.Background(), SectionBasicInfo, " ")
		assert.ErrorIs(t, err, ErrEmptyDocument)
	})
}

func TestExtractFragments(t *testing.T) {
	x := NewForTesting(johnDoeStub())

	frags, err := x.ExtractFragments(context.Background(), johnDoeText)
	require.NoError(t, err)
	require.Len(t, frags, 3)
	assert.True(t, frags[0].Has("gender"))
	assert.True(t, frags[1].Has("phones"))
	assert.True(t, frags[2].Has("contacts"))
}
