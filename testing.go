package intake

import (
	"context"
	"sync"
	"time"
)

// StubCompleter is a Completer for tests. It replays scripted replies keyed
// by the system instruction it receives. Pair it with TagPrompts so the
// instruction is just the section tag.
type StubCompleter struct {
	Replies map[string]string        // unscripted instructions get ""
	Errors  map[string]error         // returned instead of a reply
	Delays  map[string]time.Duration // applied before answering

	mu    sync.Mutex
	calls []string
}

func (s *StubCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	s.mu.Lock()
	s.calls = append(s.calls, system)
	s.mu.Unlock()

	if d := s.Delays[system]; d > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(d):
		}
	}
	if err := s.Errors[system]; err != nil {
		return "", err
	}
	return s.Replies[system], nil
}

// Calls returns the instructions received so far, in arrival order.
func (s *StubCompleter) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

// TagPrompts is a provider whose instruction for every built-in tag is the
// tag itself.
func TagPrompts() SimplePromptProvider {
	p := SimplePromptProvider{guidelineTag: guidelineTag}
	for _, k := range Sections() {
		p[string(k)] = string(k)
	}
	return p
}

// NewForTesting creates an Extractor over c with TagPrompts.
func NewForTesting(c Completer) *Extractor {
	x, err := New(c, TagPrompts())
	if err != nil {
		panic(err)
	}
	return x
}
