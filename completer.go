package intake

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/genai"
)

// DefaultModel is used by GeminiCompleter when no model name is given.
const DefaultModel = "gemini-2.0-flash"

// Completer is the single model capability the engine consumes: one
// system instruction, one user text, one reply. Implementations own
// timeouts and retries.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// CompleterFunc adapts a function to Completer.
type CompleterFunc func(ctx context.Context, system, user string) (string, error)

func (f CompleterFunc) Complete(ctx context.Context, system, user string) (string, error) {
	return f(ctx, system, user)
}

// GeminiCompleter implements Completer with the Google GenAI SDK.
type GeminiCompleter struct {
	client *genai.Client
	cfg    generateConfig
	log    *slog.Logger
}

// NewGeminiCompleter wraps client. It validates sampling parameters eagerly.
func NewGeminiCompleter(client *genai.Client, log *slog.Logger, opts ...GenerateOption) (*GeminiCompleter, error) {
	if log == nil {
		log = slog.Default()
	}
	var cfg generateConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.ModelName == "" {
		cfg.ModelName = DefaultModel
	}
	if err := applyParameters(&genai.GenerateContentConfig{}, cfg.Parameters); err != nil {
		return nil, err
	}
	return &GeminiCompleter{client: client, cfg: cfg, log: log}, nil
}

// Complete sends system as the system instruction and user as the only user
// turn, asking for a JSON response.
func (g *GeminiCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	if g.client == nil {
		return "", fmt.Errorf("client not initialized")
	}

	config := &genai.GenerateContentConfig{
		ResponseMIMEType:  "application/json",
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
	}
	if err := applyParameters(config, g.cfg.Parameters); err != nil {
		return "", err
	}
	contents := []*genai.Content{genai.NewContentFromText(user, genai.RoleUser)}

	var text string
	err := retryable(ctx, func() error {
		g.log.Debug("Generating content", "model", g.cfg.ModelName, "system_length", len(system), "user_length", len(user))
		resp, err := g.client.Models.GenerateContent(ctx, g.cfg.ModelName, contents, config)
		if err != nil {
			return fmt.Errorf("failed to generate content: %w", err)
		}
		text, err = responseText(resp)
		return err
	}, g.cfg.MaxRetries, g.cfg.Backoff, g.log)
	if err != nil {
		return "", err
	}

	g.log.Debug("Generated content successfully", "response_length", len(text))
	return text, nil
}

// responseText concatenates the text parts of the first candidate. A reply
// with no text is returned as "" and left to the parser.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return "", nil
	}
	var text string
	for _, part := range candidate.Content.Parts {
		if part != nil {
			text += part.Text
		}
	}
	return text, nil
}

// retryable executes call with exponential backoff. It stops early when ctx
// is done.
func retryable(ctx context.Context, call func() error, max int, backoff time.Duration, log *slog.Logger) error {
	if max <= 0 {
		return call()
	}

	delay := backoff
	for i := 0; ; i++ {
		err := call()
		if err == nil {
			if i > 0 {
				log.Debug("Attempt succeeded", "attempt", i+1)
			}
			return nil
		}
		if i == max || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			log.Debug("Final attempt failed", "attempt", i+1, "error", err)
			return err
		}
		log.Debug("Attempt failed, retrying", "attempt", i+1, "error", err, "delay", delay)
		select {
		case <-ctx.Done():
			return errors.Join(err, ctx.Err())
		case <-time.After(delay):
		}
		delay *= 2
	}
}
