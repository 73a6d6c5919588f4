package intake

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"google.golang.org/genai"
)

// GenerateOption configures a GeminiCompleter.
type GenerateOption func(*generateConfig)

type generateConfig struct {
	ModelName  string
	Parameters map[string]string
	MaxRetries int
	Backoff    time.Duration
}

// WithModelName sets the model name
func WithModelName(name string) GenerateOption {
	return func(cfg *generateConfig) {
		cfg.ModelName = name
	}
}

// WithParameters sets sampling parameters: temperature, topK, topP and
// maxOutputTokens (maxTokens is accepted as an alias).
func WithParameters(params map[string]string) GenerateOption {
	return func(cfg *generateConfig) {
		cfg.Parameters = params
	}
}

// WithRetry retries failed calls up to max times, doubling backoff each time.
func WithRetry(max int, backoff time.Duration) GenerateOption {
	return func(cfg *generateConfig) {
		cfg.MaxRetries = max
		cfg.Backoff = backoff
	}
}

// floatParam parses params[key] and checks it against [lo, hi]. A zero hi
// means no upper bound and an exclusive lower bound.
func floatParam(params map[string]string, key string, lo, hi float64) (*float32, error) {
	raw, ok := params[key]
	if !ok {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid %s parameter '%s': %w", key, raw, err)
	}
	if hi == 0 && f <= lo {
		return nil, fmt.Errorf("%s parameter '%v' must be greater than %v", key, f, lo)
	}
	if hi != 0 && (f < lo || f > hi) {
		return nil, fmt.Errorf("%s parameter '%v' must be between %.1f and %.1f", key, f, lo, hi)
	}
	v := float32(f)
	return &v, nil
}

// applyParameters validates params and copies them onto config.
func applyParameters(config *genai.GenerateContentConfig, params map[string]string) error {
	var err error
	if config.Temperature, err = floatParam(params, "temperature", 0, 2); err != nil {
		return err
	}
	if config.TopK, err = floatParam(params, "topK", 0, 0); err != nil {
		return err
	}
	if config.TopP, err = floatParam(params, "topP", 0, 1); err != nil {
		return err
	}
	for _, key := range []string{"maxTokens", "maxOutputTokens"} {
		raw, ok := params[key]
		if !ok {
			continue
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %s parameter '%s': %w", key, raw, err)
		}
		if n <= 0 {
			return fmt.Errorf("%s parameter '%d' must be greater than 0", key, n)
		}
		if n > math.MaxInt32 {
			return fmt.Errorf("%s parameter '%d' must not exceed %d", key, n, math.MaxInt32)
		}
		config.MaxOutputTokens = int32(n)
	}
	return nil
}
