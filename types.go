package intake

import "time"

// Options are per-request settings for Extractor calls.
type Options struct {
	Timeout     time.Duration
	Runner      Runner        // nil → one goroutine per section
	Metrics     *Metrics      // nil → no metrics
	IDGenerator func() string // nil → uuid.NewString
}

// Functional option constructors
func WithTimeout(d time.Duration) func(*Options) {
	return func(o *Options) { o.Timeout = d }
}

func WithRunner(r Runner) func(*Options) {
	return func(o *Options) { o.Runner = r }
}

func WithMetrics(m *Metrics) func(*Options) {
	return func(o *Options) { o.Metrics = m }
}

// WithIDGenerator overrides how a record identifier is minted when the model
// supplied none.
func WithIDGenerator(fn func() string) func(*Options) {
	return func(o *Options) { o.IDGenerator = fn }
}

func buildOptions(optFns []func(*Options)) Options {
	var opts Options
	for _, fn := range optFns {
		fn(&opts)
	}
	return opts
}
