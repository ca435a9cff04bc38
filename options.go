package grain

// Option configures an Engine during creation.
// Use functional options to customize Engine behavior.
//
// Example:
//
//	// Default configuration
//	eng, err := grain.New(canvas)
//
//	// Reproducible noise (dependency injection of the random source)
//	src := rand.New(rand.NewPCG(1, 2))
//	eng, err := grain.New(canvas, grain.WithRandom(src.Float64))
type Option func(*engineOptions)

// engineOptions holds optional configuration for Engine creation.
type engineOptions struct {
	random    RandomFn
	nilRandom bool
	validate  bool
	warnings  bool
	overflow  Overflow
}

// defaultEngineOptions returns the default engine options.
func defaultEngineOptions() engineOptions {
	return engineOptions{
		random:   defaultRandom,
		validate: true,
		warnings: true,
		overflow: OverflowClamp,
	}
}

// WithRandom injects the random source used for every noise draw, tile
// shift, and overlay anchor. Passing nil keeps the default source and logs
// an advisory.
//
// Example:
//
//	src := rand.New(rand.NewPCG(42, 0))
//	eng, err := grain.New(canvas, grain.WithRandom(src.Float64))
func WithRandom(fn RandomFn) Option {
	return func(o *engineOptions) {
		if fn == nil {
			// Advisory deferred to New so WithoutWarnings gates it
			// regardless of option order.
			o.nilRandom = true
			return
		}
		o.random = fn
	}
}

// WithoutValidation disables eager argument validation on every operation.
// Bad input then produces undefined pixel output instead of an error; only
// the degenerate-tile guard stays active, since a zero-size tile would turn
// the overlay sweep into an infinite loop.
func WithoutValidation() Option {
	return func(o *engineOptions) {
		o.validate = false
	}
}

// WithoutWarnings suppresses the engine's advisory log records. Errors are
// unaffected.
func WithoutWarnings() Option {
	return func(o *engineOptions) {
		o.warnings = false
	}
}

// WithOverflow selects how granulate deltas that leave [0, 255] are written
// back. The default is OverflowClamp.
func WithOverflow(policy Overflow) Option {
	return func(o *engineOptions) {
		o.overflow = policy
	}
}
