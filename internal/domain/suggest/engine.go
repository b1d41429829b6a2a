package suggest

import "github.com/okian/spinlens/internal/domain/model"

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithK sets the number of picks per strategy.
func WithK(k int) Option {
	return func(e *Engine) {
		if k > 0 {
			e.k = k
		}
	}
}

// WithDecay sets the recency decay factor. Values outside (0,1) are ignored.
func WithDecay(decay float64) Option {
	return func(e *Engine) {
		if decay > 0 && decay < 1 {
			e.decay = decay
		}
	}
}

// WithDefaultStrategy sets the strategy used when a request names none.
func WithDefaultStrategy(s Strategy) Option {
	return func(e *Engine) {
		if s.Known() {
			e.strategy = s
		}
	}
}

// Engine carries suggestion defaults. It holds no state between calls and is
// safe for concurrent use.
type Engine struct {
	k        int
	decay    float64
	strategy Strategy
}

// NewEngine creates an Engine with DefaultK, DefaultDecay and DefaultStrategy
// unless overridden.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		k:        DefaultK,
		decay:    DefaultDecay,
		strategy: DefaultStrategy,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// K returns the configured pick count.
func (e *Engine) K() int { return e.k }

// Decay returns the configured decay factor.
func (e *Engine) Decay() float64 { return e.decay }

// Strategy returns the configured default strategy.
func (e *Engine) Strategy() Strategy { return e.strategy }

// Suggest runs Suggest with the engine defaults. An empty name selects the
// engine's default strategy; any other unknown name falls back to combo.
func (e *Engine) Suggest(spins []model.Spin, name string) Result {
	s := e.strategy
	if name != "" {
		s = ParseStrategy(name)
	}
	return Suggest(spins, s, e.k, e.decay)
}
