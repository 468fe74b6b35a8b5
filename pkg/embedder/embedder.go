// Package embedder generates vector embeddings for text via an external
// provider, degrading to zero vectors instead of failing the caller.
package embedder

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Default configuration values.
const (
	DefaultModel    = "text-embedding-3-small"
	DefaultMaxChars = 32000
	DefaultTimeout  = 30 * time.Second
)

// Provider is the narrow adapter to an embedding backend. One
// implementation per provider; the rest of the system never inspects
// provider response shapes.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Embedder wraps a Provider with the policies the indexing pipeline
// relies on: empty input short-circuits to a zero vector, oversized input
// is hard-truncated, every call is bounded by a timeout, and provider
// failures degrade to a zero vector with a logged warning. A single bad
// embedding must not halt a whole repository run.
type Embedder struct {
	provider Provider
	dim      int
	maxChars int
	timeout  time.Duration
	logger   *zap.Logger
}

// Option configures an Embedder.
type Option func(*Embedder)

// WithMaxChars sets the truncation ceiling in characters.
func WithMaxChars(n int) Option {
	return func(e *Embedder) { e.maxChars = n }
}

// WithTimeout sets the per-call provider timeout.
func WithTimeout(d time.Duration) Option {
	return func(e *Embedder) { e.timeout = d }
}

// New creates an Embedder around the given provider. dim is the vector
// dimensionality the provider produces; zero-vector fallbacks use it.
func New(provider Provider, dim int, logger *zap.Logger, opts ...Option) *Embedder {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Embedder{
		provider: provider,
		dim:      dim,
		maxChars: DefaultMaxChars,
		timeout:  DefaultTimeout,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Embed returns the embedding for text. It never fails: empty input and
// provider errors both yield the zero vector of the configured dimension.
func (e *Embedder) Embed(ctx context.Context, text string) []float32 {
	if strings.TrimSpace(text) == "" {
		return make([]float32, e.dim)
	}

	if len(text) > e.maxChars {
		text = text[:e.maxChars]
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	vec, err := e.provider.Embed(ctx, text)
	if err != nil {
		e.logger.Warn("failed to get embedding, using zero vector", zap.Error(err))
		return make([]float32, e.dim)
	}
	if len(vec) != e.dim {
		e.logger.Warn("provider returned unexpected dimension, using zero vector",
			zap.Int("want", e.dim), zap.Int("got", len(vec)))
		return make([]float32, e.dim)
	}
	return vec
}

// Dimension returns the embedding vector dimensionality.
func (e *Embedder) Dimension() int {
	return e.dim
}
