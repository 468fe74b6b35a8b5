// Package index builds the in-memory embedding index over extracted
// content and answers similarity queries against it.
package index

import (
	"context"

	"go.uber.org/zap"

	"github.com/vishalkatlan/llm-txt-generator/pkg/content"
	"github.com/vishalkatlan/llm-txt-generator/pkg/embedder"
)

// DefaultWorkers bounds concurrent embedding calls during a build.
const DefaultWorkers = 4

// Builder computes embeddings for a content collection and assembles the
// flat vector index. It is the single place embeddings are assigned to
// items; no other text field is touched.
type Builder struct {
	emb      *embedder.Embedder
	workers  int
	progress func(done, total int)
	logger   *zap.Logger
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithWorkers sets the number of concurrent embedding calls.
func WithWorkers(n int) BuilderOption {
	return func(b *Builder) {
		if n > 0 {
			b.workers = n
		}
	}
}

// WithProgress installs a callback invoked after each embedded text unit.
func WithProgress(fn func(done, total int)) BuilderOption {
	return func(b *Builder) { b.progress = fn }
}

// NewBuilder creates a Builder using the given embedder.
func NewBuilder(emb *embedder.Embedder, logger *zap.Logger, opts ...BuilderOption) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &Builder{
		emb:     emb,
		workers: DefaultWorkers,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build embeds every item title, then every code block flattened in
// (item order, block order), writes each vector onto its owning entity,
// and returns the concatenated flat vector collection: titles first,
// then blocks. Search index arithmetic depends on that ordering.
//
// An empty item collection returns nil without any provider calls.
func (b *Builder) Build(ctx context.Context, items []*content.Item) [][]float32 {
	if len(items) == 0 {
		b.logger.Warn("no contents to embed")
		return nil
	}

	texts := make([]string, 0, len(items))
	for _, item := range items {
		texts = append(texts, item.Title)
	}
	for _, item := range items {
		for _, block := range item.CodeBlocks {
			texts = append(texts, block.Code)
		}
	}

	vectors := b.embedAll(ctx, texts)

	for i, item := range items {
		item.TitleEmbedding = vectors[i]
	}
	k := len(items)
	for _, item := range items {
		for j := range item.CodeBlocks {
			item.CodeBlocks[j].Embedding = vectors[k]
			k++
		}
	}

	b.logger.Info("created embeddings",
		zap.Int("items", len(items)),
		zap.Int("code_blocks", len(vectors)-len(items)))

	return vectors
}

// embedAll embeds texts with a bounded worker fan-out. Results land in an
// indexed slice so vector i always corresponds to text i regardless of
// completion order, and one failed call degrades only its own slot (the
// embedder never returns an error).
func (b *Builder) embedAll(ctx context.Context, texts []string) [][]float32 {
	vectors := make([][]float32, len(texts))

	sem := make(chan struct{}, b.workers)
	done := make(chan int, len(texts))

	for i := range texts {
		sem <- struct{}{}
		go func(idx int) {
			defer func() { <-sem }()
			vectors[idx] = b.emb.Embed(ctx, texts[idx])
			done <- idx
		}(i)
	}

	for i := 0; i < len(texts); i++ {
		<-done
		if b.progress != nil {
			b.progress(i+1, len(texts))
		}
	}

	return vectors
}
