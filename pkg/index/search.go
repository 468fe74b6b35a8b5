package index

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/vishalkatlan/llm-txt-generator/pkg/content"
	"github.com/vishalkatlan/llm-txt-generator/pkg/embedder"
)

// ErrDimensionMismatch is returned when a stored vector and the query
// vector have different lengths. Silently truncating or padding would
// produce garbage similarities, so the search call fails instead.
var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

// Engine answers top-k similarity queries against a flat vector index.
type Engine struct {
	emb    *embedder.Embedder
	logger *zap.Logger
}

// NewEngine creates a search engine using the given embedder for queries.
func NewEngine(emb *embedder.Embedder, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{emb: emb, logger: logger}
}

// CosineSimilarity computes the cosine similarity between two vectors of
// equal length. A zero-norm vector (e.g. a degraded zero embedding) has
// similarity 0 with everything, never NaN.
func CosineSimilarity(a, b []float32) float32 {
	var dot, normA, normB float32
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (float32(math.Sqrt(float64(normA))) * float32(math.Sqrt(float64(normB))))
}

// Search embeds query and returns up to topK distinct items ranked by the
// similarity of their best-matching vector. vectors must be the flat
// collection produced by Builder.Build for items: titles first, then all
// code blocks flattened in (item order, block order).
//
// An empty index is a valid no-op: the result is empty and no error is
// returned. Fewer than topK results is valid when the corpus is small.
func (e *Engine) Search(ctx context.Context, query string, vectors [][]float32, items []*content.Item, topK int) ([]*content.Item, error) {
	if len(vectors) == 0 || len(items) == 0 {
		e.logger.Warn("no embeddings or contents available for search")
		return nil, nil
	}
	if topK <= 0 {
		return nil, fmt.Errorf("topK must be positive, got %d", topK)
	}

	q := e.emb.Embed(ctx, query)

	for i, v := range vectors {
		if len(v) != len(q) {
			return nil, fmt.Errorf("%w: vector %d has dimension %d, query has %d",
				ErrDimensionMismatch, i, len(v), len(q))
		}
	}

	type scored struct {
		idx int
		sim float32
	}
	candidates := make([]scored, len(vectors))
	for i, v := range vectors {
		candidates[i] = scored{idx: i, sim: CosineSimilarity(q, v)}
	}

	// Similarity descending, ties by ascending flat index so results are
	// deterministic.
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].sim != candidates[j].sim {
			return candidates[i].sim > candidates[j].sim
		}
		return candidates[i].idx < candidates[j].idx
	})

	// Scan twice topK candidates: a query can match both an item's title
	// and one of its blocks, and duplicates are collapsed below.
	limit := 2 * topK
	if limit > len(candidates) {
		limit = len(candidates)
	}

	offsets := blockOffsets(items)
	seen := make(map[int]bool)
	var results []*content.Item

	for _, c := range candidates[:limit] {
		owner := resolveOwner(c.idx, len(items), offsets)
		if seen[owner] {
			continue
		}
		seen[owner] = true
		results = append(results, items[owner])
		if len(results) == topK {
			break
		}
	}

	return results, nil
}

// blockOffsets returns the cumulative code-block counts preceding each
// item, in item order.
func blockOffsets(items []*content.Item) []int {
	offsets := make([]int, len(items))
	total := 0
	for i, item := range items {
		offsets[i] = total
		total += len(item.CodeBlocks)
	}
	return offsets
}

// resolveOwner maps a flat vector index to its owning item index. The
// first n vectors are titles; the rest are code blocks in (item order,
// block order), so a block offset belongs to the last item whose
// cumulative range starts at or before it. Items may have any number of
// blocks, including none.
func resolveOwner(flat, n int, offsets []int) int {
	if flat < n {
		return flat
	}

	blockOffset := flat - n
	owner := 0
	for i, off := range offsets {
		if off > blockOffset {
			break
		}
		owner = i
	}
	return owner
}
