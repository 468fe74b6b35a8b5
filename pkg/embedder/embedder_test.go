package embedder

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// fakeProvider scripts provider behavior per input text.
type fakeProvider struct {
	fn    func(text string) ([]float32, error)
	calls []string
}

func (f *fakeProvider) Embed(_ context.Context, text string) ([]float32, error) {
	f.calls = append(f.calls, text)
	return f.fn(text)
}

func constVector(dim int, val float32) []float32 {
	v := make([]float32, dim)
	for i := range v {
		v[i] = val
	}
	return v
}

func TestEmbedReturnsProviderVector(t *testing.T) {
	p := &fakeProvider{fn: func(string) ([]float32, error) {
		return []float32{0.1, 0.2, 0.3}, nil
	}}
	e := New(p, 3, zap.NewNop())

	vec := e.Embed(context.Background(), "hello")

	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
}

func TestEmbedEmptyInputSkipsProvider(t *testing.T) {
	p := &fakeProvider{fn: func(string) ([]float32, error) {
		t.Fatal("provider should not be called for empty input")
		return nil, nil
	}}
	e := New(p, 4, zap.NewNop())

	for _, text := range []string{"", "   ", "\n\t "} {
		vec := e.Embed(context.Background(), text)
		assert.Equal(t, make([]float32, 4), vec)
	}
	assert.Empty(t, p.calls)
}

func TestEmbedTruncatesLongInput(t *testing.T) {
	p := &fakeProvider{fn: func(string) ([]float32, error) {
		return constVector(2, 1), nil
	}}
	e := New(p, 2, zap.NewNop(), WithMaxChars(5))

	e.Embed(context.Background(), "abcdefghij")

	require.Len(t, p.calls, 1)
	assert.Equal(t, "abcde", p.calls[0])
}

func TestEmbedDegradesOnProviderError(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	p := &fakeProvider{fn: func(string) ([]float32, error) {
		return nil, errors.New("quota exceeded")
	}}
	e := New(p, 3, zap.New(core))

	vec := e.Embed(context.Background(), "some text")

	assert.Equal(t, make([]float32, 3), vec)
	require.Equal(t, 1, logs.Len())
	assert.Contains(t, logs.All()[0].Message, "zero vector")
}

func TestEmbedDegradesOnWrongDimension(t *testing.T) {
	p := &fakeProvider{fn: func(string) ([]float32, error) {
		return []float32{1, 2}, nil
	}}
	e := New(p, 3, zap.NewNop())

	vec := e.Embed(context.Background(), "text")

	assert.Equal(t, make([]float32, 3), vec)
}

func TestDimension(t *testing.T) {
	e := New(&fakeProvider{}, 1536, nil)
	assert.Equal(t, 1536, e.Dimension())
}
