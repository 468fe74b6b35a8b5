package embedder

import (
	"context"
	"errors"
	"fmt"
	"os"

	openai "github.com/sashabaranov/go-openai"
)

// modelDimensions maps OpenAI embedding models to their vector sizes.
var modelDimensions = map[string]int{
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
	"text-embedding-ada-002": 1536,
}

// placeholder keys that indicate an unconfigured environment.
var placeholderKeys = map[string]bool{
	"sk-placeholder":           true,
	"your_openai_api_key_here": true,
}

// OpenAIProvider implements Provider using the OpenAI embeddings API.
// The go-openai SDK handles response envelope differences across API
// versions, so callers only see vectors or errors.
type OpenAIProvider struct {
	client *openai.Client
	model  string
	dim    int
}

// NewOpenAIProvider creates a provider for the given model, reading the
// API key from OPENAI_API_KEY. A missing or placeholder key is a fatal
// configuration error: refusing to start beats producing an all-zero
// index.
func NewOpenAIProvider(model string) (*OpenAIProvider, error) {
	key := os.Getenv("OPENAI_API_KEY")
	if key == "" {
		return nil, errors.New("OPENAI_API_KEY environment variable not set")
	}
	if placeholderKeys[key] {
		return nil, errors.New("OPENAI_API_KEY is a placeholder, please provide a valid key")
	}

	if model == "" {
		model = DefaultModel
	}
	dim, ok := modelDimensions[model]
	if !ok {
		return nil, fmt.Errorf("unknown embedding model %q", model)
	}

	return &OpenAIProvider{
		client: openai.NewClient(key),
		model:  model,
		dim:    dim,
	}, nil
}

// Embed requests a single embedding from the OpenAI API.
func (p *OpenAIProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(p.model),
		Input: []string{text},
	})
	if err != nil {
		return nil, fmt.Errorf("openai: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, errors.New("openai: no embedding data returned")
	}

	return resp.Data[0].Embedding, nil
}

// Dimension returns the vector size for the configured model.
func (p *OpenAIProvider) Dimension() int {
	return p.dim
}

// Model returns the configured model name.
func (p *OpenAIProvider) Model() string {
	return p.model
}
