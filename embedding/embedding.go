// Package embedding scores word similarity as the cosine of vectors from an
// OpenAI-compatible embeddings API.
package embedding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sync"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/revelaction/learnspacy/pipeline"
)

const DefaultModel = string(openai.SmallEmbedding3)

// Config holds the embedding provider settings.
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	Dimensions int
	Logger     *zap.Logger
}

// Client is the part of the go-openai client the scorer uses.
type Client interface {
	CreateEmbeddings(ctx context.Context, conv openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error)
}

// Scorer computes similarity from embeddings, keeping every vector it has
// fetched.
type Scorer struct {
	client     Client
	model      openai.EmbeddingModel
	dimensions int
	logger     *zap.Logger

	mu      sync.Mutex
	vectors map[string][]float32
}

var _ pipeline.Scorer = (*Scorer)(nil)

// New creates a scorer for an OpenAI-compatible embeddings API.
func New(cfg Config) *Scorer {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return NewWithClient(openai.NewClientWithConfig(clientCfg), cfg)
}

// NewWithClient creates a scorer using client.
func NewWithClient(client Client, cfg Config) *Scorer {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scorer{
		client:     client,
		model:      openai.EmbeddingModel(model),
		dimensions: cfg.Dimensions,
		logger:     logger,
		vectors:    map[string][]float32{},
	}
}

// Model returns the embedding model name.
func (s *Scorer) Model() string {
	return string(s.model)
}

func (s *Scorer) Similarity(a, b string) (float64, error) {
	va, err := s.vector(context.Background(), a)
	if err != nil {
		return 0, err
	}

	vb, err := s.vector(context.Background(), b)
	if err != nil {
		return 0, err
	}

	return Cosine(va, vb), nil
}

func (s *Scorer) vector(ctx context.Context, word string) ([]float32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.vectors[word]; ok {
		return v, nil
	}

	req := openai.EmbeddingRequest{
		Input:          []string{word},
		Model:          s.model,
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
	}
	if s.dimensions > 0 {
		req.Dimensions = s.dimensions
	}

	resp, err := s.client.CreateEmbeddings(ctx, req)
	if err != nil {
		return nil, s.opErr(parseAPIError(err))
	}

	if len(resp.Data) == 0 {
		return nil, s.opErr(errors.New("empty embedding response"))
	}

	s.logger.Debug("embedding fetched",
		zap.String("word", word),
		zap.Int("dimensions", len(resp.Data[0].Embedding)),
		zap.Int("tokens", resp.Usage.TotalTokens))

	v := resp.Data[0].Embedding
	s.vectors[word] = v
	return v, nil
}

func (s *Scorer) opErr(err error) error {
	return &pipeline.Error{Op: "similarity", Model: string(s.model), Err: err}
}

// Cosine returns the cosine similarity of a and b, 0 if either is a zero
// vector or their lengths differ.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}

	if na == 0 || nb == 0 {
		return 0
	}

	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// parseAPIError extracts a human-readable error from the API response.
func parseAPIError(err error) error {
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if detail := extractDetail(reqErr.Body); detail != "" {
			return fmt.Errorf("embedding API error %d: %s", reqErr.HTTPStatusCode, detail)
		}
		return fmt.Errorf("embedding API error %d: %s", reqErr.HTTPStatusCode, string(reqErr.Body))
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("embedding API error %d: %s", apiErr.HTTPStatusCode, apiErr.Message)
	}

	return fmt.Errorf("embedding request failed: %w", err)
}

// extractDetail extracts the "detail" field from a JSON error body.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
