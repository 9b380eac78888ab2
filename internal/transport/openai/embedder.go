package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/petmatch/internal/domain"
	"github.com/kailas-cloud/petmatch/internal/metrics"
)

const (
	kindText  = "text"
	kindImage = "image"
)

// Embedder is an embedding provider using the OpenAI-compatible API.
// Text and images go to the same endpoint. The image model must be CLIP-style,
// with text and image vectors in one space.
type Embedder struct {
	client     *openai.Client
	textModel  openai.EmbeddingModel
	imageModel openai.EmbeddingModel
	dimensions int
	user       string
	fetcher    *imageFetcher
	logger     *zap.Logger
}

// Config holds the embedding provider settings.
type Config struct {
	APIKey     string
	BaseURL    string
	TextModel  string
	ImageModel string // defaults to TextModel
	Dimensions int
	User       string
	// InlineImages downloads image references and sends them as data URIs
	// instead of passing URLs to the provider.
	InlineImages  bool
	MaxImageBytes int64
	Logger        *zap.Logger
}

// NewEmbedder creates an OpenAI-compatible embedding provider.
func NewEmbedder(cfg *Config) *Embedder {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	imageModel := cfg.ImageModel
	if imageModel == "" {
		imageModel = cfg.TextModel
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	e := &Embedder{
		client:     openai.NewClientWithConfig(clientCfg),
		textModel:  openai.EmbeddingModel(cfg.TextModel),
		imageModel: openai.EmbeddingModel(imageModel),
		dimensions: cfg.Dimensions,
		user:       cfg.User,
		logger:     logger,
	}
	if cfg.InlineImages {
		e.fetcher = newImageFetcher(cfg.MaxImageBytes)
	}
	return e
}

// Embed implements domain.Embedder.
func (e *Embedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	return e.create(ctx, kindText, e.textModel, []string{text})
}

// EmbedImage implements domain.ImageEmbedder. The input is sent as
// [{"image": ref}], where ref is the URL or a data URI of the fetched bytes.
func (e *Embedder) EmbedImage(ctx context.Context, ref string) (domain.EmbeddingResult, error) {
	if ref == "" {
		return domain.EmbeddingResult{}, fmt.Errorf("empty image reference: %w", domain.ErrImageUnavailable)
	}

	payload := ref
	if e.fetcher != nil {
		uri, err := e.fetcher.dataURI(ctx, ref)
		if err != nil {
			metrics.EmbeddingErrorsTotal.WithLabelValues(kindImage, string(e.imageModel), "fetch_error").Inc()
			return domain.EmbeddingResult{}, err
		}
		payload = uri
	}

	return e.create(ctx, kindImage, e.imageModel, []map[string]string{{"image": payload}})
}

func (e *Embedder) create(
	ctx context.Context,
	kind string,
	model openai.EmbeddingModel,
	input any,
) (domain.EmbeddingResult, error) {
	req := openai.EmbeddingRequest{
		Input:          input,
		Model:          model,
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
		User:           e.user,
	}
	if e.dimensions > 0 {
		req.Dimensions = e.dimensions
	}

	start := time.Now()

	resp, err := e.client.CreateEmbeddings(ctx, req)

	duration := time.Since(start)

	if err != nil {
		metrics.EmbeddingRequestsTotal.WithLabelValues(kind, string(model), "error").Inc()
		metrics.EmbeddingErrorsTotal.WithLabelValues(kind, string(model), "api_error").Inc()
		e.logger.Debug("Embedding request failed",
			zap.String("kind", kind),
			zap.String("model", string(model)),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return domain.EmbeddingResult{}, parseAPIError(err)
	}

	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		metrics.EmbeddingRequestsTotal.WithLabelValues(kind, string(model), "error").Inc()
		metrics.EmbeddingErrorsTotal.WithLabelValues(kind, string(model), "empty_response").Inc()
		return domain.EmbeddingResult{}, fmt.Errorf("empty embedding response: %w", domain.ErrEmbeddingProviderError)
	}

	// Record success metrics
	metrics.EmbeddingRequestsTotal.WithLabelValues(kind, string(model), "success").Inc()
	metrics.EmbeddingRequestDuration.WithLabelValues(kind, string(model)).Observe(duration.Seconds())

	totalTokens := resp.Usage.TotalTokens
	promptTokens := resp.Usage.PromptTokens
	if totalTokens > 0 {
		metrics.EmbeddingTokensTotal.WithLabelValues(kind, string(model), "prompt").Add(float64(promptTokens))
		metrics.EmbeddingTokensTotal.WithLabelValues(kind, string(model), "total").Add(float64(totalTokens))
	}

	return domain.EmbeddingResult{
		Embedding:    resp.Data[0].Embedding,
		PromptTokens: promptTokens,
		TotalTokens:  totalTokens,
	}, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (e *Embedder) HealthCheck(ctx context.Context) error {
	if _, err := e.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// parseAPIError extracts a human-readable error from the API response.
// All errors are wrapped with domain.ErrEmbeddingProviderError.
func parseAPIError(err error) error {
	wrap := domain.ErrEmbeddingProviderError

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		detail := extractDetail(reqErr.Body)
		if detail != "" {
			return fmt.Errorf("embedding API error %d: %s: %w",
				reqErr.HTTPStatusCode, detail, wrap)
		}
		return fmt.Errorf("embedding API error %d: %s: %w",
			reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("embedding API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("embedding request: %w: %w", err, wrap)
	}

	return fmt.Errorf("embedding request failed: %w", wrap)
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
