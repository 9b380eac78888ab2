package embedding

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/petmatch/internal/domain"
)

// InstrumentedEmbedder wraps the text and image embedders with logging.
// Transport metrics (requests, duration, tokens) are recorded in transport/openai.
type InstrumentedEmbedder struct {
	text   domain.Embedder
	image  domain.ImageEmbedder
	model  string
	logger *zap.Logger
}

// NewInstrumentedEmbedder wraps the embedders with observability. Either may be nil.
func NewInstrumentedEmbedder(
	text domain.Embedder, image domain.ImageEmbedder, model string, logger *zap.Logger,
) *InstrumentedEmbedder {
	return &InstrumentedEmbedder{
		text:   text,
		image:  image,
		model:  model,
		logger: logger,
	}
}

// Embed delegates to the text embedder and logs the outcome.
func (p *InstrumentedEmbedder) Embed(
	ctx context.Context, text string,
) (domain.EmbeddingResult, error) {
	if p.text == nil {
		return domain.EmbeddingResult{}, fmt.Errorf("text embedder not configured: %w", domain.ErrEmbeddingProviderError)
	}

	start := time.Now()
	result, err := p.text.Embed(ctx, text)
	p.observe("text", time.Since(start), result, err)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}
	return result, nil
}

// EmbedImage delegates to the image embedder and logs the outcome.
func (p *InstrumentedEmbedder) EmbedImage(
	ctx context.Context, ref string,
) (domain.EmbeddingResult, error) {
	if p.image == nil {
		return domain.EmbeddingResult{}, fmt.Errorf("image embedder not configured: %w", domain.ErrEmbeddingProviderError)
	}

	start := time.Now()
	result, err := p.image.EmbedImage(ctx, ref)
	p.observe("image", time.Since(start), result, err)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed image: %w", err)
	}
	return result, nil
}

func (p *InstrumentedEmbedder) observe(kind string, d time.Duration, result domain.EmbeddingResult, err error) {
	if err != nil {
		p.logger.Warn("Embedding request failed",
			zap.String("kind", kind),
			zap.String("model", p.model),
			zap.Duration("duration", d),
			zap.Error(err),
		)
		return
	}
	p.logger.Debug("Embedding request completed",
		zap.String("kind", kind),
		zap.String("model", p.model),
		zap.Duration("duration", d),
		zap.Int("dimensions", len(result.Embedding)),
		zap.Int("total_tokens", result.TotalTokens),
	)
}
