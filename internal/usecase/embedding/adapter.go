// Package embedding turns embedding provider calls into explicit scoring signals.
package embedding

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/petmatch/internal/domain"
	"github.com/kailas-cloud/petmatch/internal/domain/similarity"
	"github.com/kailas-cloud/petmatch/internal/logger"
	"github.com/kailas-cloud/petmatch/internal/metrics"
)

// DefaultImageTimeout bounds a single image fetch and embed.
const DefaultImageTimeout = 6 * time.Second

// UnknownText replaces empty descriptive text so the text vector is always defined.
const UnknownText = "unknown pet"

// Outcome is the result of embedding one image reference.
type Outcome string

const (
	OutcomeOK      Outcome = "ok"
	OutcomeFailed  Outcome = "failed"
	OutcomeTimeout Outcome = "timeout"
)

// ImageOutcome records what happened to one reference.
type ImageOutcome struct {
	Ref     string
	Outcome Outcome
	Err     error
}

// ImageSignal is the representative vector of a report's images.
// Vector is nil when no reference could be embedded.
type ImageSignal struct {
	Vector   []float32
	Outcomes []ImageOutcome
}

// Present reports whether at least one image was embedded.
func (s ImageSignal) Present() bool { return len(s.Vector) > 0 }

// Failed counts references that did not produce a vector.
func (s ImageSignal) Failed() int {
	n := 0
	for _, o := range s.Outcomes {
		if o.Outcome != OutcomeOK {
			n++
		}
	}
	return n
}

// TextSignal is the text vector of a report or breed. OK is false on provider failure.
type TextSignal struct {
	Vector []float32
	OK     bool
	Err    error
}

// Adapter wraps the embedding capabilities used by scoring.
type Adapter struct {
	images       domain.ImageEmbedder
	text         domain.Embedder
	imageTimeout time.Duration
}

// NewAdapter creates an adapter. text may be nil when only images are scored.
// A non-positive imageTimeout falls back to DefaultImageTimeout.
func NewAdapter(images domain.ImageEmbedder, text domain.Embedder, imageTimeout time.Duration) *Adapter {
	if imageTimeout <= 0 {
		imageTimeout = DefaultImageTimeout
	}
	return &Adapter{images: images, text: text, imageTimeout: imageTimeout}
}

// Representative embeds each reference under its own timeout and averages the successes.
// Failures never abort the call; they are logged, counted and reported in Outcomes.
func (a *Adapter) Representative(ctx context.Context, refs []string) ImageSignal {
	if len(refs) == 0 || a.images == nil {
		return ImageSignal{}
	}

	log := logger.FromContext(ctx)
	outcomes := make([]ImageOutcome, 0, len(refs))
	vectors := make([][]float32, 0, len(refs))

	for _, ref := range refs {
		vec, err := a.embedOne(ctx, ref)
		outcome := classify(err)
		metrics.ImageEmbedTotal.WithLabelValues(string(outcome)).Inc()
		outcomes = append(outcomes, ImageOutcome{Ref: ref, Outcome: outcome, Err: err})

		if err != nil {
			log.Warn("Image embedding failed",
				zap.String("ref", ref),
				zap.String("outcome", string(outcome)),
				zap.Error(err),
			)
			continue
		}
		vectors = append(vectors, vec)
	}

	return ImageSignal{Vector: similarity.Mean(vectors), Outcomes: outcomes}
}

// Text embeds text, substituting UnknownText for blank input.
func (a *Adapter) Text(ctx context.Context, text string) TextSignal {
	if strings.TrimSpace(text) == "" {
		text = UnknownText
	}
	if a.text == nil {
		return TextSignal{Err: fmt.Errorf("text embedder not configured: %w", domain.ErrEmbeddingProviderError)}
	}

	res, err := a.text.Embed(ctx, text)
	if err != nil {
		logger.FromContext(ctx).Warn("Text embedding failed", zap.Error(err))
		return TextSignal{Err: err}
	}
	if len(res.Embedding) == 0 {
		return TextSignal{Err: fmt.Errorf("empty text embedding: %w", domain.ErrEmbeddingProviderError)}
	}
	return TextSignal{Vector: res.Embedding, OK: true}
}

func (a *Adapter) embedOne(ctx context.Context, ref string) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, a.imageTimeout)
	defer cancel()

	res, err := a.images.EmbedImage(ctx, ref)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("embed image %s: %w", ref, context.DeadlineExceeded)
		}
		return nil, fmt.Errorf("embed image %s: %w", ref, err)
	}
	if len(res.Embedding) == 0 {
		return nil, fmt.Errorf("embed image %s: empty vector: %w", ref, domain.ErrImageUnavailable)
	}
	return res.Embedding, nil
}

func classify(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, context.DeadlineExceeded):
		return OutcomeTimeout
	default:
		return OutcomeFailed
	}
}
