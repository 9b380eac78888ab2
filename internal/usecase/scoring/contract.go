package scoring

import (
	"context"

	"github.com/kailas-cloud/petmatch/internal/usecase/embedding"
)

// signals is the consumer interface for embedding signals (ISP).
type signals interface {
	Representative(ctx context.Context, refs []string) embedding.ImageSignal
	Text(ctx context.Context, text string) embedding.TextSignal
}
