// Package scoring computes the match score of a lost/found report pair.
package scoring

import (
	"context"

	"go.uber.org/zap"

	"github.com/kailas-cloud/petmatch/internal/domain/geo"
	"github.com/kailas-cloud/petmatch/internal/domain/report"
	policy "github.com/kailas-cloud/petmatch/internal/domain/scoring"
	"github.com/kailas-cloud/petmatch/internal/domain/similarity"
	"github.com/kailas-cloud/petmatch/internal/logger"
	"github.com/kailas-cloud/petmatch/internal/usecase/embedding"
)

// Engine fuses image, breed and proximity signals under a policy.
type Engine struct {
	signals signals
	policy  policy.Policy
}

// New creates a scoring engine. The policy is assumed validated.
func New(s signals, p policy.Policy) *Engine {
	return &Engine{signals: s, policy: p}
}

// Policy returns the policy in effect.
func (e *Engine) Policy() policy.Policy { return e.policy }

// MatchScore scores a pair. It never fails: a missing or failed signal counts as zero.
func (e *Engine) MatchScore(ctx context.Context, lost, found *report.Report) policy.Breakdown {
	log := logger.FromContext(ctx).With(
		zap.String("lost_id", lost.ID()),
		zap.String("found_id", found.ID()),
	)

	lostImg := e.signals.Representative(ctx, lost.Images())
	foundImg := e.signals.Representative(ctx, found.Images())

	var s policy.Signals
	if lostImg.Present() && foundImg.Present() {
		s.ImageSimilarity, s.ImagePresent = similarity.Cosine(lostImg.Vector, foundImg.Vector)
	}
	s.BreedMatch = e.breedMatch(ctx, log, lost.Breed(), found.Breed())
	s.Proximity = e.proximity(lost, found)

	b := policy.Score(e.policy, s)

	log.Debug("Pair scored",
		zap.Float64("image_similarity", b.ImageSimilarity),
		zap.Bool("image_present", b.ImagePresent),
		zap.Int("lost_image_failures", lostImg.Failed()),
		zap.Int("found_image_failures", foundImg.Failed()),
		zap.Bool("breed_match", b.BreedMatch),
		zap.Float64("proximity", b.Proximity),
		zap.Bool("gated", b.Gated),
		zap.Float64("score", b.Score),
	)
	return b
}

func (e *Engine) breedMatch(ctx context.Context, log *zap.Logger, lost, found string) bool {
	exact := lost == found
	if e.policy.BreedMode != policy.BreedText || exact {
		return exact
	}

	// Both breeds must be present for a text comparison to mean anything.
	if lost == "" || found == "" {
		return false
	}

	l := e.signals.Text(ctx, lost)
	f := e.signals.Text(ctx, found)
	if !l.OK || !f.OK {
		log.Warn("Breed text comparison unavailable, using exact match",
			zap.String("lost_breed", lost),
			zap.String("found_breed", found),
		)
		return exact
	}

	sim, ok := similarity.Cosine(l.Vector, f.Vector)
	return ok && sim >= e.policy.BreedTextThreshold
}

func (e *Engine) proximity(lost, found *report.Report) float64 {
	lc, fc := lost.Coordinates(), found.Coordinates()
	if lc == nil || fc == nil {
		return 0
	}
	d := geo.HaversineKm(lc.Lat, lc.Lon, fc.Lat, fc.Lon)
	return geo.Proximity(d, e.policy.ProximityRadiusKm)
}

var _ signals = (*embedding.Adapter)(nil)
