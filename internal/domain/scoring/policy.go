// Package scoring holds the match scoring policy and the pure score fusion.
package scoring

import (
	"fmt"
	"math"

	"github.com/kailas-cloud/petmatch/internal/domain"
	"github.com/kailas-cloud/petmatch/internal/domain/geo"
)

// BreedMode selects how breed agreement is decided.
type BreedMode string

const (
	// BreedExact compares breeds with case-sensitive string equality.
	BreedExact BreedMode = "exact"
	// BreedText compares breed text embeddings against BreedTextThreshold.
	BreedText BreedMode = "text"
)

// weightEpsilon tolerates float noise in user-supplied weights.
const weightEpsilon = 1e-9

// Policy is the tunable part of scoring: weights, gate and threshold.
type Policy struct {
	Threshold          float64
	ImageGate          float64
	ImageWeight        float64
	BreedWeight        float64
	ProximityWeight    float64
	ProximityRadiusKm  float64
	HardGate           bool
	BreedMode          BreedMode
	BreedTextThreshold float64
}

// DefaultPolicy is the hard-gated image+breed+location policy.
func DefaultPolicy() Policy {
	return Policy{
		Threshold:          0.7,
		ImageGate:          0.85,
		ImageWeight:        0.7,
		BreedWeight:        0.2,
		ProximityWeight:    0.1,
		ProximityRadiusKm:  geo.DefaultProximityRadiusKm,
		HardGate:           true,
		BreedMode:          BreedExact,
		BreedTextThreshold: 0.9,
	}
}

// Validate checks that weights and thresholds are consistent.
func (p Policy) Validate() error {
	for name, v := range map[string]float64{
		"threshold":            p.Threshold,
		"image_gate":           p.ImageGate,
		"breed_text_threshold": p.BreedTextThreshold,
	} {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return fmt.Errorf("%w: %s must be in [0,1], got %v", domain.ErrInvalidPolicy, name, v)
		}
	}

	weights := []float64{p.ImageWeight, p.BreedWeight, p.ProximityWeight}
	sum := 0.0
	for _, w := range weights {
		if math.IsNaN(w) || w < 0 {
			return fmt.Errorf("%w: weights must be non-negative", domain.ErrInvalidPolicy)
		}
		sum += w
	}
	if sum > 1+weightEpsilon {
		return fmt.Errorf("%w: weights sum to %v, must not exceed 1", domain.ErrInvalidPolicy, sum)
	}

	if p.ProximityRadiusKm <= 0 {
		return fmt.Errorf("%w: proximity radius must be positive", domain.ErrInvalidPolicy)
	}

	switch p.BreedMode {
	case BreedExact, BreedText:
	default:
		return fmt.Errorf("%w: unknown breed mode %q", domain.ErrInvalidPolicy, p.BreedMode)
	}
	return nil
}
