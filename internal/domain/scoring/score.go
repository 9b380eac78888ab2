package scoring

import "math"

// Signals are the sub-scores of one lost/found pair.
type Signals struct {
	ImageSimilarity float64
	ImagePresent    bool
	BreedMatch      bool
	Proximity       float64
}

// Breakdown is the full scoring trace for a pair.
type Breakdown struct {
	Signals
	Gated bool
	Score float64
}

// AboveThreshold reports whether the score qualifies as a match under p.
func (b Breakdown) AboveThreshold(p Policy) bool {
	return b.Score >= p.Threshold
}

// Score fuses signals into a final score in [0,1] rounded to 3 decimals.
// Under a hard gate an image similarity below the gate or a breed mismatch yields 0.
func Score(p Policy, s Signals) Breakdown {
	img := finite(s.ImageSimilarity)
	if !s.ImagePresent {
		img = 0
	}
	s.ImageSimilarity = img
	s.Proximity = clamp01(finite(s.Proximity))

	if p.HardGate && (img < p.ImageGate || !s.BreedMatch) {
		return Breakdown{Signals: s, Gated: true}
	}

	breed := 0.0
	if s.BreedMatch {
		breed = 1
	}
	raw := p.ImageWeight*img + p.BreedWeight*breed + p.ProximityWeight*s.Proximity
	return Breakdown{Signals: s, Score: round3(clamp01(finite(raw)))}
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
