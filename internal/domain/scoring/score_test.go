package scoring

import (
	"errors"
	"math"
	"testing"

	"github.com/kailas-cloud/petmatch/internal/domain"
)

func TestScore_IdenticalReportsScoreOne(t *testing.T) {
	b := Score(DefaultPolicy(), Signals{ImageSimilarity: 0.99999994, ImagePresent: true, BreedMatch: true, Proximity: 1})
	if b.Score != 1.0 {
		t.Errorf("Score = %v, want 1.0", b.Score)
	}
	if b.Gated {
		t.Error("identical reports should not be gated")
	}
}

func TestScore_BreedMismatchIsZero(t *testing.T) {
	b := Score(DefaultPolicy(), Signals{ImageSimilarity: 1, ImagePresent: true, BreedMatch: false, Proximity: 1})
	if b.Score != 0 || !b.Gated {
		t.Errorf("Score = %v gated=%v, want 0 gated", b.Score, b.Gated)
	}
}

func TestScore_ImageBelowGateIsZero(t *testing.T) {
	b := Score(DefaultPolicy(), Signals{ImageSimilarity: 0.80, ImagePresent: true, BreedMatch: true, Proximity: 1})
	if b.Score != 0 {
		t.Errorf("Score = %v, want 0 (not 0.56)", b.Score)
	}
}

func TestScore_AbsentImageIsGated(t *testing.T) {
	b := Score(DefaultPolicy(), Signals{ImageSimilarity: 0.99, ImagePresent: false, BreedMatch: true})
	if b.Score != 0 || b.ImageSimilarity != 0 {
		t.Errorf("Score = %v image=%v, want 0", b.Score, b.ImageSimilarity)
	}
}

func TestScore_WeightedAboveGate(t *testing.T) {
	b := Score(DefaultPolicy(), Signals{ImageSimilarity: 0.9, ImagePresent: true, BreedMatch: true, Proximity: 0.5})
	// 0.63 + 0.2 + 0.05
	if b.Score != 0.88 {
		t.Errorf("Score = %v, want 0.88", b.Score)
	}
}

func TestScore_RoundsToThreeDecimals(t *testing.T) {
	b := Score(DefaultPolicy(), Signals{ImageSimilarity: 0.91234, ImagePresent: true, BreedMatch: true, Proximity: 0.12345})
	want := math.Round((0.7*0.91234+0.2+0.1*0.12345)*1000) / 1000
	if b.Score != want {
		t.Errorf("Score = %v, want %v", b.Score, want)
	}
}

func TestScore_NonFiniteSignalsDegrade(t *testing.T) {
	p := DefaultPolicy()
	p.HardGate = false
	b := Score(p, Signals{ImageSimilarity: math.NaN(), ImagePresent: true, BreedMatch: true, Proximity: math.Inf(1)})
	if b.Score != 0.2 {
		t.Errorf("Score = %v, want 0.2", b.Score)
	}
}

func TestScore_WithoutHardGate(t *testing.T) {
	p := DefaultPolicy()
	p.HardGate = false
	b := Score(p, Signals{ImageSimilarity: 0.8, ImagePresent: true, BreedMatch: true, Proximity: 0})
	if b.Score != 0.76 || b.Gated {
		t.Errorf("Score = %v gated=%v, want 0.76", b.Score, b.Gated)
	}
}

func TestScore_NegativeSimilarityClamped(t *testing.T) {
	p := DefaultPolicy()
	p.HardGate = false
	b := Score(p, Signals{ImageSimilarity: -1, ImagePresent: true})
	if b.Score != 0 {
		t.Errorf("Score = %v, want 0", b.Score)
	}
}

func TestBreakdown_AboveThreshold(t *testing.T) {
	p := DefaultPolicy()
	if !(Breakdown{Score: 0.7}).AboveThreshold(p) {
		t.Error("0.7 should meet the 0.7 threshold")
	}
	if (Breakdown{Score: 0.699}).AboveThreshold(p) {
		t.Error("0.699 should not meet the threshold")
	}
}

func TestPolicy_Validate(t *testing.T) {
	if err := DefaultPolicy().Validate(); err != nil {
		t.Fatalf("default policy invalid: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Policy)
	}{
		{"threshold above one", func(p *Policy) { p.Threshold = 1.5 }},
		{"negative gate", func(p *Policy) { p.ImageGate = -0.1 }},
		{"negative weight", func(p *Policy) { p.BreedWeight = -0.2 }},
		{"weights over one", func(p *Policy) { p.ImageWeight = 0.8 }},
		{"zero radius", func(p *Policy) { p.ProximityRadiusKm = 0 }},
		{"unknown breed mode", func(p *Policy) { p.BreedMode = "fuzzy" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := DefaultPolicy()
			tc.mutate(&p)
			if err := p.Validate(); !errors.Is(err, domain.ErrInvalidPolicy) {
				t.Errorf("expected ErrInvalidPolicy, got %v", err)
			}
		})
	}
}
