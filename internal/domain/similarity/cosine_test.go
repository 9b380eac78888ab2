package similarity

import (
	"math"
	"testing"
)

func TestCosine(t *testing.T) {
	tests := []struct {
		name   string
		a, b   []float32
		want   float64
		wantOK bool
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1, true},
		{"scaled", []float32{1, 2, 3}, []float32{2, 4, 6}, 1, true},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0, true},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1, true},
		{"nil a", nil, []float32{1}, 0, false},
		{"nil b", []float32{1}, nil, 0, false},
		{"length mismatch", []float32{1, 2}, []float32{1, 2, 3}, 0, false},
		{"zero norm", []float32{0, 0}, []float32{1, 1}, 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Cosine(tc.a, tc.b)
			if ok != tc.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tc.wantOK)
			}
			if math.Abs(got-tc.want) > 1e-6 {
				t.Errorf("Cosine = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestMean(t *testing.T) {
	got := Mean([][]float32{{1, 2}, {3, 4}})
	if len(got) != 2 || got[0] != 2 || got[1] != 3 {
		t.Fatalf("unexpected mean: %v", got)
	}
}

func TestMean_Single(t *testing.T) {
	got := Mean([][]float32{{0.5, -0.5}})
	if len(got) != 2 || got[0] != 0.5 || got[1] != -0.5 {
		t.Fatalf("unexpected mean: %v", got)
	}
}

func TestMean_SkipsMismatchedLength(t *testing.T) {
	got := Mean([][]float32{nil, {1, 1}, {9}, {3, 3}})
	if len(got) != 2 || got[0] != 2 || got[1] != 2 {
		t.Fatalf("unexpected mean: %v", got)
	}
}

func TestMean_Empty(t *testing.T) {
	if got := Mean(nil); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
	if got := Mean([][]float32{nil, {}}); got != nil {
		t.Fatalf("expected nil for empty vectors, got %v", got)
	}
}
