package scoring

import (
	"context"
	"testing"
	"time"

	"github.com/kailas-cloud/petmatch/internal/domain/report"
	"github.com/kailas-cloud/petmatch/internal/usecase/embedding"
)

// mockSignals serves fixed vectors by image reference and by text.
type mockSignals struct {
	images    map[string][]float32
	texts     map[string][]float32
	textCalls int
}

func (m *mockSignals) Representative(_ context.Context, refs []string) embedding.ImageSignal {
	var vecs [][]float32
	for _, r := range refs {
		if v, ok := m.images[r]; ok {
			vecs = append(vecs, v)
		}
	}
	if len(vecs) == 0 {
		return embedding.ImageSignal{}
	}
	return embedding.ImageSignal{Vector: vecs[0]}
}

func (m *mockSignals) Text(_ context.Context, text string) embedding.TextSignal {
	m.textCalls++
	v, ok := m.texts[text]
	if !ok {
		return embedding.TextSignal{}
	}
	return embedding.TextSignal{Vector: v, OK: true}
}

func newReport(t *testing.T, f report.Fields) *report.Report {
	t.Helper()
	r, err := report.New(f, time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("new report: %v", err)
	}
	return &r
}
