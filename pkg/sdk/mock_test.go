package petmatch

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/petmatch/internal/domain/match"
	"github.com/kailas-cloud/petmatch/internal/domain/report"
	healthuc "github.com/kailas-cloud/petmatch/internal/usecase/health"
	matchinguc "github.com/kailas-cloud/petmatch/internal/usecase/matching"
)

// --- matchingUseCase mock ---

type mockMatchingUC struct {
	submitFn  func(ctx context.Context, in *report.Input) (matchinguc.SubmitResult, error)
	previewFn func(ctx context.Context, in *report.Input, opts matchinguc.PreviewOptions) ([]match.Candidate, error)
	reportsFn func(ctx context.Context, status *report.Status) ([]report.Report, error)
	matchesFn func(ctx context.Context) ([]match.Record, error)
}

func (m *mockMatchingUC) Submit(ctx context.Context, in *report.Input) (matchinguc.SubmitResult, error) {
	return m.submitFn(ctx, in)
}

func (m *mockMatchingUC) Preview(
	ctx context.Context, in *report.Input, opts matchinguc.PreviewOptions,
) ([]match.Candidate, error) {
	return m.previewFn(ctx, in, opts)
}

func (m *mockMatchingUC) ListReports(ctx context.Context, status *report.Status) ([]report.Report, error) {
	return m.reportsFn(ctx, status)
}

func (m *mockMatchingUC) ListMatches(ctx context.Context) ([]match.Record, error) {
	return m.matchesFn(ctx)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(_ context.Context) healthuc.Report { return m.report }

// --- embedders ---

type mockEmbedder struct {
	fn func(ctx context.Context, text string) (EmbeddingResult, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) (EmbeddingResult, error) {
	return m.fn(ctx, text)
}

// vectorImages returns a fixed vector per image reference.
type vectorImages map[string][]float32

func (v vectorImages) EmbedImage(_ context.Context, ref string) (EmbeddingResult, error) {
	vec, ok := v[ref]
	if !ok {
		return EmbeddingResult{}, fmt.Errorf("unknown image %q", ref)
	}
	return EmbeddingResult{Embedding: vec}, nil
}

// --- helpers ---

func testPets(uc matchingUseCase) *PetService {
	return &PetService{svc: uc}
}
