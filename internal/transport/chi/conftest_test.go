package chi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kailas-cloud/petmatch/internal/domain/match"
	"github.com/kailas-cloud/petmatch/internal/domain/report"
	healthuc "github.com/kailas-cloud/petmatch/internal/usecase/health"
	"github.com/kailas-cloud/petmatch/internal/usecase/matching"
)

// mockPets implements petService with func fields.
type mockPets struct {
	submitFn      func(ctx context.Context, in *report.Input) (matching.SubmitResult, error)
	previewFn     func(ctx context.Context, in *report.Input, opts matching.PreviewOptions) ([]match.Candidate, error)
	listReportsFn func(ctx context.Context, status *report.Status) ([]report.Report, error)
	listMatchesFn func(ctx context.Context) ([]match.Record, error)
}

func (m *mockPets) Submit(ctx context.Context, in *report.Input) (matching.SubmitResult, error) {
	if m.submitFn != nil {
		return m.submitFn(ctx, in)
	}
	return matching.SubmitResult{ID: "p1", Status: report.StatusLost}, nil
}

func (m *mockPets) Preview(
	ctx context.Context, in *report.Input, opts matching.PreviewOptions,
) ([]match.Candidate, error) {
	if m.previewFn != nil {
		return m.previewFn(ctx, in, opts)
	}
	return []match.Candidate{}, nil
}

func (m *mockPets) ListReports(ctx context.Context, status *report.Status) ([]report.Report, error) {
	if m.listReportsFn != nil {
		return m.listReportsFn(ctx, status)
	}
	return []report.Report{}, nil
}

func (m *mockPets) ListMatches(ctx context.Context) ([]match.Record, error) {
	if m.listMatchesFn != nil {
		return m.listMatchesFn(ctx)
	}
	return []match.Record{}, nil
}

type mockHealth struct {
	report healthuc.Report
}

func (m *mockHealth) Check(_ context.Context) healthuc.Report { return m.report }

func newTestRouter(pets *mockPets, health *mockHealth) http.Handler {
	if health == nil {
		health = &mockHealth{report: healthuc.Report{Status: healthuc.Healthy, Checks: map[string]healthuc.CheckResult{}}}
	}
	return NewRouter(NewServer(pets, health), RouterConfig{})
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, http.NoBody)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rr.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rr.Body.String())
	}
	return v
}
