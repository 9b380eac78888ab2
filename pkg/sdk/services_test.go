package petmatch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/petmatch/internal/domain"
	"github.com/kailas-cloud/petmatch/internal/domain/match"
	"github.com/kailas-cloud/petmatch/internal/domain/report"
	matchinguc "github.com/kailas-cloud/petmatch/internal/usecase/matching"
)

func TestPetService_Submit(t *testing.T) {
	mock := &mockMatchingUC{
		submitFn: func(_ context.Context, in *report.Input) (matchinguc.SubmitResult, error) {
			if in.Status != "found" {
				t.Errorf("status = %q, want found", in.Status)
			}
			if in.ReporterName != "Ann" || in.OwnerName != "" {
				t.Errorf("contact mapped to owner=%q reporter=%q", in.OwnerName, in.ReporterName)
			}
			return matchinguc.SubmitResult{
				ID:      "f1",
				Status:  report.StatusFound,
				Matches: []match.Result{{MatchID: "m1", LostID: "l1", Score: 0.9}},
			}, nil
		},
	}

	res, err := testPets(mock).Submit(context.Background(), Report{
		Status:  Found,
		Contact: Contact{Name: "Ann"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ID != "f1" || res.Status != Found {
		t.Errorf("result = %+v", res)
	}
	if len(res.Matches) != 1 || res.Matches[0].LostID != "l1" {
		t.Errorf("matches = %+v, want one for l1", res.Matches)
	}
}

func TestPetService_Submit_Invalid(t *testing.T) {
	mock := &mockMatchingUC{
		submitFn: func(_ context.Context, _ *report.Input) (matchinguc.SubmitResult, error) {
			return matchinguc.SubmitResult{}, domain.NewValidationError("status", "is required")
		},
	}

	_, err := testPets(mock).Submit(context.Background(), Report{})
	if !errors.Is(err, ErrInvalidReport) {
		t.Fatalf("err = %v, want ErrInvalidReport", err)
	}
}

func TestPetService_Submit_Partial(t *testing.T) {
	partial := &matchinguc.PartialError{
		ID:      "f1",
		Matches: []match.Result{{MatchID: "m1", LostID: "l1", Score: 0.8}},
		Err:     errors.New("store down"),
	}
	mock := &mockMatchingUC{
		submitFn: func(_ context.Context, _ *report.Input) (matchinguc.SubmitResult, error) {
			return matchinguc.SubmitResult{}, partial
		},
	}

	res, err := testPets(mock).Submit(context.Background(), Report{Status: Found})
	if err == nil {
		t.Fatal("expected error")
	}
	var pe *matchinguc.PartialError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want PartialError in chain", err)
	}
	if res.ID != "f1" || len(res.Matches) != 1 {
		t.Errorf("result = %+v, want id f1 and one match", res)
	}
}

func TestPetService_Preview(t *testing.T) {
	mock := &mockMatchingUC{
		previewFn: func(
			_ context.Context, _ *report.Input, opts matchinguc.PreviewOptions,
		) ([]match.Candidate, error) {
			if opts.Opposite == nil || *opts.Opposite != report.StatusLost {
				t.Errorf("opposite = %v, want lost", opts.Opposite)
			}
			if !opts.IncludeBelowThreshold {
				t.Error("expected IncludeBelowThreshold")
			}
			return []match.Candidate{
				{ReportID: "l1", Score: 0.9, AboveCutoff: true},
				{ReportID: "l2", Score: 0.2},
			}, nil
		},
	}

	got, err := testPets(mock).Preview(context.Background(), Report{}, PreviewOptions{Opposite: "LOST", All: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].PetID != "l1" || !got[0].AboveThreshold || got[1].AboveThreshold {
		t.Errorf("candidates = %+v", got)
	}
}

func TestPetService_Preview_BadOpposite(t *testing.T) {
	mock := &mockMatchingUC{
		previewFn: func(context.Context, *report.Input, matchinguc.PreviewOptions) ([]match.Candidate, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	}

	_, err := testPets(mock).Preview(context.Background(), Report{}, PreviewOptions{Opposite: "stray"})
	if !errors.Is(err, ErrInvalidReport) {
		t.Fatalf("err = %v, want ErrInvalidReport", err)
	}
}

func TestPetService_List(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	lost := report.Reconstruct("l1", report.Fields{
		Status:      report.StatusLost,
		Breed:       "beagle",
		Images:      []string{"a.jpg"},
		Coordinates: &report.Coordinates{Lat: 52.52, Lon: 13.40},
		Contact:     report.Contact{Name: "Bob"},
	}, now)

	tests := []struct {
		name       string
		status     Status
		wantFilter *report.Status
		wantErr    bool
	}{
		{name: "all", status: ""},
		{name: "lost", status: Lost, wantFilter: ptr(report.StatusLost)},
		{name: "invalid", status: "stray", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockMatchingUC{
				reportsFn: func(_ context.Context, status *report.Status) ([]report.Report, error) {
					if (status == nil) != (tt.wantFilter == nil) || (status != nil && *status != *tt.wantFilter) {
						t.Errorf("filter = %v, want %v", status, tt.wantFilter)
					}
					return []report.Report{lost}, nil
				},
			}

			pets, err := testPets(mock).List(context.Background(), tt.status)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidReport) {
					t.Fatalf("err = %v, want ErrInvalidReport", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(pets) != 1 || pets[0].ID != "l1" || pets[0].Location == nil || pets[0].Contact.Name != "Bob" {
				t.Errorf("pets = %+v", pets)
			}
		})
	}
}

func TestPetService_Matches(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	mock := &mockMatchingUC{
		matchesFn: func(context.Context) ([]match.Record, error) {
			return []match.Record{match.Reconstruct("m1", "l1", "f1", 0.82, 1, created)}, nil
		},
	}

	got, err := testPets(mock).Matches(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	m := got[0]
	if m.ID != "m1" || m.LostID != "l1" || m.FoundID != "f1" || m.Score != 0.82 || !m.CreatedAt.Equal(created) {
		t.Errorf("match = %+v", m)
	}
}

func TestPetService_Matches_Error(t *testing.T) {
	mock := &mockMatchingUC{
		matchesFn: func(context.Context) ([]match.Record, error) {
			return nil, errors.New("db down")
		},
	}

	if _, err := testPets(mock).Matches(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestClient_EndToEnd_Memory(t *testing.T) {
	ctx := context.Background()
	images := vectorImages{
		"lost-beagle.jpg":  {1, 0, 0},
		"found-beagle.jpg": {0.99, 0.05, 0},
		"lost-cat.jpg":     {0, 0, 1},
	}

	c, err := New(ctx, WithMemory(), WithImageEmbedder(images))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()
	pets := c.Pets()

	beagle, err := pets.Submit(ctx, Report{Status: Lost, Breed: "beagle", Images: []string{"lost-beagle.jpg"}})
	if err != nil {
		t.Fatalf("submit lost beagle: %v", err)
	}
	if _, err := pets.Submit(ctx, Report{Status: Lost, Breed: "siamese", Images: []string{"lost-cat.jpg"}}); err != nil {
		t.Fatalf("submit lost cat: %v", err)
	}

	preview, err := pets.Preview(ctx, Report{Status: Found, Breed: "beagle", Images: []string{"found-beagle.jpg"}}, PreviewOptions{})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if len(preview) != 1 || preview[0].PetID != beagle.ID {
		t.Fatalf("preview = %+v, want only the beagle", preview)
	}

	found, err := pets.Submit(ctx, Report{Status: Found, Breed: "beagle", Images: []string{"found-beagle.jpg"}})
	if err != nil {
		t.Fatalf("submit found: %v", err)
	}
	if len(found.Matches) != 1 || found.Matches[0].LostID != beagle.ID {
		t.Fatalf("matches = %+v, want the lost beagle", found.Matches)
	}

	lost, err := pets.List(ctx, Lost)
	if err != nil {
		t.Fatalf("list lost: %v", err)
	}
	if len(lost) != 1 || lost[0].Breed != "siamese" {
		t.Errorf("active lost = %+v, want only the cat", lost)
	}

	records, err := pets.Matches(ctx)
	if err != nil {
		t.Fatalf("matches: %v", err)
	}
	if len(records) != 1 || records[0].FoundID != found.ID {
		t.Errorf("records = %+v", records)
	}
}

func ptr[T any](v T) *T { return &v }
