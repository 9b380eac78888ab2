package petmatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/petmatch/internal/domain/report"
	matchinguc "github.com/kailas-cloud/petmatch/internal/usecase/matching"
)

// PetService submits reports and reads reports and matches.
type PetService struct {
	svc matchingUseCase
	obs *observer
}

// Submit stores a report. A found report is matched against every active lost
// report; matched lost reports are retired.
//
// If the found report was stored but a later store call failed, the result still
// carries its ID and the matches created so far, together with the error.
func (s *PetService) Submit(ctx context.Context, r Report) (_ SubmitResult, err error) {
	start := time.Now()
	defer func() { s.obs.observe("pets.submit", start, err, "status", string(r.Status)) }()

	res, err := s.svc.Submit(ctx, toInternalInput(&r))
	out := SubmitResult{
		ID:      res.ID,
		Status:  Status(res.Status),
		Matches: fromInternalResults(res.Matches),
	}

	var partial *matchinguc.PartialError
	if errors.As(err, &partial) {
		out.ID = partial.ID
		out.Matches = fromInternalResults(partial.Matches)
	}
	s.obs.matchesCreated(len(out.Matches))

	if err != nil {
		return out, fmt.Errorf("submit report: %w", err)
	}
	return out, nil
}

// Preview scores a report against the opposite side without storing or retiring anything.
// Candidates are sorted by score descending.
func (s *PetService) Preview(
	ctx context.Context, r Report, opts PreviewOptions,
) (_ []Candidate, err error) {
	start := time.Now()
	defer func() { s.obs.observe("pets.preview", start, err) }()

	internal := matchinguc.PreviewOptions{IncludeBelowThreshold: opts.All}
	if opts.Opposite != "" {
		opposite, err := report.ParseStatus(string(opts.Opposite))
		if err != nil {
			return nil, fmt.Errorf("preview: %w", err)
		}
		internal.Opposite = &opposite
	}

	candidates, err := s.svc.Preview(ctx, toInternalInput(&r), internal)
	if err != nil {
		return nil, fmt.Errorf("preview: %w", err)
	}
	return fromInternalCandidates(candidates), nil
}

// List returns stored reports newest first. An empty status lists both sides.
func (s *PetService) List(ctx context.Context, status Status) (_ []Pet, err error) {
	start := time.Now()
	defer func() { s.obs.observe("pets.list", start, err) }()

	var filter *report.Status
	if status != "" {
		st, err := report.ParseStatus(string(status))
		if err != nil {
			return nil, fmt.Errorf("list pets: %w", err)
		}
		filter = &st
	}

	reports, err := s.svc.ListReports(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list pets: %w", err)
	}
	pets := make([]Pet, len(reports))
	for i := range reports {
		pets[i] = fromInternalReport(&reports[i])
	}
	return pets, nil
}

// Matches returns every match record, highest score first.
func (s *PetService) Matches(ctx context.Context) (_ []Match, err error) {
	start := time.Now()
	defer func() { s.obs.observe("pets.matches", start, err) }()

	records, err := s.svc.ListMatches(ctx)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	out := make([]Match, len(records))
	for i := range records {
		out[i] = fromInternalRecord(&records[i])
	}
	return out, nil
}
