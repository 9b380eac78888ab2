// Package matching runs the lost/found report workflow: submission, matching and listing.
package matching

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/petmatch/internal/domain"
	"github.com/kailas-cloud/petmatch/internal/domain/match"
	"github.com/kailas-cloud/petmatch/internal/domain/report"
	"github.com/kailas-cloud/petmatch/internal/domain/scoring"
	"github.com/kailas-cloud/petmatch/internal/logger"
	"github.com/kailas-cloud/petmatch/internal/metrics"
)

// DefaultMaxImages caps image references per report.
const DefaultMaxImages = 5

// SubmitResult is the outcome of a submission. Matches is set for found reports only.
type SubmitResult struct {
	ID      string
	Status  report.Status
	Matches []match.Result
}

// PreviewOptions tune a read-only preview.
type PreviewOptions struct {
	// Opposite overrides the status searched against. Defaults to the opposite of the report's status.
	Opposite *report.Status
	// IncludeBelowThreshold returns every scored candidate, not only matches.
	IncludeBelowThreshold bool
}

// Service handles report submission and the match-creation workflow.
type Service struct {
	pets              PetRepository
	matches           MatchRepository
	scorer            Scorer
	notifier          Notifier
	threshold         float64
	maxImages         int
	conditionalRetire bool
	now               func() time.Time
}

// New creates a matching service with the default threshold and image cap.
func New(pets PetRepository, matches MatchRepository, scorer Scorer) *Service {
	return &Service{
		pets:      pets,
		matches:   matches,
		scorer:    scorer,
		notifier:  LogNotifier{},
		threshold: scoring.DefaultPolicy().Threshold,
		maxImages: DefaultMaxImages,
		now:       time.Now,
	}
}

// WithThreshold sets the minimum score at which a match is created.
func (s *Service) WithThreshold(threshold float64) *Service {
	s.threshold = threshold
	return s
}

// WithMaxImages sets the per-report image cap. Non-positive values are ignored.
func (s *Service) WithMaxImages(n int) *Service {
	if n > 0 {
		s.maxImages = n
	}
	return s
}

// WithConditionalRetire makes match creation depend on the lost report still being present.
func (s *Service) WithConditionalRetire(enabled bool) *Service {
	s.conditionalRetire = enabled
	return s
}

// WithNotifier replaces the default log notifier.
func (s *Service) WithNotifier(n Notifier) *Service {
	if n != nil {
		s.notifier = n
	}
	return s
}

// WithClock overrides the creation timestamp source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Submit normalizes and stores a report. Found reports are matched immediately.
// On a store failure after the found report was stored, the result still carries
// its id and the error is a *PartialError.
func (s *Service) Submit(ctx context.Context, in *report.Input) (SubmitResult, error) {
	r, err := s.normalize(ctx, in)
	if err != nil {
		return SubmitResult{}, err
	}
	metrics.ReportsSubmittedTotal.WithLabelValues(string(r.Status())).Inc()

	if r.Status() == report.StatusLost {
		id, err := s.pets.Insert(ctx, &r)
		if err != nil {
			return SubmitResult{}, fmt.Errorf("insert lost report: %w", err)
		}
		logger.FromContext(ctx).Info("Lost report stored", zap.String("pet_id", id))
		return SubmitResult{ID: id, Status: report.StatusLost}, nil
	}

	id, matches, err := s.ProcessFound(ctx, r)
	return SubmitResult{ID: id, Status: report.StatusFound, Matches: matches}, err
}

// ProcessFound stores a found report and matches it against every active lost report.
//
// The scan, score, insert and delete sequence is not atomic. Two found reports
// processed concurrently can both match the same lost report before either deletes
// it, producing two match records. WithConditionalRetire closes that window by
// creating a match only when this call's delete removed the lost report.
func (s *Service) ProcessFound(ctx context.Context, found report.Report) (string, []match.Result, error) {
	if found.Status() != report.StatusFound {
		return "", nil, domain.NewValidationError("status", "must be found")
	}

	id, err := s.pets.Insert(ctx, &found)
	if err != nil {
		return "", nil, fmt.Errorf("insert found report: %w", err)
	}
	found.SetID(id)

	ctx = logger.With(ctx, zap.String("found_id", id))
	log := logger.FromContext(ctx)

	losts, err := s.pets.Find(ctx, report.ByStatus(report.StatusLost))
	if err != nil {
		return id, nil, &PartialError{ID: id, Err: fmt.Errorf("find lost reports: %w", err)}
	}

	results := make([]match.Result, 0)
	for i := range losts {
		lost := &losts[i]

		b, ok := s.scorePair(ctx, lost, &found)
		if !ok || b.Score < s.threshold {
			continue
		}

		res, created, err := s.link(ctx, lost, id, b.Score)
		if err != nil {
			return id, results, &PartialError{ID: id, Matches: results, Err: err}
		}
		if !created {
			continue
		}

		results = append(results, res)
		metrics.MatchesCreatedTotal.Inc()
		log.Info("Match created",
			zap.String("match_id", res.MatchID),
			zap.String("lost_id", res.LostID),
			zap.Float64("score", res.Score),
		)
		s.notifier.NotifyMatch(ctx, lost, &found, res)
	}

	return id, results, nil
}

// Preview scores a report against the opposite pool without storing or deleting anything.
// Candidates are sorted by score descending; ties keep store order.
func (s *Service) Preview(ctx context.Context, in *report.Input, opts PreviewOptions) ([]match.Candidate, error) {
	if opts.Opposite != nil && in.RawStatus() == "" {
		in.Status = string(opts.Opposite.Opposite())
	}
	r, err := s.normalize(ctx, in)
	if err != nil {
		return nil, err
	}

	target := r.Status().Opposite()
	if opts.Opposite != nil {
		if !opts.Opposite.Valid() {
			return nil, domain.NewValidationError("opposite", "must be lost or found")
		}
		target = *opts.Opposite
	}

	pool, err := s.pets.Find(ctx, report.ByStatus(target))
	if err != nil {
		return nil, fmt.Errorf("find %s reports: %w", target, err)
	}

	candidates := make([]match.Candidate, 0, len(pool))
	for i := range pool {
		other := &pool[i]

		lost, found := other, &r
		if target == report.StatusFound {
			lost, found = &r, other
		}

		b, ok := s.scorePair(ctx, lost, found)
		if !ok {
			continue
		}
		above := b.Score >= s.threshold
		if !above && !opts.IncludeBelowThreshold {
			continue
		}
		candidates = append(candidates, match.Candidate{ReportID: other.ID(), Score: b.Score, AboveCutoff: above})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	return candidates, nil
}

// ListReports returns reports newest first, optionally filtered by status.
func (s *Service) ListReports(ctx context.Context, status *report.Status) ([]report.Report, error) {
	reports, err := s.pets.Find(ctx, report.Filter{Status: status})
	if err != nil {
		return nil, fmt.Errorf("find reports: %w", err)
	}
	if reports == nil {
		reports = []report.Report{}
	}

	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].CreatedAt().After(reports[j].CreatedAt())
	})
	return reports, nil
}

// ListMatches returns every match record, highest score first.
func (s *Service) ListMatches(ctx context.Context) ([]match.Record, error) {
	records, err := s.matches.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	if records == nil {
		records = []match.Record{}
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Score() > records[j].Score()
	})
	return records, nil
}

func (s *Service) normalize(ctx context.Context, in *report.Input) (report.Report, error) {
	r, issues, err := report.Normalize(in, s.now())
	if err != nil {
		return report.Report{}, fmt.Errorf("normalize report: %w", err)
	}
	if n := len(r.Images()); n > s.maxImages {
		return report.Report{}, domain.NewValidationError("images", fmt.Sprintf("at most %d allowed, got %d", s.maxImages, n))
	}

	if len(issues) > 0 {
		log := logger.FromContext(ctx)
		for _, is := range issues {
			log.Warn("Report field dropped", zap.String("field", is.Field), zap.String("reason", is.Reason))
		}
	}
	return r, nil
}

// scorePair runs the scorer with a recovery guard so one bad pair cannot abort the batch.
func (s *Service) scorePair(ctx context.Context, lost, found *report.Report) (b scoring.Breakdown, ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			metrics.PairFailuresTotal.Inc()
			logger.FromContext(ctx).Error("Pair scoring failed",
				zap.String("lost_id", lost.ID()),
				zap.String("found_id", found.ID()),
				zap.Any("panic", rec),
			)
			b, ok = scoring.Breakdown{}, false
		}
	}()

	b = s.scorer.MatchScore(ctx, lost, found)
	metrics.MatchScores.Observe(b.Score)
	return b, true
}

// link records the match and retires the lost report.
// created is false only under conditional retire when the lost report was already gone.
func (s *Service) link(
	ctx context.Context, lost *report.Report, foundID string, score float64,
) (res match.Result, created bool, err error) {
	if s.conditionalRetire {
		deleted, err := s.pets.Delete(ctx, lost.ID())
		if err != nil {
			return match.Result{}, false, fmt.Errorf("retire lost report %s: %w", lost.ID(), err)
		}
		if !deleted {
			logger.FromContext(ctx).Info("Lost report already matched elsewhere", zap.String("lost_id", lost.ID()))
			return match.Result{}, false, nil
		}
	}

	rec, err := match.New(lost.ID(), foundID, score, s.now())
	if err != nil {
		return match.Result{}, false, fmt.Errorf("build match: %w", err)
	}
	matchID, err := s.matches.Insert(ctx, &rec)
	if err != nil {
		return match.Result{}, false, fmt.Errorf("insert match: %w", err)
	}

	if !s.conditionalRetire {
		if _, err := s.pets.Delete(ctx, lost.ID()); err != nil {
			return match.Result{}, false, fmt.Errorf("retire lost report %s: %w", lost.ID(), err)
		}
	}

	return match.Result{MatchID: matchID, LostID: lost.ID(), Score: score}, true, nil
}
