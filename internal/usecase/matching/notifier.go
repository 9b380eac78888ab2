package matching

import (
	"context"

	"go.uber.org/zap"

	"github.com/kailas-cloud/petmatch/internal/domain/match"
	"github.com/kailas-cloud/petmatch/internal/domain/report"
	"github.com/kailas-cloud/petmatch/internal/logger"
)

// LogNotifier writes a structured line per possible match for the lost pet's owner.
type LogNotifier struct{}

// NotifyMatch implements Notifier.
func (LogNotifier) NotifyMatch(ctx context.Context, lost, found *report.Report, m match.Result) {
	owner := lost.Contact()
	logger.FromContext(ctx).Info("Possible match for lost pet",
		zap.String("match_id", m.MatchID),
		zap.String("lost_id", lost.ID()),
		zap.String("found_id", found.ID()),
		zap.Float64("score", m.Score),
		zap.String("pet_name", lost.Name()),
		zap.String("owner_name", owner.Name),
		zap.String("owner_phone", owner.Phone),
		zap.String("owner_email", owner.Email),
		zap.String("found_address", found.Address()),
	)
}
