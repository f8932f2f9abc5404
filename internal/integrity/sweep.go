// Package integrity runs a periodic referential-integrity sweep. The schema's
// cascade keeps feedback rows from outliving their owner; this job measures
// that invariant from the outside and exports the result.
package integrity

import (
	"context"
	"log/slog"

	"github.com/crucial707/feedback-board/internal/metrics"
	"github.com/crucial707/feedback-board/internal/repo"
	"github.com/robfig/cron/v3"
)

// Run starts a background cron job that counts orphaned feedback rows on the
// given schedule (standard 5-field cron expression) and publishes the count
// as a gauge. A nonzero count is logged as a warning: it means the cascade
// delete broke somewhere.
func Run(feedbackRepo *repo.FeedbackRepo, cronExpr string) (*cron.Cron, error) {
	c := cron.New()

	sweep := func() { Sweep(context.Background(), feedbackRepo) }

	if _, err := c.AddFunc(cronExpr, sweep); err != nil {
		return nil, err
	}

	// Initial measurement so the gauge is populated before the first tick.
	sweep()
	c.Start()
	return c, nil
}

// Sweep runs one orphan count and records it.
func Sweep(ctx context.Context, feedbackRepo *repo.FeedbackRepo) {
	n, err := feedbackRepo.CountOrphans(ctx)
	if err != nil {
		slog.Error("integrity sweep", "error", err)
		return
	}
	metrics.SetFeedbackOrphans(n)
	if n > 0 {
		slog.Warn("orphaned feedback rows found", "count", n)
	}
}
