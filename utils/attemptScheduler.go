package utils

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"lms/logger"
)

// AttemptSweeper finalizes timed attempts that outlived their deadline.
type AttemptSweeper interface {
	SweepExpiredAttempts(ctx context.Context, grace time.Duration) (int, error)
}

const sweepTimeout = 2 * time.Minute

// InitializeAttemptScheduler runs the sweeper on schedule. Stop the returned
// cron on shutdown.
func InitializeAttemptScheduler(sweeper AttemptSweeper, schedule string, grace time.Duration, baseLog *logger.Logger) (*cron.Cron, error) {
	log := baseLog.With("scheduler", "ATTEMPT-SWEEPER")
	log.Info("Initializing attempt scheduler...", "schedule", schedule, "grace", grace.String())

	c := cron.New()
	if _, err := c.AddFunc(schedule, func() {
		RunAttemptSweep(sweeper, grace, log)
	}); err != nil {
		return nil, err
	}

	c.Start()
	log.Info("Attempt scheduler started")
	return c, nil
}

// RunAttemptSweep performs one sweep and logs the outcome.
func RunAttemptSweep(sweeper AttemptSweeper, grace time.Duration, log *logger.Logger) int {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	n, err := sweeper.SweepExpiredAttempts(ctx, grace)
	if err != nil {
		log.Error("Error sweeping expired attempts", "error", err)
		return 0
	}
	if n > 0 {
		log.Info("Finalized expired attempts", "count", n)
	}
	return n
}
