package utils

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lms/logger"
)

type fakeSweeper struct {
	calls int
	grace time.Duration
	n     int
	err   error
}

func (f *fakeSweeper) SweepExpiredAttempts(ctx context.Context, grace time.Duration) (int, error) {
	f.calls++
	f.grace = grace
	return f.n, f.err
}

func TestRunAttemptSweep(t *testing.T) {
	s := &fakeSweeper{n: 3}
	assert.Equal(t, 3, RunAttemptSweep(s, time.Minute, logger.Nop()))
	assert.Equal(t, time.Minute, s.grace)

	s.err = errors.New("store down")
	assert.Equal(t, 0, RunAttemptSweep(s, time.Minute, logger.Nop()))
	assert.Equal(t, 2, s.calls)
}

func TestInitializeAttemptSchedulerRejectsBadSchedule(t *testing.T) {
	_, err := InitializeAttemptScheduler(&fakeSweeper{}, "not a schedule", time.Minute, logger.Nop())
	require.Error(t, err)

	c, err := InitializeAttemptScheduler(&fakeSweeper{}, "@every 1h", time.Minute, logger.Nop())
	require.NoError(t, err)
	<-c.Stop().Done()
}
