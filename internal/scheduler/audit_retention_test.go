package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockEnqueuer struct {
	calls         atomic.Int32
	retentionDays atomic.Int32
	err           error
}

func (m *mockEnqueuer) EnqueueAuditCleanup(_ context.Context, retentionDays int) (string, error) {
	m.calls.Add(1)
	m.retentionDays.Store(int32(retentionDays))
	return "task-1", m.err
}

func TestValidateCronSchedule(t *testing.T) {
	assert.NoError(t, ValidateCronSchedule("0 3 * * *"))
	assert.NoError(t, ValidateCronSchedule("@daily"))
	assert.Error(t, ValidateCronSchedule("not a schedule"))
	assert.Error(t, ValidateCronSchedule("0 0 3 * * *"), "seconds field is not accepted")
}

func TestNextRunTime(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	next, err := NextRunTime("0 3 * * *", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 2, 3, 0, 0, 0, time.UTC), next)

	_, err = NextRunTime("bogus", now)
	assert.Error(t, err)
}

func TestAuditRetentionScheduler_InvalidSchedule(t *testing.T) {
	s := NewAuditRetentionScheduler(&mockEnqueuer{}, "bogus", 30)

	err := s.Start(context.Background())
	assert.Error(t, err)
	assert.False(t, s.IsRunning())
}

func TestAuditRetentionScheduler_EnqueuesOnSchedule(t *testing.T) {
	enqueuer := &mockEnqueuer{}
	s := NewAuditRetentionScheduler(enqueuer, "@every 1s", 7)

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()
	assert.True(t, s.IsRunning())

	assert.Eventually(t, func() bool {
		return enqueuer.calls.Load() > 0
	}, 3*time.Second, 50*time.Millisecond)
	assert.Equal(t, int32(7), enqueuer.retentionDays.Load())
}

func TestAuditRetentionScheduler_EnqueueErrorKeepsRunning(t *testing.T) {
	enqueuer := &mockEnqueuer{err: errors.New("queue closed")}
	s := NewAuditRetentionScheduler(enqueuer, "@every 1s", 7)

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return enqueuer.calls.Load() > 0
	}, 3*time.Second, 50*time.Millisecond)
	assert.True(t, s.IsRunning())
}

func TestAuditRetentionScheduler_StopsOnContextCancel(t *testing.T) {
	s := NewAuditRetentionScheduler(&mockEnqueuer{}, "0 3 * * *", 30)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, s.Start(ctx))

	// Second start is a no-op
	require.NoError(t, s.Start(ctx))

	cancel()
	assert.Eventually(t, func() bool {
		return !s.IsRunning()
	}, time.Second, 10*time.Millisecond)

	// Stop after stop is safe
	s.Stop()
}
