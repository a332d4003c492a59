package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPurger struct {
	mock.Mock
}

func (m *mockPurger) PurgeIdle(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func TestRunOnceUsesTTLCutoff(t *testing.T) {
	now := time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)
	purger := &mockPurger{}
	purger.On("PurgeIdle", mock.Anything, now.Add(-720*time.Hour)).Return(int64(3), nil)

	job := NewSessionCleanupJob(purger, 720*time.Hour)
	job.now = func() time.Time { return now }

	n, err := job.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	purger.AssertExpectations(t)
}

func TestRunOncePropagatesError(t *testing.T) {
	purger := &mockPurger{}
	purger.On("PurgeIdle", mock.Anything, mock.Anything).Return(int64(0), errors.New("db down"))

	_, err := NewSessionCleanupJob(purger, time.Hour).RunOnce(context.Background())
	assert.EqualError(t, err, "db down")
}

func TestStartRejectsBadSchedule(t *testing.T) {
	job := NewSessionCleanupJob(&mockPurger{}, time.Hour)
	job.schedule = "every now and then"
	assert.Error(t, job.Start())
}

func TestStartStop(t *testing.T) {
	job := NewSessionCleanupJob(&mockPurger{}, time.Hour)
	require.NoError(t, job.Start())
	assert.Len(t, job.cron.Entries(), 1)
	job.Stop()
}
