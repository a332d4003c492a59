package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOnceRetriesSingleTime(t *testing.T) {
	calls := 0
	err := OnceWith(time.Millisecond)(context.Background(), func() error {
		calls++
		if calls == 1 {
			return errors.New("transient")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestOnceGivesUpAfterSecondFailure(t *testing.T) {
	calls := 0
	boom := errors.New("down")
	err := OnceWith(time.Millisecond)(context.Background(), func() error {
		calls++
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
}

func TestPermanentIsNotRetried(t *testing.T) {
	calls := 0
	boom := errors.New("bad request")
	err := Do(context.Background(), 3, time.Millisecond, func() error {
		calls++
		return Permanent(boom)
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestCancelledContextStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls := 0
	err := Do(ctx, 5, time.Millisecond, func() error {
		calls++
		return errors.New("transient")
	})
	require.Error(t, err)
	assert.LessOrEqual(t, calls, 1)
}
