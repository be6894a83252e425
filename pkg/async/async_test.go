package async_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/dmitrymomot/trackkit/pkg/async"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestGo(t *testing.T) {
	t.Run("returns the result", func(t *testing.T) {
		f := async.Go(context.Background(), func(context.Context) (string, error) {
			return "fp-123", nil
		})
		got, err := f.Await()
		require.NoError(t, err)
		assert.Equal(t, "fp-123", got)
		assert.True(t, f.IsComplete())
	})

	t.Run("propagates errors", func(t *testing.T) {
		want := errors.New("boom")
		f := async.Go(context.Background(), func(context.Context) (int, error) {
			return 0, want
		})
		_, err := f.Await()
		assert.ErrorIs(t, err, want)
	})

	t.Run("recovers panics", func(t *testing.T) {
		f := async.Go(context.Background(), func(context.Context) (string, error) {
			panic("collaborator exploded")
		})
		got, err := f.Await()
		require.ErrorIs(t, err, async.ErrPanic)
		assert.Contains(t, err.Error(), "collaborator exploded")
		assert.Empty(t, got)
	})

	t.Run("skips work for canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		var called atomic.Bool
		f := async.Go(ctx, func(context.Context) (int, error) {
			called.Store(true)
			return 1, nil
		})
		_, err := f.Await()
		require.ErrorIs(t, err, context.Canceled)
		assert.False(t, called.Load())
	})
}

func TestAsync(t *testing.T) {
	f := async.Async(context.Background(), 21, func(_ context.Context, v int) (int, error) {
		return v * 2, nil
	})
	got, err := f.Await()
	require.NoError(t, err)
	assert.Equal(t, 42, got)
}

func TestAwaitContext(t *testing.T) {
	release := make(chan struct{})
	f := async.Go(context.Background(), func(context.Context) (int, error) {
		<-release
		return 7, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := f.AwaitContext(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, f.IsComplete())

	close(release)
	got, err := f.AwaitContext(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, got)
}

func TestWaitAll(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")

	futures := []*async.Future[int]{
		async.Go(ctx, func(context.Context) (int, error) { return 1, nil }),
		async.Go(ctx, func(context.Context) (int, error) { return 0, boom }),
		async.Go(ctx, func(context.Context) (int, error) { return 3, nil }),
	}

	results, err := async.WaitAll(futures...)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, []int{1, 0, 3}, results)
	for _, f := range futures {
		assert.True(t, f.IsComplete())
	}
}
