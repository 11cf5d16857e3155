// ABOUTME: Tests for the query poller
// ABOUTME: Checks stale response handling, timeouts and keeping the last good value
package monitor

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPollerDiscardsStaleResponses(t *testing.T) {
	p := NewPoller("orders", time.Second, 0, func(context.Context) (int, error) { return 0, nil }, nil)

	older := p.next()
	newer := p.next()

	assert.True(t, p.apply(newer, 2, nil))
	assert.False(t, p.apply(older, 1, nil), "older response must not overwrite a newer one")

	snap := p.Snapshot()
	assert.Equal(t, 2, snap.Value)
	assert.Equal(t, newer, snap.Seq)
}

func TestPollerOutOfOrderRefreshes(t *testing.T) {
	release := make(chan struct{})
	var calls atomic.Int32

	p := NewPoller("orders", time.Second, 0, func(ctx context.Context) (string, error) {
		if calls.Add(1) == 1 {
			<-release
			return "old", nil
		}
		return "new", nil
	}, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = p.Refresh(context.Background())
	}()

	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)
	require.NoError(t, p.Refresh(context.Background()))
	assert.Equal(t, "new", p.Snapshot().Value)

	close(release)
	wg.Wait()
	assert.Equal(t, "new", p.Snapshot().Value)
}

func TestPollerFailureKeepsLastGoodValue(t *testing.T) {
	fail := errors.New("connection refused")
	var broken atomic.Bool

	p := NewPoller("stock", time.Second, 0, func(context.Context) ([]string, error) {
		if broken.Load() {
			return nil, fail
		}
		return []string{"Tinta"}, nil
	}, nil)

	require.NoError(t, p.Refresh(context.Background()))
	fetchedAt := p.Snapshot().FetchedAt

	broken.Store(true)
	err := p.Refresh(context.Background())
	require.ErrorIs(t, err, fail)

	snap := p.Snapshot()
	assert.True(t, snap.Ready)
	assert.Equal(t, []string{"Tinta"}, snap.Value)
	assert.Equal(t, fetchedAt, snap.FetchedAt)
	require.NotNil(t, snap.Err)
	assert.ErrorIs(t, snap.Err, fail)
	assert.Equal(t, 1, snap.Failures)
	assert.Contains(t, p.Status().Error, "connection refused")

	broken.Store(false)
	require.NoError(t, p.Refresh(context.Background()))
	assert.Nil(t, p.Snapshot().Err)
	assert.Equal(t, 0, p.Snapshot().Failures)
}

func TestPollerFetchTimeout(t *testing.T) {
	p := NewPoller("slow", time.Second, 10*time.Millisecond, func(ctx context.Context) (int, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	}, nil)

	err := p.Refresh(context.Background())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, p.Snapshot().Ready)
	assert.Equal(t, 1, p.Snapshot().Failures)
}

func TestPollerRunFetchesImmediatelyAndOnTicks(t *testing.T) {
	var calls atomic.Int32
	p := NewPoller("ticks", 5*time.Millisecond, time.Second, func(context.Context) (int32, error) {
		return calls.Add(1), nil
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return p.Snapshot().Ready }, time.Second, time.Millisecond)
	require.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop")
	}
}

func TestPollerOnChange(t *testing.T) {
	p := NewPoller("cb", time.Second, 0, func(context.Context) (int, error) { return 7, nil }, nil)

	var got []int
	p.OnChange(func(s Snapshot[int]) { got = append(got, s.Value) })

	require.NoError(t, p.Refresh(context.Background()))
	require.NoError(t, p.Refresh(context.Background()))
	assert.Equal(t, []int{7, 7}, got)
}
