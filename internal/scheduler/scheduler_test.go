package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tripmate/internal/ranking"
)

type fakeRefresher struct {
	calls chan struct{}
	err   error
}

func (f *fakeRefresher) Refresh(context.Context) (*ranking.RefreshResult, error) {
	f.calls <- struct{}{}
	if f.err != nil {
		return nil, f.err
	}
	return &ranking.RefreshResult{Source: ranking.SourceFallback, Count: 20}, nil
}

func TestStartRejectsInvalidCronExpression(t *testing.T) {
	s := NewScheduler("every monday", &fakeRefresher{calls: make(chan struct{}, 1)})
	require.Error(t, s.Start())
}

func TestRefreshJobRuns(t *testing.T) {
	f := &fakeRefresher{calls: make(chan struct{}, 2)}
	s := NewScheduler("0 4 * * 1", f)

	s.refreshRankings()
	f.err = errors.New("db down")
	s.refreshRankings()
	require.Len(t, f.calls, 2)

	require.NoError(t, s.Start())
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}

type blockingRefresher struct {
	started  chan struct{}
	finished chan error
}

func (b *blockingRefresher) Refresh(ctx context.Context) (*ranking.RefreshResult, error) {
	close(b.started)
	<-ctx.Done()
	b.finished <- ctx.Err()
	return nil, ctx.Err()
}

func TestStopCancelsRunningRefresh(t *testing.T) {
	b := &blockingRefresher{started: make(chan struct{}), finished: make(chan error, 1)}
	s := NewScheduler("0 4 * * 1", b)
	require.NoError(t, s.Start())

	go s.refreshRankings()
	<-b.started

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)

	select {
	case err := <-b.finished:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("갱신 작업이 취소되지 않았습니다")
	}
}
