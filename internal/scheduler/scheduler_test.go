package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/elonfeng/aidigest/internal/pipeline"
	"go.uber.org/zap/zaptest"
)

type countingRunner struct {
	calls atomic.Int32
	err   error
}

func (r *countingRunner) Run(ctx context.Context) (*pipeline.Report, error) {
	r.calls.Add(1)
	if r.err != nil {
		return &pipeline.Report{}, r.err
	}
	return &pipeline.Report{Sent: true}, nil
}

func TestSchedulerRunsImmediately(t *testing.T) {
	r := &countingRunner{}
	s := New(r, time.Hour, zaptest.NewLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	deadline := time.Now().Add(5 * time.Second)
	for r.calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if got := r.calls.Load(); got != 1 {
		t.Errorf("expected exactly 1 run, got %d", got)
	}
}

func TestSchedulerKeepsGoingAfterFailure(t *testing.T) {
	r := &countingRunner{err: errors.New("smtp down")}
	s := New(r, 10*time.Millisecond, zaptest.NewLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	deadline := time.Now().Add(5 * time.Second)
	for r.calls.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	<-done

	if got := r.calls.Load(); got < 3 {
		t.Errorf("expected repeated runs despite failures, got %d", got)
	}
}
