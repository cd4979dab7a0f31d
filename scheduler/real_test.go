package scheduler_test

import (
	"context"
	"testing"
	"time"

	"github.com/tapline-dev/tapline/scheduler"
)

func TestRealScheduler_Sleep(t *testing.T) {
	s := scheduler.NewRealScheduler()
	start := time.Now()
	if err := s.Sleep(context.Background(), 20*time.Millisecond); err != nil {
		t.Fatalf("Sleep returned error: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 15*time.Millisecond {
		t.Errorf("Sleep returned too early: %v", elapsed)
	}
}

func TestRealScheduler_SleepCanceled(t *testing.T) {
	s := scheduler.NewRealScheduler()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Sleep(ctx, time.Second); err == nil {
		t.Fatal("expected error from canceled context")
	}
}

func TestRealScheduler_Spawn(t *testing.T) {
	s := scheduler.NewRealScheduler()
	done := make(chan struct{})
	s.Spawn(func() { close(done) })
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("spawned function did not run")
	}
}
