package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestTickerSchedulerRunsImmediatelyAndRepeats(t *testing.T) {
	t.Parallel()

	var runs atomic.Int32
	s := NewTickerScheduler(5 * time.Millisecond)
	if err := s.Start(context.Background(), func(time.Time) { runs.Add(1) }); err != nil {
		t.Fatalf("start: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for runs.Load() < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("job ran %d times, want at least 3", runs.Load())
		}
		time.Sleep(time.Millisecond)
	}

	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}
	after := runs.Load()
	time.Sleep(20 * time.Millisecond)
	if runs.Load() != after {
		t.Fatalf("job kept running after stop")
	}
}

func TestTickerSchedulerSingleRunWithoutInterval(t *testing.T) {
	t.Parallel()

	ran := make(chan struct{}, 2)
	s := NewTickerScheduler(0)
	if err := s.Start(context.Background(), func(time.Time) { ran <- struct{}{} }); err != nil {
		t.Fatalf("start: %v", err)
	}

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatalf("job did not run")
	}
	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if len(ran) != 0 {
		t.Fatalf("job ran more than once")
	}
}

func TestTickerSchedulerStopWithoutStart(t *testing.T) {
	t.Parallel()

	if err := NewTickerScheduler(time.Second).Stop(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}
}
