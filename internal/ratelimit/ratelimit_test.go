package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fakeClock drives a Limiter without real waits. Sleeping advances the clock.
type fakeClock struct {
	current time.Time
	slept   []time.Duration
}

func (c *fakeClock) now() time.Time { return c.current }

func (c *fakeClock) sleep(_ context.Context, d time.Duration) error {
	c.slept = append(c.slept, d)
	c.current = c.current.Add(d)
	return nil
}

func newFakeClock() *fakeClock {
	return &fakeClock{current: time.Date(2025, 12, 4, 10, 0, 0, 0, time.UTC)}
}

func TestLimiter_FirstWaitIsImmediate(t *testing.T) {
	clock := newFakeClock()
	l := New(4100*time.Millisecond, WithClock(clock.now, clock.sleep))

	if err := l.Wait(t.Context()); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}

	if len(clock.slept) != 0 {
		t.Errorf("first Wait() should not sleep, slept %v", clock.slept)
	}
}

func TestLimiter_PacesConsecutiveWaits(t *testing.T) {
	clock := newFakeClock()
	interval := 4100 * time.Millisecond
	l := New(interval, WithClock(clock.now, clock.sleep))

	// Three acquisitions back to back: only the second and third wait.
	for i := 0; i < 3; i++ {
		if err := l.Wait(t.Context()); err != nil {
			t.Fatalf("Wait() #%d error = %v", i+1, err)
		}
	}

	if len(clock.slept) != 2 {
		t.Fatalf("expected 2 sleeps for 3 waits, got %d: %v", len(clock.slept), clock.slept)
	}
	for i, d := range clock.slept {
		if d != interval {
			t.Errorf("sleep #%d = %v, want %v", i+1, d, interval)
		}
	}
}

func TestLimiter_SleepsOnlyRemainder(t *testing.T) {
	clock := newFakeClock()
	l := New(4*time.Second, WithClock(clock.now, clock.sleep))

	if err := l.Wait(t.Context()); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}

	// A second of work happened between acquisitions.
	clock.current = clock.current.Add(1 * time.Second)

	if err := l.Wait(t.Context()); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}

	if len(clock.slept) != 1 || clock.slept[0] != 3*time.Second {
		t.Errorf("slept %v, want [3s]", clock.slept)
	}
}

func TestLimiter_NoSleepWhenIntervalElapsed(t *testing.T) {
	clock := newFakeClock()
	l := New(2*time.Second, WithClock(clock.now, clock.sleep))

	if err := l.Wait(t.Context()); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}

	clock.current = clock.current.Add(5 * time.Second)

	if err := l.Wait(t.Context()); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}

	if len(clock.slept) != 0 {
		t.Errorf("should not sleep after interval already elapsed, slept %v", clock.slept)
	}
}

func TestLimiter_ZeroIntervalNeverSleeps(t *testing.T) {
	clock := newFakeClock()
	l := New(0, WithClock(clock.now, clock.sleep))

	for i := 0; i < 5; i++ {
		if err := l.Wait(t.Context()); err != nil {
			t.Fatalf("Wait() error = %v", err)
		}
	}

	if len(clock.slept) != 0 {
		t.Errorf("zero interval should never sleep, slept %v", clock.slept)
	}
}

func TestLimiter_CancelledContext(t *testing.T) {
	l := New(10 * time.Second)

	if err := l.Wait(t.Context()); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	err := l.Wait(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Wait() with cancelled context = %v, want context.Canceled", err)
	}
}
