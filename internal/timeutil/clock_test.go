package timeutil

import (
	"testing"
	"time"
)

func TestRealClock_Now(t *testing.T) {
	clock := RealClock{}
	before := time.Now()
	now := clock.Now()
	after := time.Now()

	if now.Before(before) || now.After(after) {
		t.Errorf("RealClock.Now() = %v, want between %v and %v", now, before, after)
	}
}

func TestRealClock_Since(t *testing.T) {
	clock := RealClock{}
	start := time.Now().Add(-time.Second)
	if d := clock.Since(start); d < time.Second {
		t.Errorf("RealClock.Since() = %v, want >= 1s", d)
	}
}

func TestMockClock_Now(t *testing.T) {
	start := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := NewMockClock(start)

	if got := clock.Now(); !got.Equal(start) {
		t.Errorf("MockClock.Now() = %v, want %v", got, start)
	}
	if got := clock.Now(); !got.Equal(start) {
		t.Errorf("MockClock.Now() without step moved to %v", got)
	}
}

func TestMockClock_SetAndAdvance(t *testing.T) {
	clock := NewMockClock(time.Time{})
	target := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	clock.Set(target)
	clock.Advance(90 * time.Second)

	want := target.Add(90 * time.Second)
	if got := clock.Now(); !got.Equal(want) {
		t.Errorf("MockClock.Now() = %v, want %v", got, want)
	}
	if got := clock.Since(target); got != 90*time.Second {
		t.Errorf("MockClock.Since() = %v, want 90s", got)
	}
}

func TestMockClock_Step(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := NewMockClock(start)
	clock.SetStep(10 * time.Millisecond)

	first := clock.Now()
	second := clock.Now()
	if d := second.Sub(first); d != 10*time.Millisecond {
		t.Errorf("step = %v, want 10ms", d)
	}
	if d := clock.Since(start); d != 20*time.Millisecond {
		t.Errorf("MockClock.Since() = %v, want 20ms", d)
	}
}
