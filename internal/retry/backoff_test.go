package retry

import (
	"testing"
	"time"
)

func TestDelay_NoJitter(t *testing.T) {
	c := NewCalculator(BackoffConfig{
		BaseDelay:    1 * time.Second,
		MaxDelay:     30 * time.Second,
		GrowthFactor: 2,
		Jitter:       JitterNone,
	}, 1)

	expect := []time.Duration{
		1 * time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		16 * time.Second,
		30 * time.Second, // capped
		30 * time.Second,
	}
	for i, want := range expect {
		if got := c.Delay(i + 1); got != want {
			t.Errorf("Delay(%d) = %v, want %v", i+1, got, want)
		}
	}
}

func TestDelay_FullJitterBounds(t *testing.T) {
	c := NewCalculator(BackoffConfig{
		BaseDelay:    100 * time.Millisecond,
		MaxDelay:     2 * time.Second,
		GrowthFactor: 2,
		Jitter:       JitterFull,
	}, 42)

	for attempt := 1; attempt <= 10; attempt++ {
		capped := c.Capped(attempt)
		d := c.Delay(attempt)
		if d < 0 || d > capped {
			t.Errorf("Delay(%d) = %v, want in [0, %v]", attempt, d, capped)
		}
	}
}

func TestDelay_EqualJitterBounds(t *testing.T) {
	c := NewCalculator(BackoffConfig{
		BaseDelay:    100 * time.Millisecond,
		MaxDelay:     2 * time.Second,
		GrowthFactor: 2,
		Jitter:       JitterEqual,
	}, 42)

	for attempt := 1; attempt <= 10; attempt++ {
		capped := c.Capped(attempt)
		d := c.Delay(attempt)
		if d < capped/2 || d > capped {
			t.Errorf("Delay(%d) = %v, want in [%v, %v]", attempt, d, capped/2, capped)
		}
	}
}

func TestDelay_SeededReproducibility(t *testing.T) {
	cfg := BackoffConfig{
		BaseDelay:    50 * time.Millisecond,
		MaxDelay:     5 * time.Second,
		GrowthFactor: 2,
		Jitter:       JitterFull,
	}

	a := NewCalculator(cfg, 1234)
	b := NewCalculator(cfg, 1234)
	for attempt := 1; attempt <= 20; attempt++ {
		da, db := a.Delay(attempt), b.Delay(attempt)
		if da != db {
			t.Fatalf("attempt %d: same seed produced %v and %v", attempt, da, db)
		}
	}
}

func TestCapped_MonotonicUntilCap(t *testing.T) {
	c := NewCalculator(BackoffConfig{
		BaseDelay:    10 * time.Millisecond,
		MaxDelay:     10 * time.Second,
		GrowthFactor: 1.5,
		Jitter:       JitterNone,
	}, 1)

	prev := time.Duration(0)
	for attempt := 1; attempt <= 30; attempt++ {
		capped := c.Capped(attempt)
		if capped < prev {
			t.Fatalf("Capped(%d) = %v decreased from %v", attempt, capped, prev)
		}
		if capped > 10*time.Second {
			t.Fatalf("Capped(%d) = %v exceeds max", attempt, capped)
		}
		prev = capped
	}
}

func TestDelay_NeverExceedsMax(t *testing.T) {
	for _, jitter := range []JitterStrategy{JitterNone, JitterFull, JitterEqual} {
		c := NewCalculator(BackoffConfig{
			BaseDelay:    200 * time.Millisecond,
			MaxDelay:     1 * time.Second,
			GrowthFactor: 3,
			Jitter:       jitter,
		}, 7)
		for attempt := 1; attempt <= 15; attempt++ {
			if d := c.Delay(attempt); d > 1*time.Second {
				t.Errorf("jitter=%s Delay(%d) = %v exceeds max", jitter, attempt, d)
			}
		}
	}
}

func TestNewCalculator_DefaultsGrowthFactor(t *testing.T) {
	c := NewCalculator(BackoffConfig{
		BaseDelay: 1 * time.Second,
		MaxDelay:  10 * time.Second,
		Jitter:    JitterNone,
	}, 1)

	if got := c.Delay(2); got != 2*time.Second {
		t.Errorf("Delay(2) = %v, want 2s with default growth factor", got)
	}
}
