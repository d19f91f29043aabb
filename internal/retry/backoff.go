package retry

import (
	"math"
	"math/rand"
	"time"
)

// JitterStrategy selects how randomness is applied to a backoff delay.
type JitterStrategy string

const (
	// JitterNone disables jitter; the capped exponential delay is used as-is.
	JitterNone JitterStrategy = "none"
	// JitterFull draws uniformly from [0, capped] for maximum desynchronization.
	JitterFull JitterStrategy = "full"
	// JitterEqual keeps half the capped delay as a floor and randomizes the rest.
	JitterEqual JitterStrategy = "equal"
)

// Valid reports whether s is a recognized strategy.
func (s JitterStrategy) Valid() bool {
	switch s {
	case JitterNone, JitterFull, JitterEqual:
		return true
	}
	return false
}

// BackoffConfig defines backoff behavior.
type BackoffConfig struct {
	BaseDelay    time.Duration
	MaxDelay     time.Duration
	GrowthFactor float64
	Jitter       JitterStrategy
}

// DefaultBackoffConfig provides sensible defaults.
var DefaultBackoffConfig = BackoffConfig{
	BaseDelay:    1 * time.Second,
	MaxDelay:     30 * time.Second,
	GrowthFactor: 2.0,
	Jitter:       JitterEqual,
}

// Calculator produces backoff delays for retry attempts. The randomness
// source is seeded at construction so delay sequences are reproducible.
// A Calculator is not safe for concurrent use; each worker owns its own.
type Calculator struct {
	cfg BackoffConfig
	rng *rand.Rand
}

// NewCalculator creates a Calculator. seed = 0 derives a seed from the clock.
func NewCalculator(cfg BackoffConfig, seed int64) *Calculator {
	if cfg.GrowthFactor <= 1 {
		cfg.GrowthFactor = DefaultBackoffConfig.GrowthFactor
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Calculator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Delay returns the backoff delay after the given failed attempt (1-based).
// The result never exceeds MaxDelay.
func (c *Calculator) Delay(attempt int) time.Duration {
	capped := c.Capped(attempt)
	switch c.cfg.Jitter {
	case JitterFull:
		return time.Duration(c.rng.Int63n(int64(capped) + 1))
	case JitterEqual:
		half := capped / 2
		return half + time.Duration(c.rng.Int63n(int64(half)+1))
	default:
		return capped
	}
}

// Capped returns the pre-jitter delay: min(base * growth^(attempt-1), max).
func (c *Calculator) Capped(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	delay := float64(c.cfg.BaseDelay) * math.Pow(c.cfg.GrowthFactor, float64(attempt-1))
	if delay > float64(c.cfg.MaxDelay) {
		return c.cfg.MaxDelay
	}
	return time.Duration(delay)
}
