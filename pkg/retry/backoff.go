package retry

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/jzx17/goresilience/pkg/types"
)

// GrowthMode selects how the delay grows between attempts
type GrowthMode int

const (
	// GrowthConstant keeps the delay at the base delay
	GrowthConstant GrowthMode = iota
	// GrowthLinear multiplies the base delay by the attempt number
	GrowthLinear
	// GrowthExponential doubles the delay on every attempt
	GrowthExponential
)

// String returns the string representation of GrowthMode
func (g GrowthMode) String() string {
	switch g {
	case GrowthConstant:
		return "constant"
	case GrowthLinear:
		return "linear"
	case GrowthExponential:
		return "exponential"
	default:
		return "unknown"
	}
}

// ParseGrowthMode parses the name of a growth mode
func ParseGrowthMode(s string) (GrowthMode, error) {
	switch s {
	case "constant", "fixed":
		return GrowthConstant, nil
	case "linear":
		return GrowthLinear, nil
	case "exponential":
		return GrowthExponential, nil
	default:
		return GrowthConstant, fmt.Errorf("%w: unknown growth mode %q", types.ErrInvalidConfig, s)
	}
}

// Jitter bounds applied to a delay when jitter is enabled: ±25%.
const (
	jitterLow  = 0.75
	jitterSpan = 0.5
)

// Backoff configures the delay between retry attempts
type Backoff struct {
	// BaseDelay is the delay before the first retry
	BaseDelay time.Duration
	// MaxDelay caps the pre-jitter delay
	MaxDelay time.Duration
	// Growth selects the growth mode
	Growth GrowthMode
	// Jitter perturbs each delay by a uniform factor in [0.75, 1.25)
	Jitter bool
}

// Validate checks the backoff bounds
func (b Backoff) Validate() error {
	if b.BaseDelay <= 0 {
		return fmt.Errorf("%w: base delay must be positive, got %v", types.ErrInvalidConfig, b.BaseDelay)
	}
	if b.MaxDelay < b.BaseDelay {
		return fmt.Errorf("%w: max delay %v is below base delay %v", types.ErrInvalidConfig, b.MaxDelay, b.BaseDelay)
	}
	switch b.Growth {
	case GrowthConstant, GrowthLinear, GrowthExponential:
	default:
		return fmt.Errorf("%w: unknown growth mode %d", types.ErrInvalidConfig, b.Growth)
	}
	return nil
}

// RandFunc returns a uniformly distributed float in [0, 1)
type RandFunc func() float64

// Calculator computes retry delays. It holds no mutable state of its own;
// the random source is the only input besides the attempt number.
type Calculator struct {
	backoff Backoff
	random  RandFunc
}

// CalculatorOption configures a Calculator
type CalculatorOption func(*Calculator)

// WithRandom sets the random source used for jitter. The source must be
// safe for concurrent use if the calculator is shared.
func WithRandom(random RandFunc) CalculatorOption {
	return func(c *Calculator) {
		if random != nil {
			c.random = random
		}
	}
}

// WithRandSource uses r as the jitter source. r is not safe for concurrent
// use, so this is meant for tests and single-goroutine callers.
func WithRandSource(r *rand.Rand) CalculatorOption {
	return WithRandom(r.Float64)
}

// NewCalculator creates a calculator for b
func NewCalculator(b Backoff, opts ...CalculatorOption) *Calculator {
	c := &Calculator{
		backoff: b,
		random:  rand.Float64,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Backoff returns the calculator's configuration
func (c *Calculator) Backoff() Backoff {
	return c.backoff
}

// Delay returns the wait before retrying after attempt n (1-based)
func (c *Calculator) Delay(n int) time.Duration {
	delay := c.BaseDelay(n)
	if !c.backoff.Jitter {
		return delay
	}
	factor := jitterLow + jitterSpan*c.random()
	jittered := float64(delay) * factor
	if jittered >= math.MaxInt64 {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(jittered)
}

// BaseDelay returns the clamped delay for attempt n before jitter
func (c *Calculator) BaseDelay(n int) time.Duration {
	if n < 1 {
		n = 1
	}

	base := float64(c.backoff.BaseDelay)
	var delay float64
	switch c.backoff.Growth {
	case GrowthLinear:
		delay = base * float64(n)
	case GrowthExponential:
		delay = base * math.Pow(2, float64(n-1))
	default:
		delay = base
	}

	// limit maximum delay; also guards the float to Duration conversion
	if delay >= float64(c.backoff.MaxDelay) || math.IsInf(delay, 0) {
		return c.backoff.MaxDelay
	}
	return time.Duration(delay)
}
