package retry

import (
	"context"
	"fmt"
	"math"
	"time"
)

// Config holds the configuration for retry logic
type Config struct {
	MaxRetries      int           `yaml:"max_retries"`
	BaseDelay       time.Duration `yaml:"base_delay"`
	MaxDelay        time.Duration `yaml:"max_delay"`
	BackoffMultiple float64       `yaml:"backoff_multiple"`
}

// DefaultConfig returns the retry policy used for backend calls
func DefaultConfig() Config {
	return Config{
		MaxRetries:      3,
		BaseDelay:       200 * time.Millisecond,
		MaxDelay:        5 * time.Second,
		BackoffMultiple: 2.0,
	}
}

// Outcome is what a single attempt reports back to the retry loop
type Outcome struct {
	StatusCode int
	Err        error
}

// ShouldRetry decides whether an attempt's outcome is transient
type ShouldRetry func(o Outcome) bool

// Logger receives printf-style progress messages
type Logger func(template string, args ...interface{})

// Options configures retry behavior
type Options struct {
	Config      Config
	ShouldRetry ShouldRetry
	Logger      Logger
	Operation   string
}

// Delay computes the backoff before retry number attempt (0-based)
func (c Config) Delay(attempt int) time.Duration {
	multiple := c.BackoffMultiple
	if multiple <= 0 {
		multiple = 1
	}
	delay := time.Duration(float64(c.BaseDelay) * math.Pow(multiple, float64(attempt)))
	if c.MaxDelay > 0 && delay > c.MaxDelay {
		delay = c.MaxDelay
	}
	return delay
}

// Execute runs fn until it succeeds, returns a non-retryable outcome, the
// attempts are used up or ctx is cancelled. The last attempt's result is returned.
func Execute[T any](ctx context.Context, opts Options, fn func(attempt int) (T, Outcome)) (T, error) {
	var zero T
	var last Outcome

	for attempt := 0; attempt <= opts.Config.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := opts.Config.Delay(attempt - 1)
			opts.logf("%s retry attempt %d/%d after %v delay", opts.Operation, attempt+1, opts.Config.MaxRetries+1, delay)

			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(delay):
			}
		}

		result, outcome := fn(attempt)
		last = outcome

		retryable := opts.ShouldRetry != nil && opts.ShouldRetry(outcome)
		if retryable && attempt < opts.Config.MaxRetries {
			if outcome.Err != nil {
				opts.logf("%s failed (attempt %d/%d): %v", opts.Operation, attempt+1, opts.Config.MaxRetries+1, outcome.Err)
			} else {
				opts.logf("%s retryable status %d (attempt %d/%d)", opts.Operation, outcome.StatusCode, attempt+1, opts.Config.MaxRetries+1)
			}
			continue
		}

		if outcome.Err == nil {
			if attempt > 0 {
				opts.logf("%s succeeded on attempt %d/%d", opts.Operation, attempt+1, opts.Config.MaxRetries+1)
			}
			return result, nil
		}

		if !retryable {
			return result, outcome.Err
		}
		break
	}

	return zero, &RetryExhaustedError{
		Operation:      opts.Operation,
		MaxAttempts:    opts.Config.MaxRetries + 1,
		LastStatusCode: last.StatusCode,
		Err:            last.Err,
	}
}

func (o Options) logf(template string, args ...interface{}) {
	if o.Logger != nil {
		o.Logger(template, args...)
	}
}

// RetryExhaustedError is returned when every attempt failed with a retryable outcome
type RetryExhaustedError struct {
	Operation      string
	MaxAttempts    int
	LastStatusCode int
	Err            error
}

func (e *RetryExhaustedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: retry attempts exhausted after %d tries: %v", e.Operation, e.MaxAttempts, e.Err)
	}
	return fmt.Sprintf("%s: retry attempts exhausted after %d tries", e.Operation, e.MaxAttempts)
}

func (e *RetryExhaustedError) Unwrap() error {
	return e.Err
}
