package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastConfig(maxRetries int) Config {
	return Config{
		MaxRetries:      maxRetries,
		BaseDelay:       time.Millisecond,
		MaxDelay:        5 * time.Millisecond,
		BackoffMultiple: 2.0,
	}
}

func retryOnError(o Outcome) bool {
	return o.Err != nil && o.StatusCode != 400
}

func TestDelay(t *testing.T) {
	c := DefaultConfig()

	if d := c.Delay(0); d != 200*time.Millisecond {
		t.Errorf("Expected 200ms for first retry, got %v", d)
	}
	if d := c.Delay(1); d != 400*time.Millisecond {
		t.Errorf("Expected 400ms for second retry, got %v", d)
	}
	if d := c.Delay(10); d != 5*time.Second {
		t.Errorf("Expected delay capped at 5s, got %v", d)
	}
}

func TestExecute_SucceedsFirstAttempt(t *testing.T) {
	calls := 0
	got, err := Execute(context.Background(), Options{Config: fastConfig(3), ShouldRetry: retryOnError}, func(attempt int) (string, Outcome) {
		calls++
		return "ok", Outcome{StatusCode: 200}
	})

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if got != "ok" {
		t.Errorf("Expected result ok, got %q", got)
	}
	if calls != 1 {
		t.Errorf("Expected 1 call, got %d", calls)
	}
}

func TestExecute_RetriesThenSucceeds(t *testing.T) {
	var logged int
	opts := Options{
		Config:      fastConfig(3),
		ShouldRetry: retryOnError,
		Logger:      func(string, ...interface{}) { logged++ },
		Operation:   "GET /api/v1/farms",
	}

	got, err := Execute(context.Background(), opts, func(attempt int) (int, Outcome) {
		if attempt < 2 {
			return 0, Outcome{StatusCode: 503, Err: errors.New("unavailable")}
		}
		return attempt, Outcome{StatusCode: 200}
	})

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if got != 2 {
		t.Errorf("Expected result from third attempt, got %d", got)
	}
	if logged == 0 {
		t.Error("Expected retry attempts to be logged")
	}
}

func TestExecute_NonRetryableReturnsImmediately(t *testing.T) {
	calls := 0
	wantErr := errors.New("bad request")
	_, err := Execute(context.Background(), Options{Config: fastConfig(3), ShouldRetry: retryOnError}, func(attempt int) (struct{}, Outcome) {
		calls++
		return struct{}{}, Outcome{StatusCode: 400, Err: wantErr}
	})

	if !errors.Is(err, wantErr) {
		t.Errorf("Expected original error, got: %v", err)
	}
	if calls != 1 {
		t.Errorf("Expected 1 call, got %d", calls)
	}
}

func TestExecute_Exhausted(t *testing.T) {
	calls := 0
	cause := errors.New("connection refused")
	_, err := Execute(context.Background(), Options{Config: fastConfig(2), ShouldRetry: retryOnError, Operation: "op"}, func(attempt int) (int, Outcome) {
		calls++
		return 0, Outcome{Err: cause}
	})

	var exhausted *RetryExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("Expected RetryExhaustedError, got: %v", err)
	}
	if exhausted.MaxAttempts != 3 {
		t.Errorf("Expected 3 max attempts, got %d", exhausted.MaxAttempts)
	}
	if !errors.Is(err, cause) {
		t.Error("Expected exhausted error to wrap the last cause")
	}
	if calls != 3 {
		t.Errorf("Expected 3 calls, got %d", calls)
	}
}

func TestExecute_ContextCancelledDuringDelay(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := Config{MaxRetries: 3, BaseDelay: time.Hour, MaxDelay: time.Hour, BackoffMultiple: 1}

	_, err := Execute(ctx, Options{Config: cfg, ShouldRetry: retryOnError}, func(attempt int) (int, Outcome) {
		cancel()
		return 0, Outcome{Err: errors.New("timeout")}
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got: %v", err)
	}
}
