package backend

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/FrenchMajesty/agrilens/internal/retry"
)

// RequestIDHeader carries the per-call correlation ID
const RequestIDHeader = "X-Request-ID"

// TokenSource supplies the bearer token for authenticated calls
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a function to TokenSource
type TokenFunc func() string

// Token implements TokenSource
func (f TokenFunc) Token() string {
	return f()
}

// WithAuth attaches "Authorization: Bearer <token>" when the source has a
// token. A request that already carries an Authorization header is left alone.
func WithAuth(src TokenSource) Middleware {
	return func(next Doer) Doer {
		return DoerFunc(func(ctx context.Context, req *Request) (*Response, error) {
			if src != nil && req.Header.Get("Authorization") == "" {
				if token := src.Token(); token != "" {
					req = withHeader(req, "Authorization", "Bearer "+token)
				}
			}
			return next.Do(ctx, req)
		})
	}
}

// WithUnauthorized invokes onUnauthorized whenever the backend answers 401,
// then returns the response and error unchanged.
func WithUnauthorized(onUnauthorized func(ctx context.Context)) Middleware {
	return func(next Doer) Doer {
		return DoerFunc(func(ctx context.Context, req *Request) (*Response, error) {
			resp, err := next.Do(ctx, req)
			if onUnauthorized != nil && errors.Is(err, ErrUnauthorized) {
				onUnauthorized(ctx)
			}
			return resp, err
		})
	}
}

// WithRequestID stamps a fresh UUID on requests that do not already carry one
func WithRequestID() Middleware {
	return func(next Doer) Doer {
		return DoerFunc(func(ctx context.Context, req *Request) (*Response, error) {
			if req.Header.Get(RequestIDHeader) == "" {
				req = withHeader(req, RequestIDHeader, uuid.NewString())
			}
			return next.Do(ctx, req)
		})
	}
}

// WithRetry retries transport failures, 429 and 5xx responses with
// exponential backoff. Exhaustion yields a *retry.RetryExhaustedError that
// wraps the last failure.
func WithRetry(cfg retry.Config, logger *zap.Logger) Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	sugar := logger.Sugar()

	return func(next Doer) Doer {
		return DoerFunc(func(ctx context.Context, req *Request) (*Response, error) {
			opts := retry.Options{
				Config:      cfg,
				ShouldRetry: shouldRetry(ctx),
				Logger:      sugar.Infof,
				Operation:   req.Method + " " + req.Path,
			}
			return retry.Execute(ctx, opts, func(attempt int) (*Response, retry.Outcome) {
				resp, err := next.Do(ctx, req)
				outcome := retry.Outcome{Err: err}
				if resp != nil {
					outcome.StatusCode = resp.StatusCode
				}
				return resp, outcome
			})
		})
	}
}

func shouldRetry(ctx context.Context) retry.ShouldRetry {
	return func(o retry.Outcome) bool {
		if o.Err == nil || ctx.Err() != nil {
			return false
		}
		if errors.Is(o.Err, context.Canceled) || errors.Is(o.Err, context.DeadlineExceeded) {
			return false
		}
		switch {
		case o.StatusCode == 0:
			// transport failure, no response
			return true
		case o.StatusCode == http.StatusTooManyRequests:
			return true
		case o.StatusCode >= 500:
			return true
		}
		return false
	}
}

// WithLogging logs every call with its outcome and latency
func WithLogging(logger *zap.Logger) Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(next Doer) Doer {
		return DoerFunc(func(ctx context.Context, req *Request) (*Response, error) {
			start := time.Now()
			resp, err := next.Do(ctx, req)

			fields := []zap.Field{
				zap.String("method", req.Method),
				zap.String("path", req.Path),
				zap.Duration("duration", time.Since(start)),
			}
			if id := req.Header.Get(RequestIDHeader); id != "" {
				fields = append(fields, zap.String("request_id", id))
			}
			if resp != nil {
				fields = append(fields, zap.Int("status", resp.StatusCode))
			}

			if err != nil {
				logger.Warn("backend request failed", append(fields, zap.Error(err))...)
			} else {
				logger.Debug("backend request", fields...)
			}
			return resp, err
		})
	}
}

// withHeader returns a shallow copy of req with key set, leaving the
// caller's header map untouched.
func withHeader(req *Request, key, value string) *Request {
	clone := *req
	clone.Header = req.Header.Clone()
	if clone.Header == nil {
		clone.Header = make(http.Header)
	}
	clone.Header.Set(key, value)
	return &clone
}
