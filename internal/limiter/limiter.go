package limiter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// StatusError is a structured upstream failure carrying the HTTP status the
// provider answered with. The limiter's retry policy keys on it, and the
// pipeline maps it to a client-facing status code.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream status %d: %s", e.StatusCode, e.Message)
}

// Config tunes one Limiter instance for one upstream provider.
type Config struct {
	// Concurrency is the max number of in-flight calls.
	Concurrency int
	// MinInterval is the minimum spacing between call admissions.
	MinInterval time.Duration
	// MaxRetries is how many ADDITIONAL attempts are made after a 429.
	MaxRetries int
	// RetryBase is the first backoff delay, doubled on every retry.
	RetryBase time.Duration
}

// Limiter is the single choke point for one upstream provider. Every archive
// and catalog request goes through Do; nothing else in the process talks to
// those hosts, so the spacing and concurrency bounds hold globally.
type Limiter struct {
	cfg   Config
	slots chan struct{}

	mu   sync.Mutex
	next time.Time
}

func New(cfg Config) *Limiter {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryBase <= 0 {
		cfg.RetryBase = time.Second
	}
	return &Limiter{
		cfg:   cfg,
		slots: make(chan struct{}, cfg.Concurrency),
	}
}

// Do admits the call once a concurrency slot and the inter-request spacing
// allow it, then runs it. A *StatusError with code 429 triggers the retry
// cycle: up to MaxRetries more attempts of the SAME call, backoff starting
// at RetryBase and doubling. After exhaustion the 429 propagates unchanged.
// Every other error propagates immediately.
func (l *Limiter) Do(ctx context.Context, call func(ctx context.Context) error) error {
	select {
	case l.slots <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-l.slots }()

	backoff := l.cfg.RetryBase
	var err error
	for attempt := 0; ; attempt++ {
		if werr := l.waitTurn(ctx); werr != nil {
			return werr
		}
		err = call(ctx)
		if !isTooManyRequests(err) || attempt >= l.cfg.MaxRetries {
			return err
		}
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return ctx.Err()
		}
		backoff *= 2
	}
}

// waitTurn reserves the next admission tick. Reservations are handed out
// under the mutex so concurrent callers queue up MinInterval apart even
// before any of them starts sleeping.
func (l *Limiter) waitTurn(ctx context.Context) error {
	l.mu.Lock()
	now := time.Now()
	at := l.next
	if at.Before(now) {
		at = now
	}
	l.next = at.Add(l.cfg.MinInterval)
	l.mu.Unlock()

	d := time.Until(at)
	if d <= 0 {
		return nil
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func isTooManyRequests(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusTooManyRequests
}
