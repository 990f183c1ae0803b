package geocode

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

type breakerState int

const (
	breakerClosed breakerState = iota
	breakerOpen
	breakerHalfOpen
)

// breaker shields a flaky remote provider. After failureThreshold
// consecutive transport failures it opens and sends every query straight to
// the fallback until resetTimeout passes, then lets one probe through.
// ErrUnresolved is a successful resolution attempt and never trips it.
type breaker struct {
	inner    Provider
	fallback Provider

	failureThreshold int
	resetTimeout     time.Duration
	now              func() time.Time

	mu          sync.Mutex
	state       breakerState
	failures    int
	lastFailure time.Time
}

// WithBreaker wraps a remote provider with a circuit breaker that degrades
// to the fallback provider while the remote is down.
func WithBreaker(inner, fallback Provider, failureThreshold int, resetTimeout time.Duration) Provider {
	if failureThreshold <= 0 {
		failureThreshold = 5
	}
	if resetTimeout <= 0 {
		resetTimeout = 30 * time.Second
	}
	return &breaker{
		inner:            inner,
		fallback:         fallback,
		failureThreshold: failureThreshold,
		resetTimeout:     resetTimeout,
		now:              time.Now,
	}
}

func (b *breaker) Resolve(ctx context.Context, q Query) (Coordinate, error) {
	if !b.allow() {
		return b.fallback.Resolve(ctx, q)
	}

	coord, err := b.inner.Resolve(ctx, q)
	b.record(err)
	if err != nil && err != ErrUnresolved {
		return b.fallback.Resolve(ctx, q)
	}
	return coord, err
}

func (b *breaker) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case breakerOpen:
		if b.now().Sub(b.lastFailure) >= b.resetTimeout {
			b.state = breakerHalfOpen
			return true
		}
		return false
	default:
		return true
	}
}

func (b *breaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err == nil || err == ErrUnresolved {
		if b.state != breakerClosed {
			zap.L().Info("geocode provider recovered, circuit closed")
		}
		b.state = breakerClosed
		b.failures = 0
		return
	}

	b.failures++
	b.lastFailure = b.now()
	if b.state == breakerHalfOpen || b.failures >= b.failureThreshold {
		if b.state != breakerOpen {
			zap.L().Warn("geocode provider circuit opened",
				zap.Int("consecutive_failures", b.failures))
		}
		b.state = breakerOpen
	}
}
