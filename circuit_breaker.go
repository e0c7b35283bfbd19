package platypus

import (
	"time"

	"github.com/pior/platypus/meta"
	"github.com/sony/gobreaker/v2"
)

// CircuitBreaker wraps circuit breaker functionality so it can be
// swapped or stubbed independently of gobreaker.
type CircuitBreaker interface {
	Execute(func() (*meta.Response, error)) (*meta.Response, error)
	State() CircuitBreakerState
}

// CircuitBreakerState mirrors gobreaker's three states.
type CircuitBreakerState int

const (
	CircuitStateClosed CircuitBreakerState = iota
	CircuitStateHalfOpen
	CircuitStateOpen
)

func (s CircuitBreakerState) String() string {
	switch s {
	case CircuitStateClosed:
		return "closed"
	case CircuitStateHalfOpen:
		return "half-open"
	case CircuitStateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// GoBreakerWrapper adapts gobreaker.CircuitBreaker to CircuitBreaker.
type GoBreakerWrapper struct {
	cb *gobreaker.CircuitBreaker[*meta.Response]
}

func (w *GoBreakerWrapper) Execute(fn func() (*meta.Response, error)) (*meta.Response, error) {
	return w.cb.Execute(fn)
}

func (w *GoBreakerWrapper) State() CircuitBreakerState {
	switch w.cb.State() {
	case gobreaker.StateClosed:
		return CircuitStateClosed
	case gobreaker.StateHalfOpen:
		return CircuitStateHalfOpen
	case gobreaker.StateOpen:
		return CircuitStateOpen
	default:
		return CircuitStateClosed
	}
}

// NewGoBreaker wraps a configured gobreaker.CircuitBreaker.
func NewGoBreaker(settings gobreaker.Settings) CircuitBreaker {
	return &GoBreakerWrapper{cb: gobreaker.NewCircuitBreaker[*meta.Response](settings)}
}

// NewWarmTierBreaker builds the circuit breaker guarding writes to the
// single warm-tier target, tripping once at least 3 requests have been
// seen and 60% of them failed.
func NewWarmTierBreaker(target string, maxRequests uint32, interval, timeout time.Duration) CircuitBreaker {
	settings := gobreaker.Settings{
		Name:        target,
		MaxRequests: maxRequests,
		Interval:    interval,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
	}
	return NewGoBreaker(settings)
}
