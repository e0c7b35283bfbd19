package platypus

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/pior/platypus/meta"
)

// WarmTierClient is the synchronous client the Writer uses to populate
// the warm-tier memcached. It pools connections with puddle and guards
// writes with a circuit breaker, reconnecting lazily through the pool's
// constructor whenever a connection is found broken.
type WarmTierClient struct {
	target  string
	pool    Pool
	breaker CircuitBreaker
	dialer  net.Dialer
}

// WarmTierConfig configures NewWarmTierClient.
type WarmTierConfig struct {
	Target         string
	MaxConns       int32
	DialTimeout    time.Duration
	BreakerTimeout time.Duration
}

// NewWarmTierClient builds a pooled, circuit-broken client for target.
func NewWarmTierClient(cfg WarmTierConfig) (*WarmTierClient, error) {
	if cfg.MaxConns <= 0 {
		cfg.MaxConns = 8
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 2 * time.Second
	}
	if cfg.BreakerTimeout <= 0 {
		cfg.BreakerTimeout = 10 * time.Second
	}

	c := &WarmTierClient{
		target:  cfg.Target,
		dialer:  net.Dialer{Timeout: cfg.DialTimeout},
		breaker: NewWarmTierBreaker(cfg.Target, 4, time.Minute, cfg.BreakerTimeout),
	}

	pool, err := NewPuddlePool(c.dial, cfg.MaxConns)
	if err != nil {
		return nil, fmt.Errorf("building warm tier pool: %w", err)
	}
	c.pool = pool
	return c, nil
}

func (c *WarmTierClient) dial(ctx context.Context) (*Connection, error) {
	conn, err := c.dialer.DialContext(ctx, "tcp", c.target)
	if err != nil {
		return nil, fmt.Errorf("dialing warm tier %s: %w", c.target, err)
	}
	return NewConnection(conn), nil
}

// Set stores value under key in the warm tier with the given TTL,
// through the circuit breaker.
func (c *WarmTierClient) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	res, err := c.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquiring warm tier connection: %w", err)
	}

	req := meta.NewRequest(meta.CmdSet, key, value, meta.Flag{
		Type:  meta.FlagTTL,
		Token: fmt.Sprintf("%d", int64(ttl.Seconds())),
	})

	resp, err := c.breaker.Execute(func() (*meta.Response, error) {
		return res.Value().Send(req)
	})
	if err != nil {
		res.Destroy()
		return fmt.Errorf("writing to warm tier: %w", err)
	}

	res.Release()

	if resp.HasError() {
		return fmt.Errorf("warm tier rejected write: %w", resp.Error)
	}
	return nil
}

// Stats returns the underlying pool's statistics.
func (c *WarmTierClient) Stats() PoolStats { return c.pool.Stats() }

// BreakerState returns the circuit breaker's current state.
func (c *WarmTierClient) BreakerState() CircuitBreakerState { return c.breaker.State() }

// Close releases pooled connections.
func (c *WarmTierClient) Close() { c.pool.Close() }
