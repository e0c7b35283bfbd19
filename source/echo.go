package source

import (
	"context"
	"time"

	"github.com/pior/platypus"
)

// Echo returns a fixed template, rendered through placeholder
// substitution, as the value for any matching key. Useful for smoke
// tests and synthetic keys.
type Echo struct {
	MonitorConfig
	Template string
}

// NewEcho builds an Echo source with template, defaulting ttl/expiry.
func NewEcho(template string) *Echo {
	return &Echo{MonitorConfig: defaultMonitorConfig(), Template: template}
}

// WithTTL overrides the default ttl.
func (e *Echo) WithTTL(ttl time.Duration) *Echo {
	e.TTL = ttl
	return e
}

// WithExpiry overrides the default expiry.
func (e *Echo) WithExpiry(expiry time.Duration) *Echo {
	e.Expiry = expiry
	return e
}

// Call renders Template against the request's captures.
func (e *Echo) Call(ctx context.Context, req *platypus.Request) *platypus.Response {
	value := platypus.ReplacePlaceholders(e.Template, req.Captures())
	return platypus.NewResponse().
		WithTTL(e.TTL).
		WithExpiry(e.Expiry).
		WithValue(value)
}
