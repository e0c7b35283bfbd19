package platypus

import "time"

// Response is what a Source returns for a Request: an optional value
// plus the caching policy the refresh engine should apply to it.
type Response struct {
	value     string
	hasValue  bool
	ttl       time.Duration
	expiry    time.Duration
	updatedAt time.Time
}

// NewResponse builds an empty Response with zero ttl/expiry.
func NewResponse() *Response {
	return &Response{updatedAt: time.Now()}
}

// WithValue returns a copy of r with value set and updatedAt refreshed.
func (r *Response) WithValue(value string) *Response {
	n := *r
	n.value = value
	n.hasValue = true
	n.updatedAt = time.Now()
	return &n
}

// Value returns the cached value, if any.
func (r *Response) Value() (string, bool) { return r.value, r.hasValue }

// WithTTL returns a copy of r with ttl set. TTL is how long the warm
// tier should keep the value; the refresh engine refreshes the value
// once half of it has elapsed.
func (r *Response) WithTTL(ttl time.Duration) *Response {
	n := *r
	n.ttl = ttl
	return &n
}

// TTL returns the configured downstream cache duration.
func (r *Response) TTL() time.Duration { return r.ttl }

// WithExpiry returns a copy of r with expiry set. Expiry bounds how long
// the refresh engine keeps refreshing this key after its last touch.
func (r *Response) WithExpiry(expiry time.Duration) *Response {
	n := *r
	n.expiry = expiry
	return &n
}

// Expiry returns the configured task liveness window.
func (r *Response) Expiry() time.Duration { return r.expiry }

// UpdatedAt returns when the value was last set.
func (r *Response) UpdatedAt() time.Time { return r.updatedAt }
