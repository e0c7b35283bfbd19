// Package engine implements the per-key refresh engine: a sharded table
// of monitor tasks that fetch values from a source, keep them warm ahead
// of expiry, and evict least-recently-used entries once a byte budget is
// exceeded.
package engine

import (
	"time"

	"github.com/pior/platypus"
)

// task is the per-key refresh state held by the engine. It mirrors the
// original implementation's MonitorTask: a request/source pair, the last
// response observed, and the liveness bookkeeping used for eviction.
type task struct {
	key       string
	request   *platypus.Request
	source    platypus.Source
	lastResp  *platypus.Response
	lastTouch time.Time
	weight    int
}

// weigh approximates a task's memory footprint: key, captures, and value
// bytes plus a fixed per-entry overhead for bookkeeping fields.
func weigh(t *task) int {
	const overhead = 64

	w := len(t.key) + overhead
	for k, v := range t.request.Captures() {
		w += len(k) + len(v)
	}
	if t.lastResp != nil {
		if value, ok := t.lastResp.Value(); ok {
			w += len(value)
		}
	}
	return w
}

// expired reports whether t has gone untouched past its response's expiry
// window. A task with no response yet (first fetch still pending or
// failed) is never considered expired by this check.
func (t *task) expired(now time.Time) bool {
	if t.lastResp == nil {
		return false
	}
	return now.After(t.lastTouch.Add(t.lastResp.Expiry()))
}

// dueForRefresh reports whether at least half of the last response's TTL
// has elapsed since it was produced (updated_at + ttl/2).
func (t *task) dueForRefresh(now time.Time) bool {
	if t.lastResp == nil {
		return false
	}
	nextPoll := t.lastResp.UpdatedAt().Add(t.lastResp.TTL() / 2)
	return !now.Before(nextPoll)
}
