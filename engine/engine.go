package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/pior/platypus"
	"github.com/pior/platypus/metrics"
	"github.com/rs/zerolog"
	"github.com/zeebo/xxh3"
	"golang.org/x/sync/singleflight"
)

// Config configures a new Engine.
type Config struct {
	// Shards is the number of independently locked table partitions.
	// More shards reduce contention under concurrent access at the cost
	// of slightly looser global LRU ordering.
	Shards int

	// MaxBytes bounds the sum of task weights across the whole table.
	// Eviction is LRU, applied per shard against an even split of this
	// budget.
	MaxBytes int

	// Writer receives a job for every refresh that produces a value.
	// May be nil, in which case refreshed values are never pushed
	// downstream.
	Writer *platypus.Writer

	// Metrics, if non-nil, records refresh latency and outcome for
	// every source call the engine performs.
	Metrics *metrics.Set
}

// Engine is the refresh-ahead task table: it owns every MonitorTask,
// fetches values through sources on first access, keeps hot keys
// refreshed ahead of expiry, and evicts least-recently-used tasks once
// the byte budget is exceeded.
type Engine struct {
	shards  []*shard
	group   singleflight.Group
	writer  *platypus.Writer
	metrics *metrics.Set
	log     zerolog.Logger
}

// New builds an Engine from cfg, applying defaults for zero-valued fields.
func New(cfg Config, log zerolog.Logger) *Engine {
	if cfg.Shards <= 0 {
		cfg.Shards = 32
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = 64 << 20
	}

	perShard := cfg.MaxBytes / cfg.Shards
	shards := make([]*shard, cfg.Shards)
	for i := range shards {
		shards[i] = newShard(perShard)
	}

	return &Engine{
		shards:  shards,
		writer:  cfg.Writer,
		metrics: cfg.Metrics,
		log:     log.With().Str("component", "engine").Logger(),
	}
}

func (e *Engine) shardFor(key string) *shard {
	h := xxh3.HashString(key)
	return e.shards[h%uint64(len(e.shards))]
}

// sourceName labels metrics by a source's concrete type, since sources
// carry no configured name of their own once built.
func sourceName(s platypus.Source) string {
	return fmt.Sprintf("%T", s)
}

// GetOrCreate returns the current value for key, creating a monitor task
// and performing the first fetch through source if none exists yet. It
// touches the task's liveness timestamp either way, so an existing live
// task survives past its current expiry window.
func (e *Engine) GetOrCreate(ctx context.Context, key string, req *platypus.Request, source platypus.Source) (*platypus.Response, bool) {
	sh := e.shardFor(key)

	t, created := sh.getOrInsert(key, func() *task {
		return &task{key: key, request: req, source: source, lastTouch: time.Now()}
	})
	if !created {
		t = sh.touch(key)
	}

	if t.lastResp != nil {
		if _, ok := t.lastResp.Value(); ok {
			return t.lastResp, true
		}
	}

	return e.refresh(ctx, key)
}

// Touch extends a live task's liveness window without forcing a refresh.
// It reports whether a task for key was found.
func (e *Engine) Touch(key string) bool {
	return e.shardFor(key).touch(key) != nil
}

// refresh performs the source call for key, at most once concurrently,
// updates the task's bookkeeping, and forwards a write-back job for any
// value produced.
func (e *Engine) refresh(ctx context.Context, key string) (*platypus.Response, bool) {
	v, err, _ := e.group.Do(key, func() (interface{}, error) {
		sh := e.shardFor(key)
		t := sh.touch(key)
		if t == nil {
			return nil, errTaskMissing
		}

		started := time.Now()
		resp := t.source.Call(ctx, t.request)

		sh.mu.Lock()
		t.lastResp = resp
		t.lastTouch = time.Now()
		sh.mu.Unlock()

		evicted := sh.recordResult(key)
		for _, k := range evicted {
			e.log.Debug().Str("key", k).Msg("evicted over byte budget")
		}

		value, ok := resp.Value()
		if e.metrics != nil {
			outcome := "miss"
			if ok {
				outcome = "hit"
			}
			e.metrics.ObserveRefresh(sourceName(t.source), outcome, started)
		}

		if ok && e.writer != nil {
			e.writer.Send(platypus.WriteJob{Key: key, Value: []byte(value), TTL: resp.TTL()})
		}

		return resp, nil
	})
	if err != nil {
		return nil, false
	}

	resp := v.(*platypus.Response)
	_, has := resp.Value()
	return resp, has
}

// Tick scans every task and schedules a proactive refresh, in its own
// goroutine, for any task whose staleness has crossed ttl/2 since its
// last update. It is driven at roughly 1Hz by the server.
func (e *Engine) Tick(ctx context.Context) {
	now := time.Now()
	for _, sh := range e.shards {
		var due []string
		sh.scan(func(key string, t *task) {
			if t.dueForRefresh(now) {
				due = append(due, key)
			}
		})
		for _, key := range due {
			go e.refresh(ctx, key)
		}
	}
}

// Poll evicts every task that has gone untouched past its expiry window.
func (e *Engine) Poll() {
	now := time.Now()
	for _, sh := range e.shards {
		var expired []string
		sh.scan(func(key string, t *task) {
			if t.expired(now) {
				expired = append(expired, key)
			}
		})
		for _, key := range expired {
			sh.evict(key)
		}
	}
}
