package platypus

import (
	"context"
	"strconv"

	"github.com/pior/platypus/metrics"
	"github.com/pior/platypus/protocol"
	"github.com/rs/zerolog"
)

// RefreshEngine is the subset of engine.Engine the Handler depends on.
// Declaring it here instead of importing the engine package keeps the
// root package free of a dependency on its own consumer.
type RefreshEngine interface {
	GetOrCreate(ctx context.Context, key string, req *Request, source Source) (*Response, bool)
	Touch(key string) bool
}

// Handler dispatches parsed commands to the router and refresh engine,
// building wire responses. It mirrors the original implementation's
// Service::handle_command match arms, with the CAS, binary DELETE and
// touch fixes described in SPEC_FULL.md section 4.1 applied.
type Handler struct {
	router  *Router
	engine  RefreshEngine
	sources Sources
	version string
	metrics *metrics.Set
	log     zerolog.Logger
}

// NewHandler builds a Handler serving routes through engine. sources is
// attached to every routed request so that composite sources such as
// Merge can call their siblings by name; it may be nil for a router
// whose sources never fan out.
func NewHandler(router *Router, engine RefreshEngine, sources Sources, version string, log zerolog.Logger) *Handler {
	if version == "" {
		version = "1.0.0"
	}
	return &Handler{
		router:  router,
		engine:  engine,
		sources: sources,
		version: version,
		log:     log.With().Str("component", "handler").Logger(),
	}
}

// WithMetrics attaches a metrics.Set that records every command's
// outcome. Returns h for chaining.
func (h *Handler) WithMetrics(m *metrics.Set) *Handler {
	h.metrics = m
	return h
}

// Handle translates cmd into a protocol.Response. A Quit command returns
// ErrQuit instead of a response, signaling the connection loop to close
// the socket without writing anything back.
func (h *Handler) Handle(ctx context.Context, cc *protocol.CommandContext) (resp *protocol.Response, err error) {
	cmd := cc.Command

	if h.metrics != nil {
		defer func() {
			h.metrics.ObserveCommand(commandName(cmd.Kind), commandOutcome(resp, err))
		}()
	}

	switch cmd.Kind {
	case protocol.Get:
		return h.handleGet(ctx, cmd.Keys, false), nil

	case protocol.Gets:
		return h.handleGet(ctx, cmd.Keys, true), nil

	case protocol.Gat:
		return h.handleGat(ctx, cmd.Keys, cmd.Exptime, false), nil

	case protocol.Gats:
		return h.handleGat(ctx, cmd.Keys, cmd.Exptime, true), nil

	case protocol.MetaGet:
		return h.handleMetaGet(ctx, cmd.Key, cmd.MetaFlags), nil

	case protocol.MetaNoOp:
		return &protocol.Response{Kind: protocol.RespMetaNoOp}, nil

	case protocol.Version:
		return &protocol.Response{Kind: protocol.RespVersion, Message: h.version}, nil

	case protocol.Stats:
		return h.handleStats(), nil

	case protocol.Touch:
		return h.handleTouch(cmd.Key), nil

	case protocol.Quit:
		h.log.Debug().Msg("quit command, closing connection")
		return nil, ErrQuit

	default:
		return &protocol.Response{Kind: protocol.RespUnknownCommand}, nil
	}
}

func commandName(kind protocol.Kind) string {
	switch kind {
	case protocol.Get:
		return "get"
	case protocol.Gets:
		return "gets"
	case protocol.Gat:
		return "gat"
	case protocol.Gats:
		return "gats"
	case protocol.MetaGet:
		return "mg"
	case protocol.MetaNoOp:
		return "mn"
	case protocol.Version:
		return "version"
	case protocol.Stats:
		return "stats"
	case protocol.Touch:
		return "touch"
	case protocol.Quit:
		return "quit"
	default:
		return "unknown"
	}
}

func commandOutcome(resp *protocol.Response, err error) string {
	if err != nil {
		if IsKind(err, KindQuit) {
			return "quit"
		}
		return "error"
	}
	if resp == nil {
		return "error"
	}
	switch resp.Kind {
	case protocol.RespNotFound, protocol.RespMetaEnd, protocol.RespUnknownCommand:
		return "miss"
	default:
		return "ok"
	}
}

// fetch resolves key against the router and, on a match, fetches its
// current value through the refresh engine. A key with no matching rule
// is silently skipped, as in the original implementation.
func (h *Handler) fetch(ctx context.Context, key string) (string, bool) {
	req, rule, ok := h.router.Rule(key)
	if !ok {
		return "", false
	}
	if h.sources != nil {
		req = req.WithSources(h.sources)
	}
	resp, ok := h.engine.GetOrCreate(ctx, key, req, rule.Source())
	if !ok {
		return "", false
	}
	value, ok := resp.Value()
	return value, ok
}

func (h *Handler) handleGet(ctx context.Context, keys []string, _ bool) *protocol.Response {
	var items []protocol.Item
	for _, key := range keys {
		value, ok := h.fetch(ctx, key)
		if !ok {
			continue
		}
		items = append(items, protocol.Item{Key: key, Data: []byte(value)})
	}
	return &protocol.Response{Kind: protocol.RespValues, Items: items}
}

// handleGat is distinct from handleGet because "get and touch" also
// extends the matching task's liveness window via the engine, rather
// than only reading the cached value.
func (h *Handler) handleGat(ctx context.Context, keys []string, _ uint32, _ bool) *protocol.Response {
	var items []protocol.Item
	for _, key := range keys {
		value, ok := h.fetch(ctx, key)
		if !ok {
			continue
		}
		h.engine.Touch(key)
		items = append(items, protocol.Item{Key: key, Data: []byte(value)})
	}
	return &protocol.Response{Kind: protocol.RespValues, Items: items}
}

func (h *Handler) handleMetaGet(ctx context.Context, key string, flags []protocol.MetaFlag) *protocol.Response {
	value, ok := h.fetch(ctx, key)
	if !ok {
		return &protocol.Response{Kind: protocol.RespMetaEnd}
	}

	respFlags := make([]protocol.MetaFlag, 0, len(flags))
	for _, f := range flags {
		switch f.Type {
		case protocol.FlagReturnSize:
			respFlags = append(respFlags, protocol.MetaFlag{Type: f.Type, Token: strconv.Itoa(len(value))})
		case protocol.FlagReturnKey:
			respFlags = append(respFlags, protocol.MetaFlag{Type: f.Type, Token: key})
		}
	}

	return &protocol.Response{
		Kind:      protocol.RespMetaValue,
		Item:      protocol.Item{Key: key, Data: []byte(value)},
		MetaFlags: respFlags,
	}
}

func (h *Handler) handleStats() *protocol.Response {
	return &protocol.Response{
		Kind: protocol.RespStats,
		Stats: []protocol.StatLine{
			{Name: "version", Value: h.version},
			{Name: "curr_connections", Value: "1"},
			{Name: "total_connections", Value: "1"},
		},
	}
}

// handleTouch extends the matching MonitorTask's expiry window. Unlike
// the original implementation, which always replied TOUCHED without
// touching any state, a miss against the engine is surfaced as
// NOT_FOUND.
func (h *Handler) handleTouch(key string) *protocol.Response {
	if h.engine.Touch(key) {
		return &protocol.Response{Kind: protocol.RespTouched}
	}
	return &protocol.Response{Kind: protocol.RespNotFound}
}
