package source

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/pior/platypus"
)

// RuleArgs selects how a Merge rule builds the request it passes to its
// sibling source: Inherit forwards the original request unchanged,
// Replace substitutes a fixed set of captures (themselves rendered
// through placeholder substitution against the original request).
type RuleArgs struct {
	Replace bool
	Args    map[string]string
}

// InheritArgs is the zero value: forward the original request.
var InheritArgs = RuleArgs{}

// ReplaceArgs builds a RuleArgs that substitutes args for the sibling
// source's captures.
func ReplaceArgs(args map[string]string) RuleArgs {
	return RuleArgs{Replace: true, Args: args}
}

// MergeRule names a sibling source, its RuleArgs, and the key path at
// which its result is placed in the merged JSON document.
type MergeRule struct {
	KeyPath []string
	Source  string
	Args    RuleArgs
}

// Merge fans a single request out to sibling sources by name, and
// combines their results into one JSON document, each result placed at
// its rule's key path. A rule naming a source absent from the request's
// Sources map is silently skipped.
type Merge struct {
	MonitorConfig
	Rules []MergeRule
}

// NewMerge builds an empty Merge source.
func NewMerge() *Merge {
	return &Merge{MonitorConfig: defaultMonitorConfig()}
}

// WithRule appends a fan-out rule.
func (m *Merge) WithRule(keyPath string, source string, args RuleArgs) *Merge {
	m.Rules = append(m.Rules, MergeRule{KeyPath: strings.Split(keyPath, "."), Source: source, Args: args})
	return m
}

// WithTTL overrides the default ttl.
func (m *Merge) WithTTL(ttl time.Duration) *Merge {
	m.TTL = ttl
	return m
}

// WithExpiry overrides the default expiry.
func (m *Merge) WithExpiry(expiry time.Duration) *Merge {
	m.Expiry = expiry
	return m
}

func setNestedValue(doc map[string]any, path []string, value any) {
	if len(path) == 0 {
		return
	}
	if len(path) == 1 {
		doc[path[0]] = value
		return
	}

	nested, ok := doc[path[0]].(map[string]any)
	if !ok {
		nested = map[string]any{}
		doc[path[0]] = nested
	}
	setNestedValue(nested, path[1:], value)
}

// Call invokes every rule's sibling source and merges their results into
// one JSON object.
func (m *Merge) Call(ctx context.Context, req *platypus.Request) *platypus.Response {
	response := platypus.NewResponse().WithTTL(m.TTL).WithExpiry(m.Expiry)

	sources := req.Sources()
	if sources == nil {
		return response
	}

	merged := map[string]any{}

	for _, rule := range m.Rules {
		sibling, ok := sources[rule.Source]
		if !ok {
			continue
		}

		siblingReq := req
		if rule.Args.Replace {
			captures := make(map[string]string, len(rule.Args.Args))
			for k, v := range rule.Args.Args {
				captures[k] = platypus.ReplacePlaceholders(v, req.Captures())
			}
			siblingReq = platypus.NewRequest(req.Key()).WithCaptures(captures).WithSources(sources)
		}

		siblingResp := sibling.Call(ctx, siblingReq)
		value, ok := siblingResp.Value()
		if !ok {
			continue
		}

		var parsed any
		if err := json.Unmarshal([]byte(value), &parsed); err != nil {
			parsed = value
		}
		setNestedValue(merged, rule.KeyPath, parsed)
	}

	output, err := json.Marshal(merged)
	if err != nil {
		return response
	}
	return response.WithValue(string(output))
}
