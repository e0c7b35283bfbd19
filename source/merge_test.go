package source

import (
	"context"
	"testing"

	"github.com/pior/platypus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	value string
	has   bool
}

func (s stubSource) Call(ctx context.Context, req *platypus.Request) *platypus.Response {
	resp := platypus.NewResponse()
	if s.has {
		resp = resp.WithValue(s.value)
	}
	return resp
}

func TestMergeCombinesSiblingResults(t *testing.T) {
	merge := NewMerge().
		WithRule("echo", "echo1", InheritArgs).
		WithRule("nested.data", "json_source", InheritArgs)

	req := platypus.NewRequest("widget").WithSources(platypus.Sources{
		"echo1":       stubSource{value: "echo1 response", has: true},
		"json_source": stubSource{value: `{"nested":"value"}`, has: true},
	})

	resp := merge.Call(context.Background(), req)
	value, ok := resp.Value()
	require.True(t, ok)
	assert.JSONEq(t, `{"echo":"echo1 response","nested":{"data":{"nested":"value"}}}`, value)
}

func TestMergeSkipsMissingSource(t *testing.T) {
	merge := NewMerge().WithRule("echo", "missing", InheritArgs)
	req := platypus.NewRequest("widget").WithSources(platypus.Sources{})

	resp := merge.Call(context.Background(), req)
	value, ok := resp.Value()
	require.True(t, ok)
	assert.JSONEq(t, `{}`, value)
}

func TestMergeNoSourcesReturnsNoValue(t *testing.T) {
	merge := NewMerge().WithRule("echo", "echo1", InheritArgs)
	resp := merge.Call(context.Background(), platypus.NewRequest("widget"))

	_, ok := resp.Value()
	assert.False(t, ok)
}

func TestMergeReplaceArgsRendersTemplate(t *testing.T) {
	var seenKey string
	var capturer platypus.Source = sourceFunc(func(ctx context.Context, req *platypus.Request) *platypus.Response {
		v, _ := req.Get("fixed")
		seenKey = v
		return platypus.NewResponse().WithValue("ok")
	})

	merge := NewMerge().WithRule("out", "capture", ReplaceArgs(map[string]string{"fixed": "prefix-{$key}"}))
	req := platypus.NewRequest("widget").WithSources(platypus.Sources{"capture": capturer})

	_, ok := merge.Call(context.Background(), req).Value()
	require.True(t, ok)
	assert.Equal(t, "prefix-widget", seenKey)
}

type sourceFunc func(ctx context.Context, req *platypus.Request) *platypus.Response

func (f sourceFunc) Call(ctx context.Context, req *platypus.Request) *platypus.Response {
	return f(ctx, req)
}
