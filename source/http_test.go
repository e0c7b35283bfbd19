package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pior/platypus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHttpFetchesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("response body"))
	}))
	defer srv.Close()

	h := NewHttp(srv.URL+"/{$key}", zerolog.Nop())
	resp := h.Call(context.Background(), platypus.NewRequest("widget"))

	value, ok := resp.Value()
	require.True(t, ok)
	assert.Equal(t, "response body", value)
}

func TestHttpNon2xxReturnsNoValue(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	h := NewHttp(srv.URL, zerolog.Nop())
	resp := h.Call(context.Background(), platypus.NewRequest("widget"))

	_, ok := resp.Value()
	assert.False(t, ok)
}

func TestHttpBadURLReturnsNoValue(t *testing.T) {
	h := NewHttp("://not-a-url", zerolog.Nop())
	resp := h.Call(context.Background(), platypus.NewRequest("widget"))

	_, ok := resp.Value()
	assert.False(t, ok)
}
