package source

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/pior/platypus"
	"github.com/rs/zerolog"
)

// Http issues a GET against a templated URL and treats any 2xx response
// body as the value. Non-2xx and transport failures both degrade to a
// valueless response rather than an error, matching the original
// implementation's "log and return empty" behavior.
//
// The standard library's net/http client is used here: none of the
// example repos carry an HTTP client dependency for this concern, so
// there is nothing in the retrieved pack to ground a third-party choice
// on (see DESIGN.md).
type Http struct {
	MonitorConfig
	URLTemplate string
	Method      string
	Headers     map[string]string
	client      *http.Client
	log         zerolog.Logger
}

// NewHttp builds an Http source issuing GET against urlTemplate.
func NewHttp(urlTemplate string, log zerolog.Logger) *Http {
	return &Http{
		MonitorConfig: defaultMonitorConfig(),
		URLTemplate:   urlTemplate,
		Method:        http.MethodGet,
		Headers:       map[string]string{},
		client:        &http.Client{Timeout: 30 * time.Second},
		log:           log,
	}
}

// WithTimeout overrides the client timeout.
func (h *Http) WithTimeout(timeout time.Duration) *Http {
	h.client = &http.Client{Timeout: timeout}
	return h
}

// WithHeaders sets extra headers sent with every request.
func (h *Http) WithHeaders(headers map[string]string) *Http {
	h.Headers = headers
	return h
}

// WithMethod overrides the HTTP method, GET by default.
func (h *Http) WithMethod(method string) *Http {
	h.Method = method
	return h
}

// WithTTL overrides the default ttl.
func (h *Http) WithTTL(ttl time.Duration) *Http {
	h.TTL = ttl
	return h
}

// WithExpiry overrides the default expiry.
func (h *Http) WithExpiry(expiry time.Duration) *Http {
	h.Expiry = expiry
	return h
}

// Call fetches URLTemplate, rendered against the request's captures.
func (h *Http) Call(ctx context.Context, req *platypus.Request) *platypus.Response {
	response := platypus.NewResponse().WithTTL(h.TTL).WithExpiry(h.Expiry)

	url := platypus.ReplacePlaceholders(h.URLTemplate, req.Captures())

	httpReq, err := http.NewRequestWithContext(ctx, h.Method, url, nil)
	if err != nil {
		h.log.Error().Err(err).Str("url", url).Msg("failed to build http source request")
		return response
	}
	for k, v := range h.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := h.client.Do(httpReq)
	if err != nil {
		h.log.Error().Err(err).Str("url", url).Msg("http source request failed")
		return response
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		h.log.Warn().Int("status", resp.StatusCode).Str("url", url).Msg("http source returned non-2xx")
		return response
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		h.log.Error().Err(err).Str("url", url).Msg("failed to read http source response body")
		return response
	}
	return response.WithValue(string(body))
}
