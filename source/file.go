package source

import (
	"context"
	"os"
	"time"

	"github.com/pior/platypus"
	"github.com/rs/zerolog"
)

// File reads the contents of a file whose path is built from a
// placeholder template. A missing or unreadable file is not an error:
// it yields a response with no value, so the miss itself gets cached
// briefly per the response's ttl/expiry.
type File struct {
	MonitorConfig
	PathTemplate string
	log          zerolog.Logger
}

// NewFile builds a File source reading pathTemplate.
func NewFile(pathTemplate string, log zerolog.Logger) *File {
	return &File{MonitorConfig: defaultMonitorConfig(), PathTemplate: pathTemplate, log: log}
}

// WithTTL overrides the default ttl.
func (f *File) WithTTL(ttl time.Duration) *File {
	f.TTL = ttl
	return f
}

// WithExpiry overrides the default expiry.
func (f *File) WithExpiry(expiry time.Duration) *File {
	f.Expiry = expiry
	return f
}

func (f *File) buildPath(req *platypus.Request) string {
	return platypus.ReplacePlaceholders(f.PathTemplate, req.Captures())
}

// Call reads the templated file path and returns its contents.
func (f *File) Call(ctx context.Context, req *platypus.Request) *platypus.Response {
	response := platypus.NewResponse().WithTTL(f.TTL).WithExpiry(f.Expiry)

	path := f.buildPath(req)

	contents, err := os.ReadFile(path)
	if err != nil {
		f.log.Error().Err(err).Str("path", path).Msg("failed to read file source")
		return response
	}
	return response.WithValue(string(contents))
}
