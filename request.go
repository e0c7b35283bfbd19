package platypus

import "regexp"

// ReservedKeyCapture is the capture name always set to the full matched
// key, never overridable by a named regex group.
const ReservedKeyCapture = "$key"

// Request is the input handed to a Source: the full key plus whatever
// named captures its routing rule's regex extracted from it.
type Request struct {
	key      string
	captures map[string]string
	sources  Sources
}

// NewRequest builds a bare Request for key whose captures hold only the
// reserved "$key" entry.
func NewRequest(key string) *Request {
	return &Request{key: key, captures: map[string]string{ReservedKeyCapture: key}}
}

// MatchRegex matches key against re and, on success, builds a Request
// whose captures map holds every named group plus the reserved "$key"
// entry set to the full key.
func MatchRegex(re *regexp.Regexp, key string) (*Request, bool) {
	match := re.FindStringSubmatch(key)
	if match == nil {
		return nil, false
	}

	captures := make(map[string]string, len(match))
	for i, name := range re.SubexpNames() {
		if i == 0 || name == "" {
			continue
		}
		captures[name] = match[i]
	}
	captures[ReservedKeyCapture] = key

	return &Request{key: key, captures: captures}, true
}

// Key returns the full matched key.
func (r *Request) Key() string { return r.key }

// Get returns a named capture, if any.
func (r *Request) Get(name string) (string, bool) {
	v, ok := r.captures[name]
	return v, ok
}

// Captures returns the full capture map.
func (r *Request) Captures() map[string]string { return r.captures }

// WithCaptures returns a copy of r with captures replaced.
func (r *Request) WithCaptures(captures map[string]string) *Request {
	return &Request{key: r.key, captures: captures, sources: r.sources}
}

// Sources returns the sibling source registry available to composite
// sources such as Merge, or nil if none was attached.
func (r *Request) Sources() Sources { return r.sources }

// WithSources returns a copy of r with the sibling source registry attached.
func (r *Request) WithSources(sources Sources) *Request {
	return &Request{key: r.key, captures: r.captures, sources: sources}
}
