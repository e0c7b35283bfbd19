package platypus

import "context"

// Source produces a Response for a routed Request. Implementations live
// in the source package (Echo, File, Http, SecretStore, Merge); this
// interface is declared here, not there, so Request/Response can embed a
// registry of sibling sources without an import cycle.
type Source interface {
	Call(ctx context.Context, req *Request) *Response
}

// Sources is a named registry of sources, handed to composite sources
// such as Merge so they can call their siblings by name.
type Sources map[string]Source
