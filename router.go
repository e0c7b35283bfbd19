package platypus

import (
	"fmt"
	"regexp"
)

// Rule pairs a compiled pattern with the source that should handle keys
// matching it.
type Rule struct {
	re     *regexp.Regexp
	source Source
}

// NewRule compiles pattern and pairs it with source.
func NewRule(pattern string, source Source) (*Rule, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compiling route pattern %q: %w", pattern, err)
	}
	return &Rule{re: re, source: source}, nil
}

// Match returns a Request built from key's captures if the rule's
// pattern matches.
func (r *Rule) Match(key string) (*Request, bool) {
	return MatchRegex(r.re, key)
}

// Source returns the rule's target source.
func (r *Rule) Source() Source { return r.source }

// Router holds an ordered list of rules, first match wins, as spec'd in
// section 4.5 of the routing design.
type Router struct {
	rules []*Rule
}

// NewRouter returns an empty router.
func NewRouter() *Router {
	return &Router{}
}

// Route appends a rule to the router, error-returning: the original
// implementation panics at construction time on an invalid pattern
// (config is fixed at startup so a bad regex is a programmer error, not
// a runtime condition); Route lets callers choose to propagate instead.
func (router *Router) Route(pattern string, source Source) (*Router, error) {
	rule, err := NewRule(pattern, source)
	if err != nil {
		return router, err
	}
	router.rules = append(router.rules, rule)
	return router, nil
}

// MustRoute is Route but panics on an invalid pattern, for use in
// startup code building a fixed, already-validated configuration.
func (router *Router) MustRoute(pattern string, source Source) *Router {
	router, err := router.Route(pattern, source)
	if err != nil {
		panic(err)
	}
	return router
}

// Rule returns the Request and Rule for the first rule matching key, in
// insertion order.
func (router *Router) Rule(key string) (*Request, *Rule, bool) {
	for _, rule := range router.rules {
		if req, ok := rule.Match(key); ok {
			return req, rule, true
		}
	}
	return nil, nil, false
}
