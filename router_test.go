package platypus

import "testing"

func TestRouterFirstMatchWins(t *testing.T) {
	router := NewRouter()
	router.MustRoute(`^widget:.+$`, echoSource{})
	router.MustRoute(`^widget:1$`, echoSource{})

	req, rule, ok := router.Rule("widget:1")
	if !ok {
		t.Fatal("expected a match")
	}
	if req.Key() != "widget:1" {
		t.Fatalf("unexpected request key %q", req.Key())
	}
	// The first rule (the broader pattern) must win, even though the
	// second, more specific rule also matches.
	if _, ok := rule.Match("widget:1"); !ok {
		t.Fatal("returned rule should still match the key")
	}
	if _, ok := rule.Match("widget:2"); !ok {
		t.Fatal("expected the first, broader rule to win")
	}
}

func TestRouterNoMatch(t *testing.T) {
	router := NewRouter()
	router.MustRoute(`^widget:.+$`, echoSource{})

	_, _, ok := router.Rule("gadget:1")
	if ok {
		t.Fatal("expected no match")
	}
}

func TestRouterCapturesIncludeReservedKey(t *testing.T) {
	router := NewRouter()
	router.MustRoute(`^echo/(?P<word>.+)$`, echoSource{})

	req, _, ok := router.Rule("echo/hello")
	if !ok {
		t.Fatal("expected a match")
	}
	if v, _ := req.Get("word"); v != "hello" {
		t.Fatalf("got word capture %q", v)
	}
	if v, _ := req.Get(ReservedKeyCapture); v != "echo/hello" {
		t.Fatalf("got $key capture %q", v)
	}
}

func TestRouteInvalidPatternErrors(t *testing.T) {
	router := NewRouter()
	_, err := router.Route("(unterminated", echoSource{})
	if err == nil {
		t.Fatal("expected an error for an invalid pattern")
	}
}
