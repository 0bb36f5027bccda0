// internal/view/view.go
//
// View abstraction used by the HTTP layer.
//
// *Engine is the real implementation.  Null renders nothing and returns the
// template name, which keeps routing tests free of template trees.
//
// Query globals
// -------------
// The second render pass parses page output as a template, so request
// values must never reach it with a live "{{".  QueryGlobal builds the _QP
// global with every "{{" broken up into "{ {".

package view

import (
	"net/url"
	"strings"
)

// View renders named templates with globals.
type View interface {
	AddGlobal(name string, value any)
	Render(name string, data map[string]any) (string, error)

	// With returns a copy carrying one extra global.
	With(name string, value any) View
}

var (
	_ View = (*Engine)(nil)
	_ View = Null{}
)

// Null is a View that renders nothing.  Render returns the template name.
type Null struct{}

// AddGlobal discards the value.
func (Null) AddGlobal(string, any) {}

// Render returns name.
func (Null) Render(name string, _ map[string]any) (string, error) { return name, nil }

// With returns n unchanged.
func (n Null) With(string, any) View { return n }

// QueryGlobal converts a request query into the _QP global.  A key with
// one value maps to a string, several values to a []string.
func QueryGlobal(q url.Values) map[string]any {
	out := make(map[string]any, len(q))
	for k, vals := range q {
		k = inert(k)
		if len(vals) == 1 {
			out[k] = inert(vals[0])
			continue
		}
		vs := make([]string, len(vals))
		for i, v := range vals {
			vs[i] = inert(v)
		}
		out[k] = vs
	}
	return out
}

// inert breaks every "{{" so the text cannot open a template action.
func inert(s string) string {
	for strings.Contains(s, "{{") {
		s = strings.ReplaceAll(s, "{{", "{ {")
	}
	return s
}
