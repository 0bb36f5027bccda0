// internal/widget/call.go
//
// Call-site parsing for the wildcard widget syntax.
//
// Template authors may write either form:
//
//	{{ Widget_menu_top }}
//	{{ Widget_menu_top (dict "limit" 5) }}
//	{{ Widget "menu" "top" (dict "limit" 5) }}
//
// html/template only resolves fixed function names, so RewriteCalls turns
// the first two into the third before a template is parsed.  The engine
// exposes a single Widget function.
//
// The name is everything up to the first underscore after "Widget_"; the
// action is the rest, so Widget_menu_top_items → ("menu", "top_items").

package widget

import (
	"fmt"
	"regexp"
)

var (
	actionRe  = regexp.MustCompile(`(?s)\{\{.*?\}\}`)
	callRe    = regexp.MustCompile(`\b(Widget_\w+)(\s*\(\s*\))?`)
	tokenRe   = regexp.MustCompile(`^Widget_([A-Za-z0-9]+)_(\w+)$`)
	pendingRe = regexp.MustCompile(`\{\{-?\s*Widget[_\s]`)
)

// ParseCall splits a wildcard token into widget name and action.
func ParseCall(token string) (name, action string, ok bool) {
	m := tokenRe.FindStringSubmatch(token)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// RewriteCalls replaces wildcard widget tokens inside {{ }} actions with
// calls to the fixed-arity Widget function.  Text outside actions is left
// untouched.
func RewriteCalls(src string) string {
	return actionRe.ReplaceAllStringFunc(src, func(action string) string {
		return callRe.ReplaceAllStringFunc(action, func(call string) string {
			name, act, ok := ParseCall(callRe.FindStringSubmatch(call)[1])
			if !ok {
				return call
			}
			return fmt.Sprintf("Widget %q %q", name, act)
		})
	})
}

// HasPendingCall reports whether rendered output still carries a widget
// call that needs another evaluation pass.
func HasPendingCall(out string) bool {
	return pendingRe.MatchString(out)
}
