// internal/kv/kv.go
//
// Insertion-ordered key/value mapping shared by template helpers.
//
// Context
// -------
// Template helpers such as getUrl and queryParams apply their arguments in
// the order the caller wrote them.  Go maps do not keep that order, so
// templates build arguments with {{ dict "k" v ... }}, which returns a *Map.
//
// Values that arrive as plain Go maps (handler data, query params) are
// converted with keys sorted ascending so output stays deterministic.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.
package kv

import (
	"fmt"
	"net/url"
	"sort"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Map is an insertion-ordered string-keyed mapping.
type Map = orderedmap.OrderedMap[string, any]

// New returns an empty Map.
func New() *Map {
	return orderedmap.New[string, any]()
}

// Dict builds a Map from alternating key/value arguments:
//
//	{{ dict "lang" "en" "page" 2 }}
//
// Keys must be strings.  An odd argument count is an error.
func Dict(pairs ...any) (*Map, error) {
	if len(pairs)%2 != 0 {
		return nil, fmt.Errorf("dict: odd number of arguments (%d)", len(pairs))
	}
	m := New()
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %d is %T, want string", i/2, pairs[i])
		}
		m.Set(key, pairs[i+1])
	}
	return m, nil
}

// From converts v into a Map.  Accepted inputs are *Map, map[string]any,
// map[string]string, map[string]int, url.Values, map[string][]string, and
// nil (empty Map).
func From(v any) (*Map, error) {
	switch src := v.(type) {
	case nil:
		return New(), nil
	case *Map:
		if src == nil {
			return New(), nil
		}
		return src, nil
	case map[string]any:
		return fromSorted(src), nil
	case map[string]string:
		return fromSorted(src), nil
	case map[string]int:
		return fromSorted(src), nil
	case url.Values:
		return fromMulti(src), nil
	case map[string][]string:
		return fromMulti(src), nil
	default:
		return nil, fmt.Errorf("kv: unsupported mapping type %T", v)
	}
}

// Optional unpacks the trailing optional mapping argument of a template
// function.  Zero arguments yield an empty Map; more than one is an error.
func Optional(args []any) (*Map, error) {
	switch len(args) {
	case 0:
		return New(), nil
	case 1:
		return From(args[0])
	default:
		return nil, fmt.Errorf("kv: expected at most one mapping, got %d", len(args))
	}
}

// ToMap copies m into a plain map.  Order is lost.
func ToMap(m *Map) map[string]any {
	out := make(map[string]any, m.Len())
	for p := m.Oldest(); p != nil; p = p.Next() {
		out[p.Key] = p.Value
	}
	return out
}

// fromMulti flattens single-value lists to their string.
func fromMulti(src map[string][]string) *Map {
	m := New()
	for _, k := range sortedKeys(src) {
		vals := src[k]
		if len(vals) == 1 {
			m.Set(k, vals[0])
			continue
		}
		m.Set(k, vals)
	}
	return m
}

func fromSorted[V any](src map[string]V) *Map {
	m := New()
	for _, k := range sortedKeys(src) {
		m.Set(k, src[k])
	}
	return m
}

func sortedKeys[V any](src map[string]V) []string {
	keys := make([]string, 0, len(src))
	for k := range src {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
