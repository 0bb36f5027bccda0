package funcs

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/yanizio/adept-view/internal/kv"
)

// BuildQuery encodes m as a form-urlencoded query string in insertion
// order.  Nested mappings and slices use bracket keys (a[b]=1, a[0]=1),
// nil values are skipped, and booleans encode as 1 or 0.
func BuildQuery(m *kv.Map) (string, error) {
	var parts []string
	for p := m.Oldest(); p != nil; p = p.Next() {
		if err := appendQuery(&parts, p.Key, p.Value); err != nil {
			return "", err
		}
	}
	return strings.Join(parts, "&"), nil
}

func appendQuery(parts *[]string, key string, v any) error {
	switch val := v.(type) {
	case nil:
		return nil
	case bool:
		s := "0"
		if val {
			s = "1"
		}
		*parts = append(*parts, url.QueryEscape(key)+"="+s)
		return nil
	case string:
		*parts = append(*parts, url.QueryEscape(key)+"="+url.QueryEscape(val))
		return nil
	case *kv.Map, map[string]any, map[string]string, map[string]int, url.Values, map[string][]string:
		nested, err := kv.From(val)
		if err != nil {
			return err
		}
		for p := nested.Oldest(); p != nil; p = p.Next() {
			if err := appendQuery(parts, key+"["+p.Key+"]", p.Value); err != nil {
				return err
			}
		}
		return nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if err := appendQuery(parts, key+"["+strconv.Itoa(i)+"]", rv.Index(i).Interface()); err != nil {
				return err
			}
		}
		return nil
	case reflect.Map, reflect.Func, reflect.Chan:
		return fmt.Errorf("key %q: unsupported value type %T", key, v)
	}

	*parts = append(*parts, url.QueryEscape(key)+"="+url.QueryEscape(fmt.Sprint(v)))
	return nil
}
