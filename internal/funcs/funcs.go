// internal/funcs/funcs.go
//
// Template function registry.
//
// Register binds every helper once, when the template environment is
// built.  Templates can then call:
//
//	{{ siteUrl "/login" }}
//	{{ getUrl "about" (dict "lang" .lang) }}
//	{{ queryParams .params "?controller=login&" }}
//	{{ varDump .anything }}
//	{{ Pagination .total .current "/list?page_num=(page_num)" }}
//	{{ Widget "menu" "top" (dict "limit" 5) }}   (or {{ Widget_menu_top }})
//
// Helpers that produce markup are bound with SafeHTML so the environment
// inserts their output unescaped.
//
// Notes
// -----
// • Argument errors (wrong arity, bad mapping type) are returned, so
//   html/template reports them through its own exec error path.
// • Oxford commas, two spaces after periods.
package funcs

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"

	"github.com/yanizio/adept-view/internal/config"
	"github.com/yanizio/adept-view/internal/kv"
	"github.com/yanizio/adept-view/internal/pagination"
	"github.com/yanizio/adept-view/internal/routing"
	"github.com/yanizio/adept-view/internal/widget"
)

// Binding is one named template function.
type Binding struct {
	Name     string
	Handler  any
	SafeHTML bool // output is pre-rendered markup; do not escape
}

// Environment is anything that accepts template function bindings.
type Environment interface {
	AddFunction(b Binding)
}

// Register binds every helper into env.
func Register(env Environment, cfg *config.Config, d *widget.Dispatcher) {
	for _, b := range Bindings(cfg, d) {
		env.AddFunction(b)
	}
}

// Bindings returns the helper set for cfg.  Exposed for tests and for
// environments that want to filter it.
func Bindings(cfg *config.Config, d *widget.Dispatcher) []Binding {
	h := helpers{
		baseURL: cfg.Runtime.BaseURL,
		aliases: routing.AliasTable(cfg.Runtime.Aliases),
		widgets: d,
	}
	return []Binding{
		{Name: "siteUrl", Handler: h.siteURL, SafeHTML: true},
		{Name: "queryParams", Handler: h.queryParams, SafeHTML: true},
		{Name: "varDump", Handler: h.varDump, SafeHTML: true},
		{Name: "getUrl", Handler: h.getURL, SafeHTML: true},
		{Name: "Pagination", Handler: h.pagination, SafeHTML: true},
		{Name: "Widget", Handler: h.widget, SafeHTML: true},
		{Name: "dict", Handler: kv.Dict},
	}
}

type helpers struct {
	baseURL string
	aliases routing.AliasTable
	widgets *widget.Dispatcher
}

// siteURL returns baseURL + path.  path defaults to "".
func (h helpers) siteURL(path ...string) (string, error) {
	switch len(path) {
	case 0:
		return h.baseURL, nil
	case 1:
		return h.baseURL + path[0], nil
	default:
		return "", fmt.Errorf("siteUrl: expected at most 1 argument, got %d", len(path))
	}
}

// queryParams returns prefix + the encoded query.  prefix defaults to "?".
func (h helpers) queryParams(params any, prefix ...string) (string, error) {
	p := "?"
	switch len(prefix) {
	case 0:
	case 1:
		p = prefix[0]
	default:
		return "", fmt.Errorf("queryParams: expected at most 2 arguments, got %d", len(prefix)+1)
	}

	m, err := kv.From(params)
	if err != nil {
		return "", fmt.Errorf("queryParams: %w", err)
	}
	q, err := BuildQuery(m)
	if err != nil {
		return "", fmt.Errorf("queryParams: %w", err)
	}
	return p + q, nil
}

// varDump is a debugging aid.  Its output is not escaped.
func (h helpers) varDump(v any) string {
	return spew.Sdump(v)
}

// getURL resolves alias with optional params.  Unknown aliases yield "".
func (h helpers) getURL(alias string, params ...any) (string, error) {
	m, err := kv.Optional(params)
	if err != nil {
		return "", fmt.Errorf("getUrl: %w", err)
	}
	return routing.Resolve(h.baseURL, h.aliases, alias, m), nil
}

// pagination fills the optional templates from the defaults, in order:
// parent, item, link item, ellipsis.
func (h helpers) pagination(total, current int, link string, templates ...string) (string, error) {
	if len(templates) > 4 {
		return "", fmt.Errorf("Pagination: expected at most 7 arguments, got %d", len(templates)+3)
	}

	t := pagination.DefaultTemplates()
	slots := []*string{&t.Parent, &t.Item, &t.LinkItem, &t.Ellipsis}
	for i, s := range templates {
		*slots[i] = s
	}
	return pagination.Render(total, current, link, t), nil
}

// widget dispatches name/action with optional args.
func (h helpers) widget(name, action string, args ...any) (string, error) {
	m, err := kv.Optional(args)
	if err != nil {
		return "", fmt.Errorf("Widget %s_%s: %w", name, action, err)
	}
	return h.widgets.Dispatch(name, action, kv.ToMap(m))
}
