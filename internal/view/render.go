// internal/view/render.go
//
// Central view engine: template loading, func-map injection, globals, and
// an LRU of parsed *template.Template* sets.
//
// Public helpers
// --------------
//   - Render      – page render with the one-shot widget second pass.
//   - RenderFile  – single pass; used by the widget dispatcher.
//   - With        – per-request copy carrying an extra global (e.g. _QP).
//
// Template sets
// -------------
// A set is the target file plus every sibling with the configured extension
// in the same directory, so {{ template "row.html" . }} works out-of-the-box.
// Each file passes through widget.RewriteCalls before parsing, which turns
// {{ Widget_menu_top() }} into {{ Widget "menu" "top" }}.
//
// Second pass
// -----------
// When a page's output still contains a widget call (typically markup that
// came in through a variable), the output is parsed as a template and
// rendered once more with globals only.  Depth is one; a call produced by
// the second pass is left as text.
//
// Style
// -----
// • Oxford commas, two spaces after periods.

package view

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"maps"
	"os"
	"path"
	"path/filepath"
	"reflect"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/yanizio/adept-view/internal/cache"
	"github.com/yanizio/adept-view/internal/config"
	"github.com/yanizio/adept-view/internal/funcs"
	"github.com/yanizio/adept-view/internal/metrics"
	"github.com/yanizio/adept-view/internal/widget"
)

// ErrNotFound is returned (wrapped) when a page template does not exist.
// It matches os.ErrNotExist through errors.Is.
var ErrNotFound = fmt.Errorf("view: template not found: %w", fs.ErrNotExist)

// Global names seeded by New.
const (
	GlobalConfig = "_RC"
	GlobalQuery  = "_QP"
)

var htmlType = reflect.TypeOf(template.HTML(""))

// sets is the parse cache shared by an Engine and its With copies.
type sets struct {
	lru   *cache.LRU[string, *template.Template]
	group singleflight.Group
}

// Engine renders templates under cfg.View.TemplatesDir.
type Engine struct {
	cfg     *config.Config
	funcMap template.FuncMap
	sets    *sets

	mu      sync.RWMutex
	globals map[string]any
}

// New builds an Engine, binds every helper, and seeds the _RC and _QP
// globals.  reg == nil uses widget.Default.
func New(cfg *config.Config, reg *widget.Registry, queryParams map[string]any) (*Engine, error) {
	if cfg == nil {
		return nil, errors.New("view: nil config")
	}
	if queryParams == nil {
		queryParams = map[string]any{}
	}

	e := &Engine{
		cfg:     cfg,
		funcMap: template.FuncMap{},
		sets:    &sets{lru: cache.New[string, *template.Template](cfg.View.CacheSize)},
		globals: map[string]any{
			GlobalConfig: cfg,
			GlobalQuery:  queryParams,
		},
	}
	funcs.Register(e, cfg, widget.NewDispatcher(reg, e, cfg))
	return e, nil
}

// AddFunction binds b into the func map.  SafeHTML handlers have their
// string results converted to template.HTML so output is not escaped.
// Must be called before the first render.
func (e *Engine) AddFunction(b funcs.Binding) {
	h := b.Handler
	if b.SafeHTML {
		h = safeHTML(h)
	}
	e.funcMap[b.Name] = h
}

// AddGlobal exposes value to every template under name.  Render data with
// the same key wins.
func (e *Engine) AddGlobal(name string, value any) {
	e.mu.Lock()
	e.globals[name] = value
	e.mu.Unlock()
}

// With returns a copy of e with one extra global.  The copy shares the
// parse cache and func map, so it is cheap enough to build per request.
// Widget templates keep rendering through e.
func (e *Engine) With(name string, value any) View {
	c := &Engine{cfg: e.cfg, funcMap: e.funcMap, sets: e.sets}
	c.globals = e.snapshot()
	c.globals[name] = value
	return c
}

// Render executes the page template name (relative to TemplatesDir) and
// runs the second pass when the output still carries a widget call.
func (e *Engine) Render(name string, data map[string]any) (string, error) {
	out, err := e.execute(name, data)
	if err != nil {
		return "", err
	}
	metrics.RenderTotal.WithLabelValues("first").Inc()

	if !widget.HasPendingCall(out) {
		return out, nil
	}

	zap.L().Debug("second render pass", zap.String("template", name))
	t, err := template.New(name + "#second").Funcs(e.funcMap).Parse(widget.RewriteCalls(out))
	if err != nil {
		return "", fmt.Errorf("view: second pass %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, e.snapshot()); err != nil {
		return "", fmt.Errorf("view: second pass %s: %w", name, err)
	}
	metrics.RenderTotal.WithLabelValues("second").Inc()
	return buf.String(), nil
}

// RenderFile executes name once with data merged over the globals.
func (e *Engine) RenderFile(name string, data map[string]any) (string, error) {
	return e.execute(name, data)
}

func (e *Engine) execute(name string, data map[string]any) (string, error) {
	t, err := e.load(name)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, e.merge(data)); err != nil {
		return "", fmt.Errorf("view: render %s: %w", name, err)
	}
	return buf.String(), nil
}

//
// internal: load
//

// load returns the parsed set for name, from the LRU unless AutoReload is
// on.  Concurrent loads of one name share a single parse.
func (e *Engine) load(name string) (*template.Template, error) {
	name = path.Clean(name)
	if !filepath.IsLocal(filepath.FromSlash(name)) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	if !e.cfg.View.AutoReload {
		if t, ok := e.sets.lru.Get(name); ok {
			return t, nil
		}
	}

	v, err, _ := e.sets.group.Do(name, func() (any, error) {
		t, err := e.parse(name)
		if err != nil {
			return nil, err
		}
		if !e.cfg.View.AutoReload {
			e.sets.lru.Add(name, t)
		}
		return t, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*template.Template), nil
}

// parse reads name and its siblings and parses them as one set.
func (e *Engine) parse(name string) (*template.Template, error) {
	root := e.cfg.View.TemplatesDir
	full := filepath.Join(root, filepath.FromSlash(name))
	if _, err := os.Stat(full); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	files, err := siblings(root, name, e.cfg.View.TemplateExt)
	if err != nil {
		return nil, err
	}

	t := template.New(name).Funcs(e.funcMap)
	for _, f := range files {
		src, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(f)))
		if err != nil {
			return nil, err
		}
		tt := t
		if f != name {
			tt = t.New(f)
		}
		if _, err := tt.Parse(widget.RewriteCalls(string(src))); err != nil {
			return nil, fmt.Errorf("view: parse %s: %w", f, err)
		}
	}
	return t, nil
}

func (e *Engine) snapshot() map[string]any {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return maps.Clone(e.globals)
}

func (e *Engine) merge(data map[string]any) map[string]any {
	m := e.snapshot()
	maps.Copy(m, data)
	return m
}

// safeHTML wraps fn so every string result becomes template.HTML.  The
// wrapper keeps fn's parameters, so html/template still checks arity.
func safeHTML(fn any) any {
	v := reflect.ValueOf(fn)
	t := v.Type()
	if t.Kind() != reflect.Func {
		return fn
	}

	in := make([]reflect.Type, t.NumIn())
	for i := range in {
		in[i] = t.In(i)
	}
	out := make([]reflect.Type, t.NumOut())
	for i := range out {
		out[i] = t.Out(i)
		if out[i].Kind() == reflect.String {
			out[i] = htmlType
		}
	}

	wrapped := reflect.MakeFunc(reflect.FuncOf(in, out, t.IsVariadic()), func(args []reflect.Value) []reflect.Value {
		var res []reflect.Value
		if t.IsVariadic() {
			res = v.CallSlice(args)
		} else {
			res = v.Call(args)
		}
		for i, r := range res {
			if r.Kind() == reflect.String {
				res[i] = r.Convert(htmlType)
			}
		}
		return res
	})
	return wrapped.Interface()
}
