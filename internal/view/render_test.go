// internal/view/render_test.go
//
// Engine tests against a throw-away template tree.
//
// Coverage
// --------
//   • Helpers resolve inside real templates (getUrl, siteUrl, queryParams)
//   • Sibling templates form one set
//   • Widget calls in both spellings, plus the second pass
//   • Typed errors survive html/template's exec error wrapping
//   • Parse cache and AutoReload

package view

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yanizio/adept-view/internal/config"
	"github.com/yanizio/adept-view/internal/widget"
)

type menu struct{ limit int }

func (m menu) Top() (map[string]any, error) {
	items := []string{"Home", "About", "Contact"}
	if m.limit > 0 && m.limit < len(items) {
		items = items[:m.limit]
	}
	return map[string]any{"items": items}, nil
}

func newMenu(args map[string]any) (menu, error) {
	n, _ := args["limit"].(int)
	return menu{limit: n}, nil
}

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, body := range files {
		full := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(full, []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

func setup(t *testing.T, files map[string]string) (*Engine, *config.Config) {
	t.Helper()

	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"_widgets/menu/top.html": `<ul>{{ range .items }}<li>{{ . }}</li>{{ end }}</ul>`,
	})
	writeFiles(t, root, files)

	cfg := config.Default()
	cfg.View.TemplatesDir = root
	cfg.Runtime.Aliases = map[string]string{
		"about":   "{lang}/about",
		"product": "product/{id}",
	}

	reg := widget.NewRegistry()
	reg.Add(widget.Define("App", "menu", newMenu,
		map[string]func(menu) (map[string]any, error){"top": menu.Top}))

	e, err := New(cfg, reg, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e, cfg
}

func TestRender_Helpers(t *testing.T) {
	e, _ := setup(t, map[string]string{
		"index.html": `{{ getUrl "about" (dict "lang" "tr_TR") }}|` +
			`{{ siteUrl "/login" }}|` +
			`{{ queryParams (dict "param1" 1 "param2" 2 "param3" 3) }}|` +
			`[{{ getUrl "missing" }}]`,
	})

	got, err := e.Render("index.html", nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := "http://127.0.0.1/tr_TR/about|http://127.0.0.1/login|?param1=1&param2=2&param3=3|[]"
	if got != want {
		t.Fatalf("got  %s\nwant %s", got, want)
	}
}

func TestRender_SiblingsShareSet(t *testing.T) {
	e, _ := setup(t, map[string]string{
		"page.html":   `<main>{{ template "footer.html" . }}</main>`,
		"footer.html": `<footer>{{ .year }}</footer>`,
	})

	got, err := e.Render("page.html", map[string]any{"year": 2025})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "<main><footer>2025</footer></main>" {
		t.Fatalf("got %s", got)
	}
}

func TestRender_Pagination(t *testing.T) {
	e, _ := setup(t, map[string]string{
		"list.html": `{{ Pagination .total .current .link }}`,
		"bad.html":  `{{ Pagination 2 1 "l" "a" "b" "c" "d" "e" }}`,
	})

	got, err := e.Render("list.html", map[string]any{
		"total": 20, "current": 8, "link": "/list?page_num=(page_num)",
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Count(got, "<li><a>...</a></li>") != 2 {
		t.Fatalf("expected two ellipses, unescaped: %s", got)
	}
	if !strings.Contains(got, `<li class="active"><a href="/list?page_num=8" class="active">8</a></li>`) {
		t.Fatalf("active item missing: %s", got)
	}

	if _, err := e.Render("bad.html", nil); err == nil {
		t.Fatalf("expected arity error")
	}
}

func TestRender_WidgetCalls(t *testing.T) {
	e, _ := setup(t, map[string]string{
		"short.html": `<nav>{{ Widget_menu_top() }}</nav>`,
		"long.html":  `<nav>{{ Widget "menu" "top" (dict "limit" 1) }}</nav>`,
	})

	got, err := e.Render("short.html", nil)
	if err != nil {
		t.Fatalf("Render short: %v", err)
	}
	if got != "<nav><ul><li>Home</li><li>About</li><li>Contact</li></ul></nav>" {
		t.Fatalf("short got %s", got)
	}

	got, err = e.Render("long.html", nil)
	if err != nil {
		t.Fatalf("Render long: %v", err)
	}
	if got != "<nav><ul><li>Home</li></ul></nav>" {
		t.Fatalf("long got %s", got)
	}
}

func TestRender_SecondPass(t *testing.T) {
	e, _ := setup(t, map[string]string{
		"page.html": `<div>{{ .banner }}</div>`,
	})
	e.AddGlobal("banner", "{{ Widget_menu_top() }}")

	got, err := e.Render("page.html", nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "<div><ul><li>Home</li><li>About</li><li>Contact</li></ul></div>" {
		t.Fatalf("got %s", got)
	}

	// RenderFile is single pass.
	raw, err := e.RenderFile("page.html", nil)
	if err != nil {
		t.Fatalf("RenderFile: %v", err)
	}
	if raw != "<div>{{ Widget_menu_top() }}</div>" {
		t.Fatalf("RenderFile got %s", raw)
	}
}

func TestRender_WidgetErrors(t *testing.T) {
	e, cfg := setup(t, map[string]string{
		"nohandler.html":  `{{ Widget_nope_top }}`,
		"notemplate.html": `{{ Widget "menu" "top" (dict "template" "side.html") }}`,
	})

	_, err := e.Render("nohandler.html", nil)
	if !errors.Is(err, widget.ErrHandlerNotFound) {
		t.Fatalf("err = %v, want ErrHandlerNotFound", err)
	}

	_, err = e.Render("notemplate.html", nil)
	if !widget.IsTemplateNotFound(err) {
		t.Fatalf("err = %v, want ErrTemplateNotFound", err)
	}

	cfg.View.AppNamespace = "Other"
	_, err = e.Render("nohandler.html", nil)
	if !widget.IsHandlerNotFound(err) {
		t.Fatalf("err = %v, want ErrHandlerNotFound", err)
	}
}

func TestRender_MissingPage(t *testing.T) {
	e, _ := setup(t, nil)

	for _, name := range []string{"nope.html", "../outside.html"} {
		_, err := e.Render(name, nil)
		if !errors.Is(err, ErrNotFound) || !errors.Is(err, os.ErrNotExist) {
			t.Fatalf("%s: err = %v, want ErrNotFound", name, err)
		}
	}
}

func TestRender_GlobalsAndWith(t *testing.T) {
	e, cfg := setup(t, map[string]string{
		"g.html": `{{ .name }}|{{ len ._QP }}|{{ ._RC.View.TemplateExt }}`,
		"q.html": `{{ index ._QP "q" }}`,
	})
	e.AddGlobal("name", "global")

	req := e.With(GlobalQuery, map[string]any{"q": "shoes"})
	got, err := req.Render("g.html", map[string]any{"name": "data"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "data|1|"+cfg.View.TemplateExt {
		t.Fatalf("got %s", got)
	}
	if got, _ := req.Render("q.html", nil); got != "shoes" {
		t.Fatalf("query global got %s", got)
	}

	// The base engine keeps its own _QP.
	got, err = e.Render("g.html", nil)
	if err != nil {
		t.Fatalf("Render base: %v", err)
	}
	if got != "global|0|html" {
		t.Fatalf("base got %s", got)
	}
}

func TestRender_CacheAndAutoReload(t *testing.T) {
	e, cfg := setup(t, map[string]string{"c.html": "one"})
	file := filepath.Join(cfg.View.TemplatesDir, "c.html")

	if got, _ := e.Render("c.html", nil); got != "one" {
		t.Fatalf("got %s", got)
	}
	if err := os.WriteFile(file, []byte("two"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got, _ := e.Render("c.html", nil); got != "one" {
		t.Fatalf("cached set not used, got %s", got)
	}

	cfg.View.AutoReload = true
	if got, _ := e.Render("c.html", nil); got != "two" {
		t.Fatalf("auto reload ignored, got %s", got)
	}
}

func TestPagesAndWarm(t *testing.T) {
	e, _ := setup(t, map[string]string{
		"index.html":     "i",
		"blog/post.html": "p",
		"notes.txt":      "skip",
	})

	pages, err := e.Pages()
	if err != nil {
		t.Fatalf("Pages: %v", err)
	}
	want := []string{"_widgets/menu/top.html", "blog/post.html", "index.html"}
	if strings.Join(pages, ",") != strings.Join(want, ",") {
		t.Fatalf("pages = %v, want %v", pages, want)
	}
	if err := e.Warm(); err != nil {
		t.Fatalf("Warm: %v", err)
	}
	if n := e.sets.lru.Len(); n != len(want) {
		t.Fatalf("cached sets = %d, want %d", n, len(want))
	}

	// A second Warm starts from an empty cache and re-parses.
	writeFiles(t, e.cfg.View.TemplatesDir, map[string]string{"index.html": "changed"})
	if err := e.Warm(); err != nil {
		t.Fatalf("Warm again: %v", err)
	}
	if got, _ := e.Render("index.html", nil); got != "changed" {
		t.Fatalf("Warm kept a stale set, got %s", got)
	}
}
