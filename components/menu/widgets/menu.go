// components/menu/widgets/menu.go
//
// Menu widget: site navigation for page templates.
//
//	{{ Widget_menu_top }}
//	{{ Widget_menu_top (dict "limit" 2 "active" "about") }}
//	{{ Widget_menu_footer }}
//
// Items carry route aliases, not URLs; the companion templates resolve them
// with getUrl so the alias table stays the single source of links.
package widgets

import (
	"fmt"

	"github.com/yanizio/adept-view/internal/widget"
)

// Item is one navigation entry.
type Item struct {
	Label  string
	Alias  string
	Active bool
}

// Menu is the widget instance built per call.
type Menu struct {
	limit  int
	active string
}

var topItems = []Item{
	{Label: "Home", Alias: "home"},
	{Label: "About", Alias: "about"},
	{Label: "Products", Alias: "products"},
	{Label: "Contact", Alias: "contact"},
}

var footerItems = []Item{
	{Label: "Privacy", Alias: "privacy"},
	{Label: "Logout", Alias: "logout"},
}

// New reads the optional "limit" (int ≥ 0) and "active" (alias) args.
func New(args map[string]any) (*Menu, error) {
	m := &Menu{}
	if v, ok := args["limit"]; ok {
		n, ok := v.(int)
		if !ok || n < 0 {
			return nil, fmt.Errorf("menu: limit must be a non-negative int, got %v", v)
		}
		m.limit = n
	}
	if v, ok := args["active"].(string); ok {
		m.active = v
	}
	return m, nil
}

// Top returns the header navigation.
func (m *Menu) Top() (map[string]any, error) {
	return map[string]any{"items": m.items(topItems)}, nil
}

// Footer returns the footer links.
func (m *Menu) Footer() (map[string]any, error) {
	return map[string]any{"items": m.items(footerItems)}, nil
}

func (m *Menu) items(src []Item) []Item {
	n := len(src)
	if m.limit > 0 && m.limit < n {
		n = m.limit
	}
	out := make([]Item, n)
	copy(out, src[:n])
	for i := range out {
		out[i].Active = out[i].Alias == m.active
	}
	return out
}

func init() {
	widget.Register(widget.Define("App", "menu", New,
		map[string]func(*Menu) (map[string]any, error){
			"top":    (*Menu).Top,
			"footer": (*Menu).Footer,
		}))
}
