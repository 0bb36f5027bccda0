// internal/widget/registry.go
//
// Widget class registry.
//
// A **Widget** is a named unit that supplies data to a companion template
// fragment.  Each concrete widget lives under its component folder
// (`components/<comp>/widgets/<name>.go`) and registers itself during
// init():
//
//	func init() {
//	    widget.Register(widget.Define("App", "menu", newMenu,
//	        map[string]func(*Menu) (map[string]any, error){
//	            "top":    (*Menu).Top,
//	            "footer": (*Menu).Footer,
//	        }))
//	}
//
// The class id is `<namespace>.Widget.<PascalName>`, e.g. "App.Widget.Menu",
// and action keys are Pascal-cased, so "main_menu"/"top_items" and
// "MainMenu"/"TopItems" resolve to the same entry.
//
// Lookups return typed "not found" errors instead of reflecting on names.
package widget

import (
	"sort"
	"sync"

	"github.com/iancoleman/strcase"
)

// ActionFunc produces template data for one action of a constructed widget.
type ActionFunc func(instance any) (map[string]any, error)

// Class is a registered widget type: a constructor plus its actions.
type Class struct {
	ID      string
	New     func(args map[string]any) (any, error)
	Actions map[string]ActionFunc
}

// Define builds a Class from a typed constructor and typed actions.  The
// returned Class hides T so classes of different types share one registry.
func Define[T any](
	namespace, name string,
	newFn func(args map[string]any) (T, error),
	actions map[string]func(T) (map[string]any, error),
) Class {
	c := Class{
		ID: ClassID(namespace, name),
		New: func(args map[string]any) (any, error) {
			return newFn(args)
		},
		Actions: make(map[string]ActionFunc, len(actions)),
	}
	for action, fn := range actions {
		c.Actions[ActionKey(action)] = func(instance any) (map[string]any, error) {
			return fn(instance.(T))
		}
	}
	return c
}

// ClassID derives the canonical class id for a widget name.
func ClassID(namespace, name string) string {
	return namespace + ".Widget." + strcase.ToCamel(name)
}

// ActionKey derives the canonical action key.
func ActionKey(action string) string {
	return strcase.ToCamel(action)
}

// Registry is a concurrency-safe table of widget classes.
type Registry struct {
	mu      sync.RWMutex
	classes map[string]Class
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{classes: map[string]Class{}}
}

// Add registers c.  A duplicate id overwrites the earlier entry.
func (r *Registry) Add(c Class) {
	r.mu.Lock()
	r.classes[c.ID] = c
	r.mu.Unlock()
}

// Lookup returns the class for id.
func (r *Registry) Lookup(id string) (Class, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.classes[id]
	return c, ok
}

// IDs returns every registered class id, sorted.  Useful for tests and
// auto-documentation.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.classes))
	for id := range r.classes {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Default is the process-wide registry filled by component init() funcs.
var Default = NewRegistry()

// Register adds c to Default.
func Register(c Class) { Default.Add(c) }
