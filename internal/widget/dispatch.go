// internal/widget/dispatch.go
//
// Widget dispatch: (name, action, args) → rendered HTML.
//
// Sequence
// --------
//  1. Pascal-case name and action; derive "<ns>.Widget.<Name>".
//  2. Resolve the class            → ErrHandlerNotFound.
//  3. Resolve the action           → ErrHandlerNotFound.
//  4. Resolve the companion file   → ErrTemplateNotFound.
//     _widgets/<snake(name)>/<args["template"] | snake(action).<ext>>
//  5. Construct the class with args and run the action.
//  6. Render the file with the action's data through the Renderer.
//
// The file check runs before the action so a missing template never
// triggers the action's side effects.
//
// Every failure aborts the enclosing render.  There are no retries.

package widget

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/iancoleman/strcase"
	"go.uber.org/zap"

	"github.com/yanizio/adept-view/internal/config"
	"github.com/yanizio/adept-view/internal/metrics"
)

// Renderer renders a named template file with data.  Implemented by
// *view.Engine; defined here so this package does not import view.
type Renderer interface {
	RenderFile(name string, data map[string]any) (string, error)
}

// Request is one widget invocation.
type Request struct {
	Name   string
	Action string
	Args   map[string]any
}

// Result is a resolved widget: the template to render and its data.
type Result struct {
	TemplateFile string
	Data         map[string]any
}

// Dispatcher resolves and renders widgets for one engine.
type Dispatcher struct {
	reg      *Registry
	renderer Renderer
	cfg      *config.Config
}

// NewDispatcher binds a registry, renderer, and config.  reg == nil uses
// Default.
func NewDispatcher(reg *Registry, r Renderer, cfg *config.Config) *Dispatcher {
	if reg == nil {
		reg = Default
	}
	return &Dispatcher{reg: reg, renderer: r, cfg: cfg}
}

// Dispatch resolves the widget and renders its template.
func (d *Dispatcher) Dispatch(name, action string, args map[string]any) (string, error) {
	res, err := d.Resolve(Request{Name: name, Action: action, Args: args})
	if err != nil {
		return "", err
	}

	out, err := d.renderer.RenderFile(res.TemplateFile, res.Data)
	if err != nil {
		metrics.WidgetDispatchTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("widget %s_%s: render %s: %w", name, action, res.TemplateFile, err)
	}

	metrics.WidgetDispatchTotal.WithLabelValues("ok").Inc()
	zap.L().Debug("widget dispatched",
		zap.String("widget", name),
		zap.String("action", action),
		zap.String("template", res.TemplateFile))
	return out, nil
}

// Resolve runs steps 1-5: class, action, template file, and action data.
func (d *Dispatcher) Resolve(req Request) (Result, error) {
	if req.Args == nil {
		req.Args = map[string]any{}
	}

	id := ClassID(d.cfg.View.AppNamespace, req.Name)
	class, ok := d.reg.Lookup(id)
	if !ok {
		metrics.WidgetDispatchTotal.WithLabelValues("handler_not_found").Inc()
		return Result{}, fmt.Errorf("%w: widget %s_%s has no class %s",
			ErrHandlerNotFound, req.Name, req.Action, id)
	}

	act, ok := class.Actions[ActionKey(req.Action)]
	if !ok {
		metrics.WidgetDispatchTotal.WithLabelValues("handler_not_found").Inc()
		return Result{}, fmt.Errorf("%w: widget %s has no action %s",
			ErrHandlerNotFound, id, ActionKey(req.Action))
	}

	file, err := d.templateFile(req)
	if err != nil {
		label := "error"
		if IsTemplateNotFound(err) {
			label = "template_not_found"
		}
		metrics.WidgetDispatchTotal.WithLabelValues(label).Inc()
		return Result{}, err
	}

	instance, err := class.New(req.Args)
	if err != nil {
		metrics.WidgetDispatchTotal.WithLabelValues("error").Inc()
		return Result{}, fmt.Errorf("widget %s: construct: %w", id, err)
	}
	data, err := act(instance)
	if err != nil {
		metrics.WidgetDispatchTotal.WithLabelValues("error").Inc()
		return Result{}, fmt.Errorf("widget %s.%s: %w", id, ActionKey(req.Action), err)
	}
	if data == nil {
		data = map[string]any{}
	}

	return Result{TemplateFile: file, Data: data}, nil
}

// templateFile returns the template name relative to TemplatesDir after
// checking the file exists.  A non-nil "template" arg must be a non-empty
// string; nil means the default file.
func (d *Dispatcher) templateFile(req Request) (string, error) {
	base := strcase.ToSnake(req.Action) + "." + d.cfg.View.TemplateExt
	if v := req.Args["template"]; v != nil {
		s, isStr := v.(string)
		if !isStr || s == "" {
			return "", fmt.Errorf("widget %s_%s: template arg must be a non-empty string, got %#v",
				req.Name, req.Action, v)
		}
		base = s
	}

	name := path.Join("_widgets", strcase.ToSnake(req.Name), base)
	full := filepath.Join(d.cfg.View.TemplatesDir, filepath.FromSlash(name))
	if _, err := os.Stat(full); err != nil {
		return "", fmt.Errorf("%w: %s needed by %s_%s at %s",
			ErrTemplateNotFound, base, req.Name, req.Action, full)
	}
	return name, nil
}
