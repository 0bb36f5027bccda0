// internal/server/server.go
//
// HTTP surface for the view engine.
//
// Routes
// ------
//   - GET /metrics  – Prometheus exposition (promhttp).
//   - GET /*        – render "<path>.<ext>" under TemplatesDir; "/" and any
//     path ending in "/" render "index.<ext>" in that directory.
//
// The request query is exposed to the page as the _QP global, built by
// view.QueryGlobal so query text can never open a template action.  A missing
// template is a 404; any other render failure is a 500 and is logged.
// Paths whose first segment starts with "_" (e.g. /_widgets/…) are never
// served; those files are fragments.
//
// Timeouts follow common production hardening:
//
//   • ReadHeaderTimeout – abort slow-loris headers (5 s)
//   • ReadTimeout       – cap request body time (10 s)
//   • WriteTimeout      – cap total response time (15 s)
//   • IdleTimeout       – close keep-alives on idle clients (60 s)

package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/yanizio/adept-view/internal/config"
	"github.com/yanizio/adept-view/internal/middleware"
	"github.com/yanizio/adept-view/internal/view"
)

// New constructs an *http.Server for cfg with sensible timeouts.
func New(cfg config.HTTP, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// Routes builds the router over v.
func Routes(cfg *config.Config, v view.View) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.Security)
		r.Get("/*", pageHandler(cfg, v))
	})
	return r
}

// Serve runs srv until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, srv *http.Server) error {
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func pageHandler(cfg *config.Config, v view.View) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, ok := templateName(r.URL.Path, cfg.View.TemplateExt)
		if !ok {
			http.NotFound(w, r)
			return
		}

		out, err := v.With(view.GlobalQuery, view.QueryGlobal(r.URL.Query())).Render(name, nil)
		switch {
		case errors.Is(err, view.ErrNotFound):
			http.NotFound(w, r)
			return
		case err != nil:
			zap.L().Error("render failed",
				zap.String("template", name),
				zap.String("path", r.URL.Path),
				zap.Error(err))
			http.Error(w, "template error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(out))
	}
}

// templateName maps a URL path to a template name.  ok is false for
// fragment paths.
func templateName(urlPath, ext string) (string, bool) {
	p := strings.TrimPrefix(urlPath, "/")
	if p == "" || strings.HasSuffix(p, "/") {
		p += "index"
	}
	if strings.HasPrefix(p, "_") || strings.Contains(p, "/_") {
		return "", false
	}
	return p + "." + ext, true
}
