// Package metrics holds Prometheus instruments for the view layer.  All
// collectors are registered with the global registry, so importing this
// package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RenderTotal counts executed renders.  pass is "first" or "second".
	RenderTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "view_render_total",
			Help: "Number of template renders, split by evaluation pass.",
		}, []string{"pass"})

	// WidgetDispatchTotal counts widget dispatches by outcome: "ok",
	// "handler_not_found", "template_not_found", or "error".
	WidgetDispatchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "widget_dispatch_total",
			Help: "Number of widget dispatches, split by result.",
		}, []string{"result"})

	AliasMissTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "alias_miss_total",
			Help: "Number of getUrl calls for aliases missing from the table.",
		})

	PaginationBuildTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pagination_build_total",
			Help: "Number of pagination blocks built.",
		})
)

func init() {
	prometheus.MustRegister(
		RenderTotal,
		WidgetDispatchTotal,
		AliasMissTotal,
		PaginationBuildTotal,
	)
}
