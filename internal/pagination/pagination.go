// internal/pagination/pagination.go
//
// Pagination markup builder.
//
// Context
// -------
// Templates call {{ Pagination .total .current .link }} to get a ready list
// of page links.  The caller controls the markup through four token
// templates; the defaults produce a Bootstrap-style <ul class="pagination">.
//
// Tokens
// ------
//   - Link      (page_num)
//   - Parent    (items)
//   - Item      (item_class), (link)
//   - LinkItem  (href), (link_class), (text)
//
// Windowing
// ---------
// Up to ten pages every index is rendered.  Above ten only the first
// PageGroupLimit pages, the current page plus one neighbour on each side,
// and the last three pages are rendered.  Each contiguous run of hidden
// pages collapses into a single Ellipsis.
//
// Notes
// -----
// • Current is not range-checked.  An out-of-range value simply marks no
//   page active and shifts the neighbourhood window.
// • Oxford commas, two spaces after periods.
package pagination

import (
	"strconv"
	"strings"

	"github.com/yanizio/adept-view/internal/metrics"
)

const (
	// PageGroupLimit is the size of the head window that is always shown.
	PageGroupLimit = 3

	// windowThreshold is the page count above which windowing applies.
	windowThreshold = 10

	// tailWindow is the number of trailing pages that are always shown.
	tailWindow = 3

	activeClass = "active"
)

// Default templates.  These exact strings are part of the template contract.
const (
	DefaultParent   = `<ul class="pagination">(items)</ul>`
	DefaultItem     = `<li class="(item_class)">(link)</li>`
	DefaultLinkItem = `<a href="(href)" class="(link_class)">(text)</a>`
	DefaultEllipsis = `<li><a>...</a></li>`
)

// Templates holds the markup fragments a pagination block is assembled from.
type Templates struct {
	Parent   string
	Item     string
	LinkItem string
	Ellipsis string
}

// DefaultTemplates returns the stock markup.
func DefaultTemplates() Templates {
	return Templates{
		Parent:   DefaultParent,
		Item:     DefaultItem,
		LinkItem: DefaultLinkItem,
		Ellipsis: DefaultEllipsis,
	}
}

// Request describes one pagination block.
type Request struct {
	Total   int    // number of pages, ≥ 0
	Current int    // 1-based current page
	Link    string // href template carrying (page_num)
	Templates
}

// item is the per-index state built and discarded on every iteration.
type item struct {
	index int
	class string
	href  string
	text  string
}

// Render is shorthand for Build(Request{...}).
func Render(total, current int, link string, t Templates) string {
	return Build(Request{Total: total, Current: current, Link: link, Templates: t})
}

// Build returns the pagination markup for r.
func Build(r Request) string {
	metrics.PaginationBuildTotal.Inc()

	var items strings.Builder
	windowed := r.Total > windowThreshold
	renderedEllipsis := false

	for i := 1; i <= r.Total; i++ {
		if windowed && !r.shown(i) {
			if !renderedEllipsis {
				items.WriteString(r.Ellipsis)
				renderedEllipsis = true
			}
			continue
		}
		renderedEllipsis = false
		items.WriteString(r.item(i).render(r.Templates))
	}

	return strings.ReplaceAll(r.Parent, "(items)", items.String())
}

// shown reports whether index i survives windowing.  The three ranges are
// independent; overlaps are harmless.
func (r Request) shown(i int) bool {
	return i <= PageGroupLimit ||
		(i >= r.Current-1 && i <= r.Current+1) ||
		i >= r.Total-(tailWindow-1)
}

func (r Request) item(i int) item {
	it := item{index: i, text: strconv.Itoa(i)}
	if i == r.Current {
		it.class = activeClass
	}
	it.href = strings.ReplaceAll(r.Link, "(page_num)", it.text)
	return it
}

// render substitutes the item into LinkItem, then the link into Item, then
// the item values into the combined string.  Each replacer pass is a single
// left-to-right scan.
func (it item) render(t Templates) string {
	values := strings.NewReplacer(
		"(item_class)", it.class,
		"(href)", it.href,
		"(link_class)", it.class,
		"(text)", it.text,
	)
	link := values.Replace(t.LinkItem)
	return values.Replace(strings.ReplaceAll(t.Item, "(link)", link))
}
