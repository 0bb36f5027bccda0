// internal/pagination/pagination_test.go
//
// Unit-tests for the pagination builder.
//
// Coverage
// --------
//   • Exact markup for the 20-page / current 8 scenario with defaults
//   • No ellipsis and every index for totals up to ten
//   • Ellipsis count and adjacency for large totals
//   • Single active item, empty total, and custom templates

package pagination

import (
	"strconv"
	"strings"
	"testing"
)

const link = "http://127.0.0.1/list?page_num=(page_num)"

func TestBuild_TwentyPagesCurrentEight(t *testing.T) {
	want := `<ul class="pagination">` +
		`<li class=""><a href="http://127.0.0.1/list?page_num=1" class="">1</a></li>` +
		`<li class=""><a href="http://127.0.0.1/list?page_num=2" class="">2</a></li>` +
		`<li class=""><a href="http://127.0.0.1/list?page_num=3" class="">3</a></li>` +
		`<li><a>...</a></li>` +
		`<li class=""><a href="http://127.0.0.1/list?page_num=7" class="">7</a></li>` +
		`<li class="active"><a href="http://127.0.0.1/list?page_num=8" class="active">8</a></li>` +
		`<li class=""><a href="http://127.0.0.1/list?page_num=9" class="">9</a></li>` +
		`<li><a>...</a></li>` +
		`<li class=""><a href="http://127.0.0.1/list?page_num=18" class="">18</a></li>` +
		`<li class=""><a href="http://127.0.0.1/list?page_num=19" class="">19</a></li>` +
		`<li class=""><a href="http://127.0.0.1/list?page_num=20" class="">20</a></li>` +
		`</ul>`

	got := Render(20, 8, link, DefaultTemplates())
	if got != want {
		t.Fatalf("markup mismatch\n got: %s\nwant: %s", got, want)
	}
}

func TestBuild_SmallTotalsShowEveryPage(t *testing.T) {
	for total := 0; total <= 10; total++ {
		got := Render(total, 1, "/p/(page_num)", DefaultTemplates())

		if strings.Contains(got, DefaultEllipsis) {
			t.Fatalf("total=%d: unexpected ellipsis in %s", total, got)
		}
		if n := strings.Count(got, "<li "); n != total {
			t.Fatalf("total=%d: %d items, want %d", total, n, total)
		}
		last := -1
		for i := 1; i <= total; i++ {
			pos := strings.Index(got, `href="/p/`+strconv.Itoa(i)+`"`)
			if pos < 0 || pos < last {
				t.Fatalf("total=%d: index %d missing or out of order", total, i)
			}
			last = pos
		}
	}
}

func TestBuild_EmptyTotal(t *testing.T) {
	got := Render(0, 1, link, DefaultTemplates())
	if got != `<ul class="pagination"></ul>` {
		t.Fatalf("got %q", got)
	}
}

func TestBuild_EllipsisRuns(t *testing.T) {
	for total := 11; total <= 40; total++ {
		for current := 1; current <= total; current++ {
			got := Render(total, current, link, DefaultTemplates())

			n := strings.Count(got, DefaultEllipsis)
			if n > 2 {
				t.Fatalf("total=%d current=%d: %d ellipses", total, current, n)
			}
			if strings.Contains(got, DefaultEllipsis+DefaultEllipsis) {
				t.Fatalf("total=%d current=%d: adjacent ellipses", total, current)
			}
			if a := strings.Count(got, `class="active"><a`); a != 1 {
				t.Fatalf("total=%d current=%d: %d active items", total, current, a)
			}
		}
	}
}

func TestBuild_CollapsedRunsMatchHiddenIndexes(t *testing.T) {
	tests := []struct {
		total, current, ellipses int
	}{
		{total: 11, current: 1, ellipses: 1},  // 1-3, 9-11
		{total: 11, current: 6, ellipses: 2},  // 1-3, 5-7, 9-11
		{total: 11, current: 4, ellipses: 1},  // 1-5, 9-11
		{total: 20, current: 19, ellipses: 1}, // 1-3, 18-20
		{total: 20, current: 5, ellipses: 1},  // 1-6, 18-20
	}
	for _, tt := range tests {
		got := Render(tt.total, tt.current, link, DefaultTemplates())
		if n := strings.Count(got, DefaultEllipsis); n != tt.ellipses {
			t.Errorf("total=%d current=%d: %d ellipses, want %d",
				tt.total, tt.current, n, tt.ellipses)
		}
	}
}

func TestBuild_OutOfRangeCurrentMarksNothing(t *testing.T) {
	got := Render(5, 9, link, DefaultTemplates())
	if strings.Contains(got, "active") {
		t.Fatalf("unexpected active item: %s", got)
	}
}

func TestBuild_CustomTemplates(t *testing.T) {
	tpl := Templates{
		Parent:   `<nav>(items)</nav>`,
		Item:     `<span data-c="(item_class)">(link)</span>`,
		LinkItem: `<a href="(href)">(text)</a>`,
		Ellipsis: `<span>…</span>`,
	}
	got := Build(Request{Total: 2, Current: 2, Link: "?p=(page_num)", Templates: tpl})
	want := `<nav><span data-c=""><a href="?p=1">1</a></span>` +
		`<span data-c="active"><a href="?p=2">2</a></span></nav>`
	if got != want {
		t.Fatalf("got %s\nwant %s", got, want)
	}
}
