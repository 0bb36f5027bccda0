// internal/routing/alias.go
//
// Alias-to-URL resolution for templates.
//
// Context
// -------
// Sites address pages by symbolic alias instead of hard-coded paths.  The
// alias table maps a name to a path pattern that may carry placeholders:
//
//	about   → {lang}/about
//	product → {lang}/p/{id:[0-9]+}
//
// Templates call {{ getUrl "about" (dict "lang" "en_US") }} and receive an
// absolute URL.
//
// Substitution modes
// ------------------
//   1. Exact   ─ param "lang"  replaces the literal "{lang}".
//   2. Prefix  ─ param "id:"   replaces "{id:<anything>}", so placeholders
//      may embed modifiers the template author does not need to repeat.
//
// Params are applied in the order supplied.  Values are inserted verbatim;
// no encoding or validation is performed.
//
// Notes
// -----
// • An unknown alias is not an error.  Resolve returns "" so optional links
//   degrade to an empty href.
// • Oxford commas, two spaces after periods.
// • Max line length 100 columns.

package routing

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/yanizio/adept-view/internal/kv"
	"github.com/yanizio/adept-view/internal/metrics"
)

// -----------------------------------------------------------------------------
// AliasTable
// -----------------------------------------------------------------------------

// AliasTable maps alias names to path patterns.  Treat as read-only while a
// render is in flight.
type AliasTable map[string]string

// Merge returns a new table holding t overlaid with over.  Entries in over
// win on conflict.
func (t AliasTable) Merge(over AliasTable) AliasTable {
	out := make(AliasTable, len(t)+len(over))
	for k, v := range t {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}

// -----------------------------------------------------------------------------
// Resolve
// -----------------------------------------------------------------------------

// Resolve turns alias + params into baseURL + "/" + resolved path.  It
// returns "" when alias is absent from table.
func Resolve(baseURL string, table AliasTable, alias string, params *kv.Map) string {
	path, ok := table[alias]
	if !ok {
		metrics.AliasMissTotal.Inc()
		zap.L().Debug("alias miss", zap.String("alias", alias))
		return ""
	}

	if params != nil {
		for p := params.Oldest(); p != nil; p = p.Next() {
			path = substitute(path, p.Key, fmt.Sprint(p.Value))
		}
	}
	return baseURL + "/" + path
}

// prefixPatterns caches compiled prefix-mode patterns by param name.
var prefixPatterns sync.Map // string → *regexp.Regexp

// substitute applies one param to path.  A trailing colon selects prefix
// mode; anything else is an exact literal replacement.
func substitute(path, param, value string) string {
	if strings.HasSuffix(param, ":") {
		return prefixPattern(param).ReplaceAllLiteralString(path, value)
	}
	return strings.ReplaceAll(path, "{"+param+"}", value)
}

func prefixPattern(param string) *regexp.Regexp {
	if re, ok := prefixPatterns.Load(param); ok {
		return re.(*regexp.Regexp)
	}
	re := regexp.MustCompile(`(?si)\{` + regexp.QuoteMeta(param) + `(.*?)\}`)
	actual, _ := prefixPatterns.LoadOrStore(param, re)
	return actual.(*regexp.Regexp)
}
