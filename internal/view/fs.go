// fs.go holds the filesystem helpers behind template loading.  siblings
// builds one parse set; Pages walks the whole tree so startup can parse
// every page once and fail fast.
package view

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// siblings returns name plus every file with ext in the same directory,
// as slash paths relative to root.  name is always first.
func siblings(root, name, ext string) ([]string, error) {
	dir := path.Dir(name)
	entries, err := os.ReadDir(filepath.Join(root, filepath.FromSlash(dir)))
	if err != nil {
		return nil, err
	}

	files := []string{name}
	for _, ent := range entries {
		if ent.IsDir() || !hasExt(ent.Name(), ext) {
			continue
		}
		f := path.Join(dir, ent.Name())
		if f != name {
			files = append(files, f)
		}
	}
	return files, nil
}

// Pages walks TemplatesDir and returns every template with the configured
// extension, as slash paths relative to the root, sorted.
func (e *Engine) Pages() ([]string, error) {
	root := e.cfg.View.TemplatesDir
	var files []string

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !hasExt(d.Name(), e.cfg.View.TemplateExt) {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// Warm drops every cached set and parses every page again.  The first
// parse error is returned.  With AutoReload on it only validates.
func (e *Engine) Warm() error {
	pages, err := e.Pages()
	if err != nil {
		return err
	}
	e.sets.lru.Purge()
	for _, p := range pages {
		if _, err := e.load(p); err != nil {
			return err
		}
	}
	zap.L().Debug("templates warmed",
		zap.Int("pages", len(pages)),
		zap.Int("cached", e.sets.lru.Len()))
	return nil
}

func hasExt(file, ext string) bool {
	return strings.HasSuffix(strings.ToLower(file), "."+strings.ToLower(ext))
}
