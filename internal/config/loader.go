// internal/config/loader.go
//
// Configuration loader.
//
/*
Context
--------
`Load()` builds one immutable `Config` struct from four layers (highest
precedence last):

  1. Built-in defaults from Default(), via the confmap provider.
  2. Optional `.env` file at `<root>/conf/.env` (fills the process env).
  3. `conf/view.yaml`, when present.
  4. Environment variables prefixed `ADEPT_`, where `__` maps to “.”
     (e.g., `ADEPT_RUNTIME__BASE_URL → runtime.base_url`).

After merging, the tree is unmarshalled into strongly-typed structs,
validated, and enriched with the runtime root path.  The caller owns the
result; cmd/web hands the same pointer to every package.

Instrumentation
---------------
  • DEBUG spans – root discovery, YAML read.
  • ERROR spans – YAML parse, env overlay, unmarshal, validation failures.
  • INFO  span  – final “config loaded” with key highlights.
  • Logs use the global *sugared* logger (`zap.S()`) so early boot issues
    surface even before the file logger is installed.

Notes
-----
  • `rootDir()` climbs the cwd tree until it finds `conf/view.yaml`; this
    lets `go run ./cmd/web` work from any sub-directory.
  • A relative `view.templates_dir` is resolved against the root.
  • Alias names must not contain "." (the koanf key delimiter).
  • Oxford commas, two spaces after periods.
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

const (
	envPrefix = "ADEPT_"
	confFile  = "view.yaml"
)

/*──────────────────────────── root discovery ───────────────────────────────*/

// rootDir resolves ADEPT_ROOT or climbs directories until conf/view.yaml
// is found.  Falls back to the working directory.
func rootDir() string {
	if r := os.Getenv("ADEPT_ROOT"); r != "" {
		return r
	}

	wd, _ := os.Getwd()
	dir := wd
	for {
		if _, err := os.Stat(filepath.Join(dir, "conf", confFile)); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir { // reached filesystem root
			break
		}
		dir = parent
	}
	return wd
}

/*─────────────────────────────── loader ───────────────────────────────────*/

// Load discovers the root directory and calls LoadFrom.
func Load() (*Config, error) {
	root := rootDir()
	zap.S().Debugw("config root resolved", "root", root)
	return LoadFrom(root)
}

// LoadFrom reads defaults, .env, YAML, and env overrides relative to root,
// validates, and caches the result.
func LoadFrom(root string) (*Config, error) {
	// .env (optional, no error if missing)
	_ = godotenv.Load(filepath.Join(root, "conf", ".env"))

	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, err
	}

	yamlPath := filepath.Join(root, "conf", confFile)
	if err := k.Load(file.Provider(yamlPath), yaml.Parser()); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			zap.S().Errorw("config yaml load failed", "file", yamlPath, "err", err)
			return nil, err
		}
		zap.S().Debugw("config yaml absent, using defaults", "file", yamlPath)
	} else {
		zap.S().Debugw("config yaml loaded", "file", yamlPath)
	}

	// Env overrides: ADEPT_RUNTIME__BASE_URL → runtime.base_url
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.ReplaceAll(strings.TrimPrefix(s, envPrefix), "__", "."))
	}), nil); err != nil {
		zap.S().Errorw("config env overlay failed", "err", err)
		return nil, err
	}

	if err := checkAliasNames(k); err != nil {
		zap.S().Errorw("config alias table rejected", "err", err)
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		zap.S().Errorw("config unmarshal failed", "err", err)
		return nil, err
	}

	cfg.Paths.Root = root
	if cfg.View.TemplatesDir != "" && !filepath.IsAbs(cfg.View.TemplatesDir) {
		cfg.View.TemplatesDir = filepath.Join(root, cfg.View.TemplatesDir)
	}
	cfg.Runtime.BaseURL = strings.TrimRight(cfg.Runtime.BaseURL, "/")

	if err := Validate(&cfg); err != nil {
		zap.S().Errorw("config validation failed", "err", err)
		return nil, err
	}

	zap.S().Infow("config loaded",
		"base_url", cfg.Runtime.BaseURL,
		"templates_dir", cfg.View.TemplatesDir,
		"aliases", len(cfg.Runtime.Aliases),
		"root", cfg.Paths.Root,
	)
	return &cfg, nil
}

// checkAliasNames rejects alias names containing ".".  The koanf delimiter
// splits such a name into a nested map, which would otherwise surface as an
// opaque unmarshal error.
func checkAliasNames(k *koanf.Koanf) error {
	for name, v := range k.Cut("runtime.aliases").Raw() {
		if sub, nested := v.(map[string]any); nested {
			for rest := range sub {
				return fmt.Errorf("config: alias %q: names must not contain dots", name+"."+rest)
			}
		}
	}
	return nil
}
