// internal/config/model.go
//
// Typed configuration model for the view layer.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from four overlay layers:
//
//   • built-in defaults                       – Default(),
//   • optional `.env`                         – dotenv values,
//   • `conf/view.yaml`                        – primary static file,
//   • `ADEPT_`-prefixed environment overrides – highest precedence.
//
// Every recognised field is enumerated here.  Nothing is merged at render
// time; the engine receives one immutable *Config.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.
//   • Oxford commas, two spaces after periods.  No em-dash.

package config

//
// HTTP section
//

// HTTP holds web-server tunables for cmd/web.
type HTTP struct {
	ListenAddr string `koanf:"listen_addr" validate:"required,hostname_port"`
}

//
// Runtime section
//

// Runtime holds values templates read through getUrl and siteUrl.
type Runtime struct {
	// BaseURL is prefixed to every generated link.  No trailing slash.
	BaseURL string `koanf:"base_url" validate:"required,url"`

	// Aliases is the alias table: name → path pattern with {param} or
	// {param:modifier} placeholders.  Names must not contain ".".
	Aliases map[string]string `koanf:"aliases"`
}

//
// View section
//

// View holds template-engine settings.
type View struct {
	// TemplatesDir is the root every template name is resolved against.
	TemplatesDir string `koanf:"templates_dir" validate:"required"`

	// TemplateExt is the extension of widget templates, without the dot.
	TemplateExt string `koanf:"template_ext" validate:"required,alphanum"`

	// AppNamespace prefixes widget class ids: "<ns>.Widget.<Name>".
	AppNamespace string `koanf:"app_namespace" validate:"required"`

	// AutoReload re-parses templates on every render (development).
	AutoReload bool `koanf:"auto_reload"`

	// CacheSize caps the parsed-template LRU.
	CacheSize int `koanf:"cache_size" validate:"min=1"`
}

//
// Database section
//

// Database is optional.  When DSN is set, aliases are also read from the
// route_alias table.
type Database struct {
	DSN string `koanf:"dsn"`
}

//
// Log section
//

// Log controls the zap logger.
type Log struct {
	Dir   string `koanf:"dir"`
	Level string `koanf:"level" validate:"oneof=debug info warn error"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime, never set in YAML or env.
type Paths struct {
	Root string // ADEPT_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the aggregate returned by Load().  Treat as read-only once the
// view engine is built.
type Config struct {
	HTTP     HTTP     `koanf:"http"`
	Runtime  Runtime  `koanf:"runtime"`
	View     View     `koanf:"view"`
	Database Database `koanf:"database"`
	Log      Log      `koanf:"log"`

	// Dictionary is exposed to templates through the _RC global.
	Dictionary map[string]string `koanf:"dictionary"`

	Paths Paths `koanf:"-"` // not loaded from config files
}

// Default returns a Config with every default applied.  Tests and callers
// that do not read files start from here.
func Default() *Config {
	return &Config{
		HTTP: HTTP{ListenAddr: ":8080"},
		Runtime: Runtime{
			BaseURL: "http://127.0.0.1",
			Aliases: map[string]string{},
		},
		View: View{
			TemplatesDir: "templates",
			TemplateExt:  "html",
			AppNamespace: "App",
			CacheSize:    256,
		},
		Log:        Log{Level: "info"},
		Dictionary: map[string]string{},
	}
}

// defaults flattens Default() into koanf keys for the confmap provider.
func defaults() map[string]any {
	d := Default()
	return map[string]any{
		"http.listen_addr":   d.HTTP.ListenAddr,
		"runtime.base_url":   d.Runtime.BaseURL,
		"view.templates_dir": d.View.TemplatesDir,
		"view.template_ext":  d.View.TemplateExt,
		"view.app_namespace": d.View.AppNamespace,
		"view.auto_reload":   d.View.AutoReload,
		"view.cache_size":    d.View.CacheSize,
		"log.level":          d.Log.Level,
	}
}
