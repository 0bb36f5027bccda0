// cmd/web/main.go
//
// adept-view – HTTP entry point.
//
// Start-up sequence
// -----------------
//
//  1. Load configuration (defaults → conf/.env → conf/view.yaml → ADEPT_*).
//
//  2. Start daily rotating logger (tees to console when running in a TTY).
//
//  3. When database.dsn is set, read the route_alias table and overlay the
//     config-file aliases on top of it.
//
//  4. Build the view engine over widget.Default and parse every template
//     once so syntax errors stop the boot.
//
//  5. Serve pages and /metrics until SIGINT or SIGTERM.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yanizio/adept-view/internal/config"
	"github.com/yanizio/adept-view/internal/database"
	"github.com/yanizio/adept-view/internal/logger"
	"github.com/yanizio/adept-view/internal/routing"
	"github.com/yanizio/adept-view/internal/server"
	"github.com/yanizio/adept-view/internal/view"
	"github.com/yanizio/adept-view/internal/widget"

	_ "github.com/yanizio/adept-view/components/menu/widgets" // App.Widget.Menu
)

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logOut, err := logger.New(cfg.Log, cfg.Paths.Root, runningInTTY())
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}
	defer logOut.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//
	// ── 1.  Alias table from SQL (optional) ─────────────────────────────
	//
	if cfg.Database.DSN != "" {
		if err := loadAliases(ctx, cfg); err != nil {
			logOut.Fatalw("alias table", "err", err)
		}
	}
	logOut.Infow("alias table ready", "aliases", len(cfg.Runtime.Aliases))

	//
	// ── 2.  View engine ─────────────────────────────────────────────────
	//
	engine, err := view.New(cfg, widget.Default, nil)
	if err != nil {
		logOut.Fatalw("view engine", "err", err)
	}
	if err := engine.Warm(); err != nil {
		logOut.Fatalw("parse templates", "dir", cfg.View.TemplatesDir, "err", err)
	}
	logOut.Infow("widgets registered", "classes", widget.Default.IDs())

	//
	// ── 3.  HTTP ────────────────────────────────────────────────────────
	//
	srv := server.New(cfg.HTTP, server.Routes(cfg, engine))
	logOut.Infow("listening", "addr", cfg.HTTP.ListenAddr, "base_url", cfg.Runtime.BaseURL)
	if err := server.Serve(ctx, srv); err != nil {
		logOut.Fatalw("http server", "err", err)
	}
	logOut.Info("shut down")
}

// loadAliases merges route_alias rows under the config-file aliases.  It
// runs before the engine is built, so mutating cfg here is safe.
func loadAliases(ctx context.Context, cfg *config.Config) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := database.Open(ctx, cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer db.Close()

	fromDB, err := routing.LoadAliases(ctx, db)
	if err != nil {
		return err
	}
	cfg.Runtime.Aliases = fromDB.Merge(routing.AliasTable(cfg.Runtime.Aliases))
	return nil
}
