package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/erazemk/campuscare/internal/api"
	"github.com/erazemk/campuscare/internal/config"
	"github.com/erazemk/campuscare/internal/db"
	"github.com/erazemk/campuscare/internal/items"
	"github.com/erazemk/campuscare/internal/store"
	"github.com/erazemk/campuscare/internal/upload"
	"github.com/erazemk/campuscare/internal/web"
)

// levelRouter is a slog.Handler that routes INFO/WARN to stdout and ERROR+ to stderr.
type levelRouter struct {
	stdout slog.Handler
	stderr slog.Handler
}

func (lr *levelRouter) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelInfo
}

func (lr *levelRouter) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		return lr.stderr.Handle(ctx, r)
	}
	return lr.stdout.Handle(ctx, r)
}

func (lr *levelRouter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithAttrs(attrs),
		stderr: lr.stderr.WithAttrs(attrs),
	}
}

func (lr *levelRouter) WithGroup(name string) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithGroup(name),
		stderr: lr.stderr.WithGroup(name),
	}
}

// setupLogger configures structured logging. INFO/WARN go to stdout, ERROR goes
// to stderr. If logPath is non-empty, all levels are also written to that file.
// Returns a cleanup function that closes the log file (if opened).
func setupLogger(logPath string) (func(), error) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	var cleanup func()

	stdoutW := io.Writer(os.Stdout)
	stderrW := io.Writer(os.Stderr)

	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		cleanup = func() { f.Close() }
		stdoutW = io.MultiWriter(os.Stdout, f)
		stderrW = io.MultiWriter(os.Stderr, f)
	}

	handler := &levelRouter{
		stdout: slog.NewTextHandler(stdoutW, opts),
		stderr: slog.NewTextHandler(stderrW, opts),
	}
	slog.SetDefault(slog.New(handler))
	return cleanup, nil
}

func main() {
	cfg := config.Load()

	fs := flag.NewFlagSet("campuscare", flag.ContinueOnError)

	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "")
	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "")

	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "")
	fs.StringVar(&cfg.Addr, "a", cfg.Addr, "")

	fs.StringVar(&cfg.UploadDir, "uploads", cfg.UploadDir, "")
	fs.StringVar(&cfg.UploadDir, "u", cfg.UploadDir, "")

	fs.StringVar(&cfg.LogPath, "log", cfg.LogPath, "")
	fs.StringVar(&cfg.LogPath, "l", cfg.LogPath, "")

	fs.StringVar(&cfg.Storage, "storage", cfg.Storage, "")
	fs.BoolVar(&cfg.RequireLogin, "require-login", cfg.RequireLogin, "")
	fs.BoolVar(&cfg.SecureCookies, "secure-cookies", cfg.SecureCookies, "")

	fs.Usage = func() {
		fmt.Fprint(os.Stdout, `Usage: campuscare [flags]

Flags:
  -d, -db <path>          SQLite database path (default: campuscare.sqlite3, env CAMPUSCARE_DB)
  -a, -addr <host:port>   listen address (default: :8080, env CAMPUSCARE_ADDR)
  -u, -uploads <dir>      photo directory for disk storage (default: uploads, env CAMPUSCARE_UPLOADS)
  -l, -log <path>         log file path (default: no file, stdout/stderr only, env CAMPUSCARE_LOG)
  -storage <disk|minio>   where photos are kept (default: disk, env CAMPUSCARE_STORAGE)
  -require-login          only logged-in users may post reports (env CAMPUSCARE_REQUIRE_LOGIN)
  -secure-cookies         mark cookies Secure, for HTTPS deployments (env CAMPUSCARE_SECURE_COOKIES)
  -h, -help               show this help and exit

MinIO storage reads MINIO_ENDPOINT, MINIO_ACCESS_KEY, MINIO_SECRET_KEY,
MINIO_BUCKET and MINIO_USE_SSL from the environment.
`)
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if fs.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "unexpected argument: %s\n", fs.Arg(0))
		fs.Usage()
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// Set up structured logging: INFO/WARN → stdout, ERROR → stderr.
	// Optionally also write to a log file.
	closeLog, err := setupLogger(cfg.LogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if closeLog != nil {
		defer closeLog()
	}

	if err := run(cfg); err != nil {
		slog.Error("campuscare stopped", "error", err)
		os.Exit(1)
	}
}

// run opens storage, serves HTTP, and returns after a graceful shutdown.
func run(cfg *config.Config) error {
	ctx := context.Background()

	if _, err := os.Stat(cfg.DBPath); os.IsNotExist(err) {
		slog.Info("creating database", "path", cfg.DBPath)
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Ensure schema exists (idempotent).
	if err := db.EnsureSchema(database); err != nil {
		return fmt.Errorf("ensuring database schema: %w", err)
	}
	slog.Info("database ready", "path", cfg.DBPath)

	// Session signing key lives in the database so restarts keep users logged in.
	secret, err := store.GetSessionSecret(ctx, database)
	if err != nil {
		return fmt.Errorf("loading session secret: %w", err)
	}

	blobs, err := openUploadStore(ctx, cfg)
	if err != nil {
		return err
	}
	uploads := &upload.Handler{Store: blobs}

	// Set up routers.
	apiRouter := api.NewRouter(&items.Service{DB: database, Uploads: uploads})
	webRouter, err := web.NewRouter(database, secret, uploads, web.Options{
		RequireLogin:  cfg.RequireLogin,
		SecureCookies: cfg.SecureCookies,
	})
	if err != nil {
		return fmt.Errorf("setting up web router: %w", err)
	}

	// Combine: API routes take priority, web routes handle the rest.
	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)
	mux.Handle("/", webRouter)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.LoggingMiddleware(mux),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-quit
		slog.Info("shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("server started", "addr", cfg.Addr, "storage", cfg.Storage, "require_login", cfg.RequireLogin)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving: %w", err)
	}

	slog.Info("server stopped, closing database")
	return nil
}

// openUploadStore returns the configured photo store.
func openUploadStore(ctx context.Context, cfg *config.Config) (upload.Store, error) {
	switch cfg.Storage {
	case config.StorageMinio:
		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		s, err := upload.NewMinioStore(ctx, cfg.Minio)
		if err != nil {
			return nil, fmt.Errorf("connecting to minio: %w", err)
		}
		slog.Info("upload store ready", "storage", "minio", "endpoint", cfg.Minio.Endpoint, "bucket", cfg.Minio.Bucket)
		return s, nil
	default:
		s, err := upload.NewDiskStore(cfg.UploadDir)
		if err != nil {
			return nil, err
		}
		slog.Info("upload store ready", "storage", "disk", "dir", cfg.UploadDir)
		return s, nil
	}
}
