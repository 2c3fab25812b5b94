package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jrsteele09/homecare-session/auth"
	"github.com/jrsteele09/homecare-session/internal/config"
	"github.com/jrsteele09/homecare-session/internal/metrics"
	"github.com/jrsteele09/homecare-session/sessions"
	"github.com/jrsteele09/homecare-session/sessions/memstore"
	"github.com/jrsteele09/homecare-session/sessions/redisstore"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const usage = `usage: homecarectl [flags] <command> [args]

commands:
  login                      log in with -role, -user and -password
  whoami                     print the cached profile
  refresh                    exchange the refresh token for a new access token
  logout                     drop the session
  list <collection>          appointments, nurses, patients, billings or reports
  get <collection> <id>
  delete <collection> <id>
  pay <billing id>           mark an invoice as paid
  nurse-patients <nurse id>
  nurse-reports <nurse id>
  my-reports                 reports about the logged in patient

flags:
`

// Exit codes
const (
	exitOK      = 0
	exitError   = 1
	exitUsage   = 2
	exitSession = 3
)

func main() {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, config.New(), os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	baseURL  string
	role     string
	userID   string
	password string
	verbose  bool
	metrics  bool
}

func run(ctx context.Context, cfg config.Config, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("homecarectl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}

	var opts options
	fs.StringVar(&opts.baseURL, "api", cfg.GetAPIBaseURL(), "API base URL")
	fs.StringVar(&opts.role, "role", "admin", "login role: admin, nurse or patient")
	fs.StringVar(&opts.userID, "user", "", "user id; logs in before the command when no session is stored")
	fs.StringVar(&opts.password, "password", os.Getenv("HOMECARE_PASSWORD"), "password (defaults to $HOMECARE_PASSWORD)")
	fs.BoolVar(&opts.verbose, "v", false, "debug logging")
	fs.BoolVar(&opts.metrics, "metrics", false, "print client metrics to stderr on exit")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return exitUsage
	}

	logger := newLogger(cfg, stderr, opts.verbose)

	store, closeStore, err := newStore(cfg)
	if err != nil {
		logger.Error().Err(err).Msg("failed to open session store")
		return exitError
	}
	defer closeStore()

	registry := prometheus.NewRegistry()
	client, err := auth.NewClient(opts.baseURL, store,
		auth.WithHTTPClient(&http.Client{Timeout: cfg.GetRequestTimeout()}),
		auth.WithRefreshTimeout(cfg.GetRefreshTimeout()),
		auth.WithLogger(logger),
		auth.WithMetrics(metrics.NewClientMetrics(registry)),
	)
	if err != nil {
		logger.Error().Err(err).Msg("failed to create client")
		return exitError
	}
	if opts.metrics {
		defer printMetrics(stderr, registry)
	}

	cmd := &command{client: client, opts: opts, out: stdout, notice: stderr}
	err = cmd.dispatch(ctx, fs.Arg(0), fs.Args()[1:])
	return reportError(stderr, err)
}

func newLogger(cfg config.Config, w io.Writer, verbose bool) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.GetLogLevel())
	if err != nil || level < zerolog.WarnLevel {
		level = zerolog.WarnLevel
	}
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Str("app", "homecarectl").Logger()
}

// newStore opens the configured session store. The memory store only lives as long as the process,
// so it is mostly useful together with -user.
func newStore(cfg config.StoreConfig) (sessions.Store, func(), error) {
	switch backend := cfg.GetSessionBackend(); backend {
	case config.SessionBackendMemory:
		return memstore.New(), func() {}, nil
	case config.SessionBackendRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.GetRedisAddr(),
			Password: cfg.GetRedisPassword(),
			DB:       cfg.GetRedisDB(),
		})
		store, err := redisstore.New(rdb, cfg.GetSessionKey(), cfg.GetSessionTTL())
		if err != nil {
			_ = rdb.Close()
			return nil, nil, err
		}
		return store, func() { _ = rdb.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown session backend %q", backend)
	}
}

func reportError(w io.Writer, err error) int {
	if err == nil {
		return exitOK
	}
	var usageErr usageError
	if errors.As(err, &usageErr) {
		fmt.Fprintf(w, "%s\n\n%s", usageErr, usage)
		return exitUsage
	}
	var authErr *auth.AuthError
	if errors.As(err, &authErr) && authErr.Kind != auth.KindInvalidCredentials {
		fmt.Fprintf(w, "%s\nlog in again (console route %s)\n", authErr, authErr.LoginPath())
		return exitSession
	}
	fmt.Fprintln(w, err)
	return exitError
}
