// Command squadrank ranks football players within their role and serves the
// resulting leaderboards.
//
//	squadrank [rank|serve|collect] [flags]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/squadrank/internal/adapters/csvtable"
	"github.com/okian/squadrank/internal/adapters/http/api"
	"github.com/okian/squadrank/internal/adapters/http/swagger"
	service "github.com/okian/squadrank/internal/app"
	"github.com/okian/squadrank/internal/config"
	"github.com/okian/squadrank/internal/domain/enrich"
	"github.com/okian/squadrank/internal/report"
	"github.com/okian/squadrank/pkg/logger"
	"github.com/okian/squadrank/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

// Subcommands.
const (
	cmdRank    = "rank"
	cmdServe   = "serve"
	cmdCollect = "collect"
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one subcommand and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := cmdRank
	if len(args) > 0 && len(args[0]) > 0 && args[0][0] != '-' {
		cmd, args = args[0], args[1:]
	}
	switch cmd {
	case cmdRank, cmdServe, cmdCollect:
	default:
		fmt.Fprintf(stderr, "squadrank: unknown command %q (want rank, serve or collect)\n", cmd)
		return 2
	}

	fl := newFlags(cmd, stderr)
	if err := fl.fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if err := logger.InitWithWriter(stderr); err != nil {
		fmt.Fprintf(stderr, "squadrank: failed to initialize logging: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	// Load configuration (defaults -> optional file -> env -> flags)
	cfg, err := config.Load(ctx, fl.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "squadrank: %v\n", err)
		return 1
	}
	fl.apply(cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "squadrank: %v\n", err)
		return 1
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	switch cmd {
	case cmdServe:
		err = serve(ctx, cfg, nil)
	case cmdCollect:
		err = collect(ctx, cfg, stdout)
	default:
		err = rank(ctx, cfg, stdout)
	}
	if err != nil {
		fmt.Fprintf(stderr, "squadrank: %v\n", err)
		return 1
	}
	return 0
}

// cliFlags holds the command line overrides of the configuration.
type cliFlags struct {
	fs          *flag.FlagSet
	configPath  string
	in          string
	out         string
	min90s      float64
	top         int
	logLevel    string
	metricsFile string
	addr        string
}

func newFlags(cmd string, stderr io.Writer) *cliFlags {
	f := &cliFlags{fs: flag.NewFlagSet("squadrank "+cmd, flag.ContinueOnError)}
	f.fs.SetOutput(stderr)
	f.fs.StringVar(&f.configPath, "config", "", "YAML config file (default $"+config.EnvConfigFile+")")
	f.fs.StringVar(&f.in, "in", "", "input snapshot CSV")
	f.fs.StringVar(&f.out, "out", "", "ranked output CSV")
	f.fs.Float64Var(&f.min90s, "min90s", 0, "eligibility floor on 90s Played")
	f.fs.IntVar(&f.top, "top", 0, "most underrated players listed per role")
	f.fs.StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error")
	f.fs.StringVar(&f.metricsFile, "metrics-file", "", "Prometheus textfile written after the run")
	f.fs.StringVar(&f.addr, "addr", "", "listen address for serve")
	return f
}

// apply copies the flags given on the command line onto cfg.
func (f *cliFlags) apply(cfg *config.Config) {
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "in":
			cfg.Input = f.in
		case "out":
			cfg.Output = f.out
		case "min90s":
			cfg.MinNineties = f.min90s
		case "top":
			cfg.TopUnderrated = f.top
		case "log-level":
			cfg.LogLevel = f.logLevel
		case "metrics-file":
			cfg.MetricsFile = f.metricsFile
		case "addr":
			cfg.Addr = f.addr
		}
	})
}

// newService builds the pipeline from cfg, loading the enrichment files.
func newService(cfg *config.Config) (*service.Service, error) {
	var records []enrich.Record
	for _, path := range cfg.Enrichment {
		t, err := csvtable.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("enrichment %s: %w", path, err)
		}
		records = append(records, enrich.Records(t)...)
	}
	return service.New(
		service.WithLogger(logger.Named("pipeline")),
		service.WithMinNineties(cfg.MinNineties),
		service.WithMarketValueColumns(cfg.MarketValueColumns...),
		service.WithTopN(cfg.TopUnderrated),
		service.WithEnrichment(records...),
	), nil
}

// runPipeline reads the input snapshot and ranks it.
func runPipeline(ctx context.Context, cfg *config.Config) (*service.Service, *service.Result, error) {
	svc, err := newService(cfg)
	if err != nil {
		return nil, nil, err
	}
	in, err := csvtable.ReadFile(cfg.Input)
	if err != nil {
		return nil, nil, err
	}
	res, err := svc.Run(ctx, in)
	if err != nil {
		return nil, nil, err
	}
	return svc, res, nil
}

func writeMetrics(ctx context.Context, cfg *config.Config) {
	if cfg.MetricsFile == "" {
		return
	}
	if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
		logger.Get().Warn(ctx, "metrics textfile not written", logger.Error(err))
	}
}

// rank writes the ranked table and prints the console report.
func rank(ctx context.Context, cfg *config.Config, stdout io.Writer) error {
	svc, res, err := runPipeline(ctx, cfg)
	if err != nil {
		return err
	}
	if err := csvtable.WriteFile(cfg.Output, res.Table); err != nil {
		return err
	}
	metrics.RecordRowsWritten(res.Table.Len())
	logger.Get().Info(ctx, "ranked table written",
		logger.String("path", cfg.Output),
		logger.Int("rows", res.Table.Len()),
		logger.String("run_id", res.Report.RunID),
	)
	fmt.Fprintf(stdout, "Saved: %s\n", cfg.Output)
	if err := report.Print(stdout, res.Table, svc.TopNSetting()); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	writeMetrics(ctx, cfg)
	return nil
}

// collect builds the input snapshot from saved pages.
func collect(ctx context.Context, cfg *config.Config, stdout io.Writer) error {
	src := service.Sources{ProfilesDir: cfg.ProfilesDir}
	for _, p := range cfg.FBrefPages {
		src.FBref = append(src.FBref, service.Source{Path: p.Path, Club: p.Club, League: p.League})
	}
	for _, p := range cfg.TransfermarktPages {
		src.Transfermarkt = append(src.Transfermarkt, service.Source{Path: p.Path, Club: p.Club, League: p.League})
	}
	if len(src.FBref) == 0 && len(src.Transfermarkt) == 0 {
		return fmt.Errorf("%w: collect needs fbref_pages or transfermarkt_pages", config.ErrInvalidConfig)
	}

	svc := service.New(
		service.WithLogger(logger.Named("pipeline")),
		service.WithWorkerCount(cfg.WorkerCount),
	)
	t, err := svc.Collect(ctx, src)
	if err != nil {
		return err
	}
	if err := csvtable.WriteFile(cfg.Input, t); err != nil {
		return err
	}
	metrics.RecordRowsWritten(t.Len())
	fmt.Fprintf(stdout, "Saved: %s (%d players)\n", cfg.Input, t.Len())
	writeMetrics(ctx, cfg)
	return nil
}

// serve ranks the input once and serves the leaderboards until ctx is done.
// ready, when set, receives the bound address.
func serve(ctx context.Context, cfg *config.Config, ready chan<- string) error {
	log := logger.Get()
	svc, res, err := runPipeline(ctx, cfg)
	if err != nil {
		return err
	}
	writeMetrics(ctx, cfg)

	// HTTP mux and routes.
	mux := http.NewServeMux()
	swagger.Register(mux)
	api.NewServer(svc, svc, cfg.MaxLeaderboardLimit).Register(mux)

	srv := &http.Server{
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Addr, err)
	}

	errc := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server",
			logger.String("addr", ln.Addr().String()),
			logger.String("run_id", res.Report.RunID),
			logger.Strings("boards", svc.Boards()),
		)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()
	if ready != nil {
		ready <- ln.Addr().String()
	}

	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
		return err
	}
	log.Info(ctx, "server stopped")
	return nil
}
