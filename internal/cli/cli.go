// Package cli implements the powertrack subcommands. Each subcommand
// is a thin wrapper: parse flags, call one client method, print the
// result as JSON to stdout or --output. Logs go to stderr so command
// output stays pipeable.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/powertrack-tools/powertrack/internal/api"
	"github.com/powertrack-tools/powertrack/internal/config"
	"github.com/powertrack-tools/powertrack/internal/portfolio"
)

// command is one subcommand of the tool.
type command struct {
	name    string
	summary string
	run     func(ctx context.Context, io *streams, args []string) error
}

// streams carries the process output channels so tests can capture
// them.
type streams struct {
	stdout io.Writer
	stderr io.Writer
}

func commands() []command {
	return []command{
		cmdFetchSiteList(),
		cmdGetSiteConfig(),
		cmdGetSiteData(),
		cmdGetSiteInfo(),
		cmdGetSiteOverview(),
		cmdGetPortfolioOverview(),
		cmdGetHardwareList(),
		cmdGetHardwareDetails(),
		cmdGetHardwareDiagnostics(),
		cmdGetDriverList(),
		cmdGetRegisterOffsets(),
		cmdGetAlertTriggers(),
		cmdGetAlertSummary(),
		cmdGetModelingData(),
		cmdGetChartData(),
		cmdGetChartDefinitions(),
		cmdCheckAuth(),
		cmdUpdateSiteConfig(),
		cmdUpdateModeling(),
		cmdApplyAlertUpdates(),
	}
}

// Run dispatches to a subcommand and returns the process exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printUsage(stderr)
		return 2
	}
	name := args[0]
	if name == "help" || name == "-h" || name == "--help" {
		printUsage(stdout)
		return 0
	}

	var cmd command
	found := false
	for _, c := range commands() {
		if c.name == name {
			cmd = c
			found = true
			break
		}
	}
	if !found {
		fmt.Fprintf(stderr, "powertrack: unknown command %q\n\n", name)
		printUsage(stderr)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.run(ctx, &streams{stdout: stdout, stderr: stderr}, args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 2
		}
		log := logrus.New()
		log.SetOutput(stderr)
		log.WithField("command", name).WithError(err).Error("command failed")
		return 1
	}
	return 0
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: powertrack <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, c := range commands() {
		fmt.Fprintf(w, "  %-26s %s\n", c.name, c.summary)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Every command accepts --mock, --config, --output and --verbose.")
	fmt.Fprintln(w, "Run 'powertrack <command> -h' for command flags.")
}

// commonFlags are accepted by every subcommand.
type commonFlags struct {
	mock       bool
	configPath string
	output     string
	verbose    bool
}

func newFlagSet(name string, stderr io.Writer, common *commonFlags) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.BoolVar(&common.mock, "mock", false, "serve deterministic fixture data instead of calling the platform")
	fs.StringVar(&common.configPath, "config", "", "path to a YAML config file")
	fs.StringVar(&common.output, "output", "", "write the JSON result to this file instead of stdout")
	fs.BoolVar(&common.verbose, "verbose", false, "debug logging in text format")
	return fs
}

// session is the wired-up toolbox a command runs with.
type session struct {
	cfg    *config.Config
	common *commonFlags
	client api.Client
	store  *portfolio.Store
	log    *logrus.Logger
	stdout io.Writer
}

// openSession loads configuration, validates it for the chosen mode
// and builds the client, the store and the logger.
func openSession(common *commonFlags, io *streams) (*session, error) {
	cfg, err := config.Load(common.configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(common.mock); err != nil {
		return nil, err
	}

	log := newLogger(cfg.Logging, common.verbose, io.stderr)

	var client api.Client
	if common.mock {
		client = api.NewMockClient(log)
	} else {
		client, err = api.NewHTTPClient(clientConfig(cfg.API), log)
		if err != nil {
			return nil, err
		}
	}

	if cfg.Metrics.Addr != "" {
		go serveMetrics(cfg.Metrics.Addr, log)
		log.WithField("addr", cfg.Metrics.Addr).Info("serving Prometheus metrics")
	}

	return &session{
		cfg:    cfg,
		common: common,
		client: client,
		store:  portfolio.NewStore(cfg.Portfolio.Dir, log),
		log:    log,
		stdout: io.stdout,
	}, nil
}

func (s *session) Close() {
	if err := s.client.Close(); err != nil {
		s.log.WithError(err).Warn("closing client")
	}
}

// emit writes doc as indented JSON to --output or stdout.
func (s *session) emit(doc any) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	data = append(data, '\n')
	if s.common.output != "" {
		if err := os.WriteFile(s.common.output, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", s.common.output, err)
		}
		s.log.WithField("path", s.common.output).Info("wrote result")
		return nil
	}
	_, err = s.stdout.Write(data)
	return err
}

func clientConfig(apiCfg config.APIConfig) api.ClientConfig {
	return api.ClientConfig{
		BaseURL:           apiCfg.BaseURL,
		Cookie:            apiCfg.Cookie,
		SessionToken:      apiCfg.SessionToken,
		VerificationToken: apiCfg.VerificationToken,
		Timeout:           time.Duration(apiCfg.TimeoutSeconds) * time.Second,
		MaxRetries:        apiCfg.MaxRetries,
		Backoff:           time.Duration(apiCfg.BackoffFactor * float64(time.Second)),
		RateLimit:         apiCfg.RateLimit,
		RateBurst:         apiCfg.RateBurst,
		CacheSize:         apiCfg.CacheSize,
	}
}

func newLogger(cfg config.LoggingConfig, verbose bool, out io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	if verbose {
		level = logrus.DebugLevel
	}
	log.SetLevel(level)

	if verbose || cfg.Format == "text" {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	return log
}

func serveMetrics(addr string, log *logrus.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.WithError(err).Warn("metrics listener stopped")
	}
}

// runFetch wraps the common read-only command shape: parse flags, open
// a session, call one client method, emit the result.
func runFetch(ctx context.Context, io *streams, name string, args []string,
	bind func(fs *flag.FlagSet),
	fetch func(ctx context.Context, sess *session) (any, error),
) error {
	var common commonFlags
	fs := newFlagSet(name, io.stderr, &common)
	if bind != nil {
		bind(fs)
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	sess, err := openSession(&common, io)
	if err != nil {
		return err
	}
	defer sess.Close()

	doc, err := fetch(ctx, sess)
	if err != nil {
		return err
	}
	return sess.emit(doc)
}
