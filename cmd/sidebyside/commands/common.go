package commands

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/sidebyside/internal/config"
	"git.home.luguber.info/inful/sidebyside/internal/logfields"
	"git.home.luguber.info/inful/sidebyside/internal/metrics"
	"git.home.luguber.info/inful/sidebyside/internal/pipeline"
)

// Global context passed to subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags. Translate is the default command, so running
// the binary without arguments renders every example.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"sidebyside.yaml" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Translate TranslateCmd `cmd:"" default:"withargs" help:"Render every example into a side-by-side fragment (default)"`
	Watch     WatchCmd     `cmd:"" help:"Render, then re-render whenever an example changes"`
	CSS       CSSCmd       `cmd:"" name:"css" help:"Write the highlighting stylesheet"`
	Init      InitCmd      `cmd:"" help:"Write a default configuration file"`
}

// AfterApply runs after flag parsing; it installs a logger honoring -v and
// the environment until the configuration file is read.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	slog.SetDefault(config.LoggingConfig{}.NewLogger(os.Stderr, c.Verbose))
	return nil
}

// session bundles what every rendering command needs.
type session struct {
	cfg      *config.Config
	paths    config.Paths
	logger   *slog.Logger
	registry *prom.Registry // nil when metrics are disabled
	pipeline *pipeline.Pipeline
}

// openSession loads configuration, configures logging and metrics and builds
// the pipeline.
func openSession(g *Global, root *CLI, opts ...pipeline.Option) (*session, error) {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return nil, err
	}
	paths, err := cfg.ResolvePaths()
	if err != nil {
		return nil, err
	}

	logger := cfg.Logging.NewLogger(os.Stderr, root.Verbose)
	slog.SetDefault(logger)
	if g != nil {
		g.Logger = logger
	}
	logger.Debug("Configuration loaded",
		logfields.Path(cfg.Source()),
		slog.String("root", paths.Root),
		slog.String("examples", paths.ExamplesDir),
		logfields.Output(paths.OutputDir))

	s := &session{cfg: cfg, paths: paths, logger: logger}
	all := []pipeline.Option{
		pipeline.WithLogger(logger),
		pipeline.WithProgressLogger(cfg.Logging.NewProgressLogger(os.Stderr, root.Verbose)),
	}
	if paths.MetricsTextfile != "" {
		s.registry = prom.NewRegistry()
		all = append(all, pipeline.WithRecorder(metrics.NewPrometheusRecorder(s.registry)))
	}
	all = append(all, opts...)

	p, err := pipeline.New(cfg, paths, all...)
	if err != nil {
		return nil, err
	}
	s.pipeline = p
	return s, nil
}

// flushMetrics writes the metrics textfile if one is configured. Failures
// are logged: metrics never change the outcome of a run.
func (s *session) flushMetrics() {
	if s.registry == nil {
		return
	}
	if err := metrics.WriteTextfile(s.registry, s.paths.MetricsTextfile); err != nil {
		s.logger.Warn("Failed to write metrics", logfields.Error(err))
	}
}

// signalContext is canceled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
