// Package pipeline renders every example into its side-by-side fragment.
//
// A run is strictly sequential: for each discovered example, in name order,
// the source is read, transformed by the external process, highlighted twice,
// composed and written before the next example starts. The first failure
// stops the run; fragments written before it stay on disk.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/sidebyside/internal/artifact"
	"git.home.luguber.info/inful/sidebyside/internal/config"
	"git.home.luguber.info/inful/sidebyside/internal/examples"
	ferrors "git.home.luguber.info/inful/sidebyside/internal/foundation/errors"
	"git.home.luguber.info/inful/sidebyside/internal/highlight"
	"git.home.luguber.info/inful/sidebyside/internal/layout"
	"git.home.luguber.info/inful/sidebyside/internal/logfields"
	"git.home.luguber.info/inful/sidebyside/internal/metrics"
	"git.home.luguber.info/inful/sidebyside/internal/transform"
)

// Pipeline holds everything a run needs. Build one with New.
type Pipeline struct {
	examplesDir string
	outputDir   string
	extension   string
	only        []string

	invoker     transform.Invoker
	highlighter highlight.Highlighter
	recorder    metrics.Recorder
	logger      *slog.Logger
	progress    *slog.Logger
}

// Option customises a Pipeline.
type Option func(*Pipeline)

// WithInvoker replaces the configured transform command.
func WithInvoker(inv transform.Invoker) Option {
	return func(p *Pipeline) { p.invoker = inv }
}

// WithHighlighter replaces the chroma highlighter.
func WithHighlighter(h highlight.Highlighter) Option {
	return func(p *Pipeline) { p.highlighter = h }
}

// WithRecorder enables metrics.
func WithRecorder(r metrics.Recorder) Option {
	return func(p *Pipeline) {
		if r != nil {
			p.recorder = r
		}
	}
}

// WithLogger sets the logger for run diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithProgressLogger sets the logger for the per-example "Translating
// example" line. It defaults to the run logger.
func WithProgressLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.progress = l
		}
	}
}

// WithOnly restricts runs to the named examples (basename or stem).
func WithOnly(names ...string) Option {
	return func(p *Pipeline) { p.only = names }
}

// New builds a pipeline for cfg with every location taken from paths.
// Collaborators not supplied through options are built from cfg.
func New(cfg *config.Config, paths config.Paths, opts ...Option) (*Pipeline, error) {
	p := &Pipeline{
		examplesDir: paths.ExamplesDir,
		outputDir:   paths.OutputDir,
		extension:   cfg.Examples.Extension,
		recorder:    metrics.NoopRecorder{},
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.progress == nil {
		p.progress = p.logger
	}
	if p.invoker == nil {
		p.invoker = transform.NewCommandInvoker(cfg.Transform.Command, paths.Root).
			WithTimeout(cfg.Transform.Timeout)
	}
	if p.highlighter == nil {
		h, err := highlight.NewChromaHighlighter(cfg.Highlight.Lexer, cfg.Highlight.Style)
		if err != nil {
			return nil, ferrors.ConfigError("invalid highlight configuration").WithCause(err).
				WithContext("lexer", cfg.Highlight.Lexer).
				Build()
		}
		p.highlighter = h
	}
	return p, nil
}

// Result summarises a run.
type Result struct {
	RunID     string
	Artifacts []artifact.Artifact
	Duration  time.Duration
}

// Run renders every example. On failure the returned Result lists the
// artifacts written before the failing example.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	res := &Result{RunID: uuid.NewString()}
	logger := p.logger.With(logfields.RunID(res.RunID))
	start := time.Now()

	err := p.run(ctx, logger, res)

	res.Duration = time.Since(start)
	p.recorder.ObserveRunDuration(res.Duration)
	switch {
	case err == nil:
		p.recorder.IncRunOutcome(metrics.ResultSuccess)
		logger.Info("Rendered examples",
			logfields.Count(len(res.Artifacts)),
			logfields.Output(p.outputDir),
			logfields.Duration(res.Duration))
	case ferrors.HasCategory(err, ferrors.CategoryRuntime):
		p.recorder.IncRunOutcome(metrics.ResultCanceled)
	default:
		p.recorder.IncRunOutcome(metrics.ResultFailed)
	}
	return res, err
}

func (p *Pipeline) run(ctx context.Context, logger *slog.Logger, res *Result) error {
	var files []examples.File
	err := p.timed(metrics.StageDiscover, func() error {
		var derr error
		files, derr = examples.Discover(p.examplesDir, p.extension)
		return derr
	})
	if err != nil {
		if errors.Is(err, examples.ErrDirectoryNotFound) {
			return ferrors.NotFoundError("examples directory not found").WithCause(err).
				WithContext("dir", p.examplesDir).
				Build()
		}
		return ferrors.FileSystemError("failed to list examples").WithCause(err).
			WithContext("dir", p.examplesDir).
			Build()
	}
	files = examples.Filter(files, p.extension, p.only)
	p.recorder.SetExamplesDiscovered(len(files))
	logger.Debug("Discovered examples", logfields.Count(len(files)), logfields.Path(p.examplesDir))

	progress := p.progress.With(logfields.RunID(res.RunID))
	writer := artifact.NewWriter(p.outputDir, p.extension)
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return canceled(err)
		}
		progress.Info("Translating example", logfields.File(file.Path))

		a, err := p.renderOne(ctx, logger, file, writer)
		if err != nil {
			p.recorder.IncFileResult(metrics.ResultFailed)
			return err
		}
		p.recorder.IncFileResult(metrics.ResultSuccess)
		res.Artifacts = append(res.Artifacts, a)
	}
	return nil
}

// renderOne takes a single example from source to written artifact.
func (p *Pipeline) renderOne(ctx context.Context, logger *slog.Logger, file examples.File, writer *artifact.Writer) (artifact.Artifact, error) {
	var original string
	if err := p.timed(metrics.StageRead, func() error {
		var rerr error
		original, rerr = examples.Read(file)
		return rerr
	}); err != nil {
		return artifact.Artifact{}, ferrors.FileSystemError("failed to read example").WithCause(err).
			WithContext("file", file.Path).
			Build()
	}

	var transformed string
	if err := p.timed(metrics.StageTransform, func() error {
		var terr error
		transformed, terr = p.invoker.Transform(ctx, file.Path)
		return terr
	}); err != nil {
		if ctx.Err() != nil {
			return artifact.Artifact{}, canceled(err)
		}
		b := ferrors.TransformError("transform failed").WithCause(err).
			WithContext("file", file.Path)
		var invErr *transform.InvocationError
		if errors.As(err, &invErr) {
			b = b.WithContext(logfields.KeyExitCode, invErr.ExitCode)
		}
		return artifact.Artifact{}, b.Build()
	}

	lines := layout.CountLines(original)
	var html string
	err := p.timed(metrics.StageHighlight, func() error {
		left, herr := highlight.Render(p.highlighter, original, lines)
		if herr != nil {
			return herr
		}
		right, herr := highlight.Render(p.highlighter, transformed, lines)
		if herr != nil {
			return herr
		}
		return p.timed(metrics.StageCompose, func() error {
			var cerr error
			html, cerr = layout.Compose(left, right)
			return cerr
		})
	})
	if err != nil {
		if errors.Is(err, highlight.ErrContractViolation) {
			return artifact.Artifact{}, ferrors.ContractError("highlighter output violates wrapper contract").WithCause(err).
				WithContext("file", file.Path).
				Build()
		}
		return artifact.Artifact{}, ferrors.InternalError("highlighting failed").WithCause(err).
			WithContext("file", file.Path).
			Build()
	}

	var a artifact.Artifact
	if err := p.timed(metrics.StageWrite, func() error {
		var werr error
		a, werr = writer.Write(file.Basename, html)
		return werr
	}); err != nil {
		return artifact.Artifact{}, ferrors.FileSystemError("failed to write fragment").WithCause(err).
			WithContext("file", file.Path).
			WithContext("output", artifact.OutputPath(p.outputDir, file.Basename, p.extension)).
			Build()
	}
	logger.Debug("Rendered example", logfields.File(file.Path), logfields.Output(a.OutputPath), logfields.Lines(lines))
	return a, nil
}

func (p *Pipeline) timed(stage string, fn func() error) error {
	start := time.Now()
	err := fn()
	p.recorder.ObserveStageDuration(stage, time.Since(start))
	return err
}

func canceled(err error) error {
	return ferrors.RuntimeError("run canceled").WithCause(err).Build()
}

// cssWriter is implemented by highlighters that can emit their stylesheet.
type cssWriter interface {
	WriteCSS(w io.Writer) error
}

// ErrNoStylesheet indicates the highlighter in use cannot produce a stylesheet.
var ErrNoStylesheet = errors.New("highlighter does not provide a stylesheet")

// Stylesheet writes the highlighter's CSS to w.
func (p *Pipeline) Stylesheet(w io.Writer) error {
	cw, ok := p.highlighter.(cssWriter)
	if !ok {
		return ferrors.ConfigError("cannot write stylesheet").WithCause(ErrNoStylesheet).Build()
	}
	if err := cw.WriteCSS(w); err != nil {
		return ferrors.InternalError("failed to render stylesheet").WithCause(err).Build()
	}
	return nil
}

// WriteStylesheet writes the highlighter's CSS to path atomically.
func (p *Pipeline) WriteStylesheet(path string) error {
	var buf bytes.Buffer
	if err := p.Stylesheet(&buf); err != nil {
		return err
	}
	if err := artifact.EnsureDir(filepath.Dir(path)); err != nil {
		return ferrors.FileSystemError("failed to write stylesheet").WithCause(err).Build()
	}
	if err := artifact.WriteFileAtomic(path, buf.Bytes()); err != nil {
		return ferrors.FileSystemError("failed to write stylesheet").WithCause(err).
			WithContext("path", path).
			Build()
	}
	p.logger.Info("Wrote stylesheet", logfields.Path(path))
	return nil
}
