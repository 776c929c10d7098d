package commands

import (
	"context"
	"errors"
	"time"

	"git.home.luguber.info/inful/sidebyside/internal/examples"
	ferrors "git.home.luguber.info/inful/sidebyside/internal/foundation/errors"
	"git.home.luguber.info/inful/sidebyside/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Debounce time.Duration `help:"Quiet period before re-rendering after a change" default:"300ms"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	s, err := openSession(g, root)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	watcher := watch.New(s.paths.ExamplesDir, s.cfg.Examples.Extension, func(ctx context.Context) error {
		defer s.flushMetrics()
		if _, err := s.pipeline.Run(ctx); err != nil {
			return err
		}
		if s.paths.CSSFile != "" {
			return s.pipeline.WriteStylesheet(s.paths.CSSFile)
		}
		return nil
	}).WithDebounce(w.Debounce)

	if err := watcher.Run(ctx); err != nil {
		if errors.Is(err, examples.ErrDirectoryNotFound) {
			return ferrors.NotFoundError("examples directory not found").WithCause(err).
				WithContext("dir", s.paths.ExamplesDir).
				Build()
		}
		return ferrors.RuntimeError("watch failed").WithCause(err).
			WithContext("dir", s.paths.ExamplesDir).
			Build()
	}
	return nil
}
