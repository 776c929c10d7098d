package commands

import (
	"git.home.luguber.info/inful/sidebyside/internal/pipeline"
)

// TranslateCmd implements the default 'translate' command.
type TranslateCmd struct {
	Only []string `help:"Render only these examples (name with or without extension)" sep:","`
}

func (t *TranslateCmd) Run(g *Global, root *CLI) error {
	s, err := openSession(g, root, pipeline.WithOnly(t.Only...))
	if err != nil {
		return err
	}
	defer s.flushMetrics()

	ctx, cancel := signalContext()
	defer cancel()

	if _, err := s.pipeline.Run(ctx); err != nil {
		return err
	}
	if s.paths.CSSFile != "" {
		return s.pipeline.WriteStylesheet(s.paths.CSSFile)
	}
	return nil
}
