package commands

import "os"

// CSSCmd implements the 'css' command.
type CSSCmd struct {
	Output string `arg:"" optional:"" help:"Stylesheet path (defaults to highlight.css_file, or stdout)" type:"path"`
}

func (c *CSSCmd) Run(g *Global, root *CLI) error {
	s, err := openSession(g, root)
	if err != nil {
		return err
	}
	path := c.Output
	if path == "" {
		path = s.paths.CSSFile
	}
	if path == "" {
		return s.pipeline.Stylesheet(os.Stdout)
	}
	return s.pipeline.WriteStylesheet(path)
}
