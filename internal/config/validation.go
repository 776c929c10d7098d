package config

import (
	"strings"

	ferrors "git.home.luguber.info/inful/sidebyside/internal/foundation/errors"
)

// Validate checks the configuration for values a run cannot work with.
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.Examples.Extension, ".") || len(c.Examples.Extension) < 2 {
		return ferrors.ConfigError("examples.extension must start with '.'").
			WithContext("extension", c.Examples.Extension).
			Build()
	}
	if len(c.Transform.Command) == 0 || strings.TrimSpace(c.Transform.Command[0]) == "" {
		return ferrors.ConfigError("transform.command must name an executable").Build()
	}
	if c.Transform.Timeout < 0 {
		return ferrors.ConfigError("transform.timeout must not be negative").
			WithContext("timeout", c.Transform.Timeout.String()).
			Build()
	}
	if strings.TrimSpace(c.Output.Directory) == "" {
		return ferrors.ConfigError("output.directory must not be empty").Build()
	}
	return nil
}
