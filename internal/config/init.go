package config

import (
	"errors"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/sidebyside/internal/foundation/errors"
)

// Init writes the default configuration to configPath. An existing file is
// only replaced when force is set.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return ferrors.ValidationError("configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath).
			Build()
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return ferrors.FileSystemError("failed to stat config file").WithCause(err).Build()
	}

	data, err := yaml.Marshal(Default())
	if err != nil {
		return ferrors.InternalError("failed to marshal default config").WithCause(err).Build()
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return ferrors.FileSystemError("failed to write config file").WithCause(err).
			WithContext("path", configPath).
			Build()
	}
	return nil
}
