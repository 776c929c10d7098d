package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/sidebyside/internal/foundation/errors"
)

// DefaultConfigFile is the configuration file looked up when no -c flag is given.
const DefaultConfigFile = "sidebyside.yaml"

// DefaultTransformScript imports the transform from the project's source tree
// and prints the transformed code of the file passed as the first argument.
// Environment references are not expanded inside transform.command.
const DefaultTransformScript = `import {transform} from "./src/comehere.mjs"; console.log(transform(fs.readFileSync(process.argv[1], {encoding: "UTF-8"})).code)`

// Config represents the application configuration.
type Config struct {
	ProjectRoot string          `yaml:"project_root"`
	Examples    ExamplesConfig  `yaml:"examples"`
	Output      OutputConfig    `yaml:"output"`
	Transform   TransformConfig `yaml:"transform"`
	Highlight   HighlightConfig `yaml:"highlight"`
	Metrics     MetricsConfig   `yaml:"metrics"`
	Logging     LoggingConfig   `yaml:"logging"`

	// source is the file the config was read from; empty when defaults are used.
	source string
}

// ExamplesConfig locates the example sources.
type ExamplesConfig struct {
	Directory string `yaml:"directory"`
	Extension string `yaml:"extension"`
}

// OutputConfig locates the generated fragments.
type OutputConfig struct {
	Directory string `yaml:"directory"`
}

// TransformConfig describes the external transform process. The example's
// path is appended as the final argument.
type TransformConfig struct {
	Command []string      `yaml:"command,flow"`
	Timeout time.Duration `yaml:"timeout,omitempty"` // 0 waits forever
}

// HighlightConfig selects the highlighting lexer and style.
type HighlightConfig struct {
	Lexer   string `yaml:"lexer"`
	Style   string `yaml:"style"`
	CSSFile string `yaml:"css_file,omitempty"`
}

// MetricsConfig enables the Prometheus textfile written after each run.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"`
}

// LoggingConfig controls slog output.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// Default returns the configuration used when no file is present. It renders
// examples/*.mjs into .html-includes/side-by-side with node and a JavaScript lexer.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.ProjectRoot == "" {
		cfg.ProjectRoot = "."
	}
	if cfg.Examples.Directory == "" {
		cfg.Examples.Directory = "examples"
	}
	if cfg.Examples.Extension == "" {
		cfg.Examples.Extension = ".mjs"
	}
	if cfg.Output.Directory == "" {
		cfg.Output.Directory = filepath.Join(".html-includes", "side-by-side")
	}
	if len(cfg.Transform.Command) == 0 {
		cfg.Transform.Command = []string{"node", "--input-type=module", "-e", DefaultTransformScript, "--"}
	}
	if cfg.Highlight.Lexer == "" {
		cfg.Highlight.Lexer = "javascript"
	}
	if cfg.Highlight.Style == "" {
		cfg.Highlight.Style = "github"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = string(LogLevelInfo)
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = string(LogFormatText)
	}
}

// Load reads configuration from configPath. A missing file is not an error:
// the defaults are returned and the project root is the working directory.
func Load(configPath string) (*Config, error) {
	loadEnvFile()

	data, err := os.ReadFile(configPath)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("No configuration file, using defaults", "path", configPath)
		return Default(), nil
	}
	if err != nil {
		return nil, ferrors.ConfigError("failed to read config file").WithCause(err).
			WithContext("path", configPath).
			Build()
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, ferrors.ConfigError("failed to unmarshal config").WithCause(err).
			WithContext("path", configPath).
			Build()
	}
	cfg.expandEnv()
	applyDefaults(&cfg)
	cfg.source = configPath

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// expandEnv substitutes ${VAR} references in the path and setting fields.
// transform.command is left verbatim: inline scripts use $ and template
// literals of their own.
func (c *Config) expandEnv() {
	for _, f := range []*string{
		&c.ProjectRoot,
		&c.Examples.Directory,
		&c.Examples.Extension,
		&c.Output.Directory,
		&c.Highlight.Lexer,
		&c.Highlight.Style,
		&c.Highlight.CSSFile,
		&c.Metrics.Textfile,
		&c.Logging.Level,
		&c.Logging.Format,
	} {
		*f = os.ExpandEnv(*f)
	}
}

// Source returns the file the configuration was loaded from, if any.
func (c *Config) Source() string { return c.source }

// Root returns the absolute project root. A relative project_root is taken
// relative to the directory holding the config file, or to the working
// directory when defaults are in use.
func (c *Config) Root() (string, error) {
	root := c.ProjectRoot
	if !filepath.IsAbs(root) && c.source != "" {
		root = filepath.Join(filepath.Dir(c.source), root)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolve project root %q: %w", c.ProjectRoot, err)
	}
	return abs, nil
}

// resolve joins p onto the project root unless it is already absolute.
func (c *Config) resolve(p string) (string, error) {
	if p == "" || filepath.IsAbs(p) {
		return p, nil
	}
	root, err := c.Root()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, p), nil
}

// Paths holds every filesystem location a run touches, fully resolved.
type Paths struct {
	Root            string
	ExamplesDir     string
	OutputDir       string
	CSSFile         string
	MetricsTextfile string
}

// ResolvePaths resolves all configured locations against the project root.
func (c *Config) ResolvePaths() (Paths, error) {
	root, err := c.Root()
	if err != nil {
		return Paths{}, ferrors.ConfigError("invalid project root").WithCause(err).Build()
	}
	p := Paths{Root: root}
	for _, f := range []struct {
		dst *string
		src string
	}{
		{&p.ExamplesDir, c.Examples.Directory},
		{&p.OutputDir, c.Output.Directory},
		{&p.CSSFile, c.Highlight.CSSFile},
		{&p.MetricsTextfile, c.Metrics.Textfile},
	} {
		resolved, err := c.resolve(f.src)
		if err != nil {
			return Paths{}, ferrors.ConfigError("invalid path").WithCause(err).
				WithContext("path", f.src).
				Build()
		}
		*f.dst = resolved
	}
	return p, nil
}
