// Package config loads the jnb settings file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultFile is read when no file is named explicitly and it exists.
const DefaultFile = "jnb.yaml"

// Environment variables that override the file.
const (
	EnvJShell    = "JNB_JSHELL"
	EnvClassPath = "JNB_CLASS_PATH"
)

type Config struct {
	JShell        string        `yaml:"jshell"`
	JShellArgs    []string      `yaml:"jshell_args"`
	ClassPath     []string      `yaml:"class_path"`
	Startup       []string      `yaml:"startup"`
	RemoteOptions []string      `yaml:"remote_options"`
	Timeout       time.Duration `yaml:"timeout"`
	Workspace     string        `yaml:"workspace"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		JShell:    "jshell",
		Workspace: ".",
	}
}

// Load reads path, or DefaultFile when path is empty and that file exists,
// then applies environment overrides. Relative class path entries and the
// workspace are resolved against the directory of the file.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := Parse(data, &cfg); err != nil {
			return cfg, fmt.Errorf("%s: %w", path, err)
		}
		cfg.resolve(filepath.Dir(path))
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return cfg, fmt.Errorf("read config: %w", err)
	}

	cfg.applyEnv(os.Getenv)
	return cfg, cfg.Validate()
}

// Parse decodes YAML into cfg, keeping fields the document does not set.
// Unknown keys are an error.
func Parse(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

func (c *Config) resolve(dir string) {
	for i, p := range c.ClassPath {
		if !filepath.IsAbs(p) {
			c.ClassPath[i] = filepath.Join(dir, p)
		}
	}
	if c.Workspace != "" && !filepath.IsAbs(c.Workspace) {
		c.Workspace = filepath.Join(dir, c.Workspace)
	}
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv(EnvJShell); v != "" {
		c.JShell = v
	}
	if v := getenv(EnvClassPath); v != "" {
		c.ClassPath = append(c.ClassPath, filepath.SplitList(v)...)
	}
}

// Validate reports settings that cannot work.
func (c Config) Validate() error {
	if c.JShell == "" {
		return errors.New("config: jshell must not be empty")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("config: negative timeout %s", c.Timeout)
	}
	for _, s := range c.Startup {
		if s == "" {
			return errors.New("config: empty startup entry")
		}
	}
	return nil
}
