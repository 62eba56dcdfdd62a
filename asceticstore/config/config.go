// Package config loads store settings from YAML and builds a store from them.
package config

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/krew-solutions/ascetic-store-go/asceticstore/option"
	"github.com/krew-solutions/ascetic-store-go/asceticstore/store"
)

type Log struct {
	Level  string `yaml:"level,omitempty"`  // debug, info, warn, error
	Format string `yaml:"format,omitempty"` // text, json
}

// Config describes how to open a store. An empty Path keeps the records in
// memory.
type Config struct {
	Path        string                `yaml:"path,omitempty"`
	Indent      option.Option[string] `yaml:"indent,omitempty"`
	IDGenerator string                `yaml:"id_generator,omitempty"`
	Log         Log                   `yaml:"log,omitempty"`
}

func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read from %s", path)
	}
	return Parse(data)
}

func Write(cfg *Config, path string, mode os.FileMode) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrapf(err, "failed to marshal")
	}
	err = os.WriteFile(path, data, mode)
	return errors.Wrapf(err, "failed to write to %s", path)
}

func (c *Config) Validate() error {
	var errs *multierror.Error
	if _, err := store.ParseIDGenerator(c.IDGenerator); err != nil {
		errs = multierror.Append(errs, err)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		errs = multierror.Append(errs, err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		errs = multierror.Append(errs, errors.Errorf("unknown log format %q", c.Log.Format))
	}
	return errs.ErrorOrNil()
}

func parseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, errors.Errorf("unknown log level %q", level)
}

// NewLogger builds a text or JSON slog logger writing to w.
func NewLogger(cfg Log, w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.ToLower(cfg.Format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler), nil
}

// Options turns the configuration into store options, logging to w.
func (c *Config) Options(w io.Writer) ([]store.Option, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	logger, err := NewLogger(c.Log, w)
	if err != nil {
		return nil, err
	}
	gen, err := store.ParseIDGenerator(c.IDGenerator)
	if err != nil {
		return nil, err
	}
	opts := []store.Option{
		store.WithLogger(logger),
		store.WithIndent(c.Indent.UnwrapOr(store.DefaultIndent)),
	}
	if gen != nil {
		opts = append(opts, store.WithIDGenerator(gen))
	}
	return opts, nil
}

// Open builds the store described by cfg, logging to stderr.
func Open(cfg *Config) (*store.Store, error) {
	opts, err := cfg.Options(os.Stderr)
	if err != nil {
		return nil, err
	}
	if cfg.Path == "" {
		return store.New(nil, opts...), nil
	}
	return store.Open(cfg.Path, opts...)
}
