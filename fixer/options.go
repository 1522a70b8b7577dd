package fixer

import (
	"fmt"

	"github.com/hoangluudev/modmerge/parser"
	"github.com/hoangluudev/modmerge/registry"
)

// Option is a function that configures a fix operation.
type Option func(*fixConfig) error

// fixConfig holds configuration for a fix operation.
type fixConfig struct {
	// Input source (exactly one must be set)
	filePath *string
	parsed   *parser.ParseResult

	model    *registry.ConfigModel
	mode     Mode
	registry *registry.Registry
	dryRun   bool
}

// WithFilePath reads the document from a file and writes the fixed
// document back through an atomic rename.
func WithFilePath(path string) Option {
	return func(cfg *fixConfig) error {
		if path == "" {
			return fmt.Errorf("file path cannot be empty")
		}
		cfg.filePath = &path
		return nil
	}
}

// WithParsed fixes an already parsed document in memory. Nothing is
// written to disk.
func WithParsed(res *parser.ParseResult) Option {
	return func(cfg *fixConfig) error {
		if res == nil || res.Root == nil {
			return fmt.Errorf("parsed document cannot be nil")
		}
		cfg.parsed = res
		return nil
	}
}

// WithModel pins the schema model instead of resolving it from the
// filename or root tag. Required for WithParsed inputs whose root tag is
// not registered.
func WithModel(model *registry.ConfigModel) Option {
	return func(cfg *fixConfig) error {
		cfg.model = model
		return nil
	}
}

// WithMode selects the collapse mode. Default is keep-last.
func WithMode(mode Mode) Option {
	return func(cfg *fixConfig) error {
		if !IsValidMode(string(mode)) {
			return fmt.Errorf("invalid mode %q (valid: %v)", mode, ValidModes())
		}
		cfg.mode = mode
		return nil
	}
}

// WithRegistry replaces the default schema registry.
func WithRegistry(reg *registry.Registry) Option {
	return func(cfg *fixConfig) error {
		if reg == nil {
			return fmt.Errorf("registry cannot be nil")
		}
		cfg.registry = reg
		return nil
	}
}

// WithDryRun reports what would be fixed without writing anything.
func WithDryRun() Option {
	return func(cfg *fixConfig) error {
		cfg.dryRun = true
		return nil
	}
}

// FixWithOptions de-duplicates a configuration document using functional
// options, combining input source selection and configuration in a single
// call.
//
// Example:
//
//	result, err := fixer.FixWithOptions(
//	    fixer.WithFilePath("mission/db/types.xml"),
//	    fixer.WithMode(fixer.ModeKeepLast),
//	)
func FixWithOptions(opts ...Option) (*FixResult, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("fixer: invalid options: %w", err)
	}

	f := &Fixer{
		Mode:     cfg.mode,
		Registry: cfg.registry,
		Model:    cfg.model,
		DryRun:   cfg.dryRun,
	}

	if cfg.filePath != nil {
		return f.Fix(*cfg.filePath)
	}
	model := cfg.model
	if model == nil {
		var ok bool
		model, ok = cfg.registry.Resolve(cfg.parsed.SourcePath, cfg.parsed.Root.Tag)
		if !ok {
			return nil, fmt.Errorf("fixer: no schema model for parsed document; use WithModel")
		}
	}
	return f.FixParsed(cfg.parsed, model)
}

// applyOptions applies option functions and validates configuration.
func applyOptions(opts ...Option) (*fixConfig, error) {
	cfg := &fixConfig{
		mode:     ModeKeepLast,
		registry: registry.Default(),
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	if cfg.filePath == nil && cfg.parsed == nil {
		return nil, fmt.Errorf("an input source is required (WithFilePath or WithParsed)")
	}
	if cfg.filePath != nil && cfg.parsed != nil {
		return nil, fmt.Errorf("only one input source may be specified")
	}
	return cfg, nil
}
