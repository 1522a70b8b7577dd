// Package commands provides CLI command handlers for modmerge.
package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"go.yaml.in/yaml/v4"

	"github.com/hoangluudev/modmerge/internal/cliutil"
	"github.com/hoangluudev/modmerge/registry"
	"github.com/hoangluudev/modmerge/scanner"
)

// Output format constants
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ValidateOutputFormat validates an output format and returns an error if invalid.
func ValidateOutputFormat(format string) error {
	if format != FormatText && format != FormatJSON && format != FormatYAML {
		return fmt.Errorf("invalid format '%s'. Valid formats: %s, %s, %s", format, FormatText, FormatJSON, FormatYAML)
	}
	return nil
}

// OutputStructured outputs data in the specified format (json or yaml) to stdout.
// Returns an error if marshaling fails.
func OutputStructured(data any, format string) error {
	var bytes []byte
	var err error

	switch format {
	case FormatJSON:
		bytes, err = json.MarshalIndent(data, "", "  ")
	case FormatYAML:
		bytes, err = yaml.Marshal(data)
	default:
		return fmt.Errorf("invalid format for structured output: %s", format)
	}

	if err != nil {
		return fmt.Errorf("marshaling to %s: %w", format, err)
	}

	fmt.Println(string(bytes))
	return nil
}

// stringList is a repeatable flag value collecting each occurrence.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// Status colors for text output. color honors NO_COLOR and non-TTY
// stdout on its own.
var (
	statusGood = color.New(color.FgGreen)
	statusWarn = color.New(color.FgYellow)
	statusBad  = color.New(color.FgRed)
	statusDim  = color.New(color.FgHiBlack)
)

// fileStatusColor maps a scan classification to its rendering color.
func fileStatusColor(s scanner.FileStatus) *color.Color {
	switch s {
	case scanner.FileMergeable:
		return statusGood
	case scanner.FileEmpty, scanner.FileUnknown:
		return statusWarn
	default:
		return statusBad
	}
}

// loadRegistry builds the schema registry, applying an overlay file when one
// is given.
func loadRegistry(overlayPath string) (*registry.Registry, error) {
	reg := registry.Default()
	if overlayPath == "" {
		return reg, nil
	}
	reg, err := reg.WithOverlay(overlayPath)
	if err != nil {
		return nil, fmt.Errorf("loading registry overlay: %w", err)
	}
	return reg, nil
}

// scanOptions translates the shared scan-related flags into scanner options.
func scanOptions(includeUnknown bool, skip []string, reg *registry.Registry) []scanner.Option {
	opts := []scanner.Option{scanner.WithRegistry(reg)}
	if includeUnknown {
		opts = append(opts, scanner.WithIncludeUnknown())
	}
	if len(skip) > 0 {
		opts = append(opts, scanner.WithSkip(skip...))
	}
	return opts
}

// Writef writes formatted output to stdout.
func Writef(format string, args ...any) {
	cliutil.Writef(os.Stdout, format, args...)
}

// Errorf writes formatted output to stderr.
func Errorf(format string, args ...any) {
	cliutil.Writef(os.Stderr, format, args...)
}
