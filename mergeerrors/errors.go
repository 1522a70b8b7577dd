package mergeerrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
// These allow quick checks without type assertions.
var (
	// ErrParse indicates a parsing failure occurred.
	ErrParse = errors.New("parse error")

	// ErrSchemaMismatch indicates a file matched a known model other than
	// the one the operator targeted.
	ErrSchemaMismatch = errors.New("schema mismatch")

	// ErrUnresolvedConflict indicates a commit was attempted while conflict
	// groups remained unresolved.
	ErrUnresolvedConflict = errors.New("unresolved conflict")

	// ErrResolution indicates an illegal conflict resolution was requested.
	ErrResolution = errors.New("resolution error")

	// ErrWrite indicates a target file could not be written.
	ErrWrite = errors.New("write error")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")
)

// ParseError represents a failure to parse a configuration fragment.
// This includes XML syntax errors and failed fallback extraction attempts.
// A ParseError is always recoverable at the per-file level: the file is
// classified invalid and excluded from merging, never aborting a scan.
type ParseError struct {
	// Path is the file path or source identifier
	Path string
	// Offset is the byte offset where the error occurred (0 if unknown)
	Offset int64
	// Line is the line number where the error occurred (0 if unknown)
	Line int
	// Message describes the parsing failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ParseError) Error() string {
	msg := "parse error"
	if e.Path != "" {
		msg += " in " + e.Path
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(" at line %d", e.Line)
	} else if e.Offset > 0 {
		msg += fmt.Sprintf(" at byte %d", e.Offset)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// SchemaMismatchError represents a file whose content matched a known
// configuration model that differs from the destination the operator
// selected. It is surfaced as a warning-grade error: the merge may still
// proceed if the operator accepts the mismatch.
type SchemaMismatchError struct {
	// Path is the source file path
	Path string
	// DetectedModel is the model name resolved from the file's content
	DetectedModel string
	// TargetModel is the model name of the operator-selected destination
	TargetModel string
}

// Error returns a human-readable error message.
func (e *SchemaMismatchError) Error() string {
	msg := "schema mismatch"
	if e.Path != "" {
		msg += " for " + e.Path
	}
	if e.DetectedModel != "" && e.TargetModel != "" {
		msg += fmt.Sprintf(": content matches %s but destination is %s", e.DetectedModel, e.TargetModel)
	}
	return msg
}

// Unwrap returns nil as SchemaMismatchError has no underlying cause.
func (e *SchemaMismatchError) Unwrap() error {
	return nil
}

// Is reports whether target matches this error type.
func (e *SchemaMismatchError) Is(target error) bool {
	return target == ErrSchemaMismatch
}

// UnresolvedConflictError is returned when the executor is asked to commit
// a preview that still contains unresolved conflict groups and forced mode
// is not set. Fully recoverable: resolve the groups and retry.
type UnresolvedConflictError struct {
	// Target is the target filename the conflicts belong to
	Target string
	// Keys are the coarse keys of the unresolved groups
	Keys []string
}

// Error returns a human-readable error message.
func (e *UnresolvedConflictError) Error() string {
	msg := "unresolved conflict"
	if len(e.Keys) != 1 {
		msg += "s"
	}
	if e.Target != "" {
		msg += " in " + e.Target
	}
	if len(e.Keys) > 0 {
		msg += fmt.Sprintf(": %d group(s) need resolution", len(e.Keys))
	}
	return msg
}

// Unwrap returns nil as UnresolvedConflictError has no underlying cause.
func (e *UnresolvedConflictError) Unwrap() error {
	return nil
}

// Is reports whether target matches this error type.
func (e *UnresolvedConflictError) Is(target error) bool {
	return target == ErrUnresolvedConflict
}

// ResolutionError represents an illegal conflict resolution request, such
// as Replace mode with more than one selected entry or Merge mode on a file
// type whose strategy forbids child-level union. No state is mutated when a
// ResolutionError is returned.
type ResolutionError struct {
	// Target is the target filename
	Target string
	// Key is the coarse key of the affected group
	Key string
	// Mode is the requested resolution mode
	Mode string
	// Message describes why the resolution is illegal
	Message string
}

// Error returns a human-readable error message.
func (e *ResolutionError) Error() string {
	msg := "resolution error"
	if e.Target != "" {
		msg += " in " + e.Target
	}
	if e.Key != "" {
		msg += " for " + e.Key
	}
	if e.Mode != "" {
		msg += fmt.Sprintf(" (mode: %s)", e.Mode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Unwrap returns nil as ResolutionError has no underlying cause.
func (e *ResolutionError) Unwrap() error {
	return nil
}

// Is reports whether target matches this error type.
func (e *ResolutionError) Is(target error) bool {
	return target == ErrResolution
}

// WriteError represents a failure to write a target file. The atomic
// replace guarantee means the target is left in its pre-merge state.
// Other target files in the same run are unaffected.
type WriteError struct {
	// Target is the target file path
	Target string
	// Message provides additional context
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *WriteError) Error() string {
	msg := "write error"
	if e.Target != "" {
		msg += " for " + e.Target
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *WriteError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *WriteError) Is(target error) bool {
	return target == ErrWrite
}

// ConfigError represents an invalid configuration or input.
// This includes invalid options, missing required inputs, and conflicting settings.
type ConfigError struct {
	// Option is the name of the problematic configuration option
	Option string
	// Value is the invalid value that was provided (may be nil)
	Value any
	// Message describes the configuration error
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}
