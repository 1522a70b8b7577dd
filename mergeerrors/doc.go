// Package mergeerrors provides structured error types for the modmerge library.
//
// Import path: github.com/hoangluudev/modmerge/mergeerrors
//
// This package enables programmatic error handling via [errors.Is] and [errors.As],
// allowing callers to distinguish between different categories of errors and implement
// appropriate recovery strategies. Nothing in the merge core terminates the host
// process; every failure is returned as one of these typed errors for the caller
// to render.
//
// # Error Types
//
// The package provides six core error types:
//
//   - [ParseError]: malformed XML input, including failed fallback extraction;
//     always recoverable at the per-file level
//   - [SchemaMismatchError]: a file matched a known model but the operator
//     targeted a different destination file; surfaced, not fatal
//   - [UnresolvedConflictError]: the executor was asked to commit while
//     conflict groups remained unresolved and forced mode was not set
//   - [ResolutionError]: an illegal conflict resolution was requested
//     (e.g. Replace with more than one selected entry)
//   - [WriteError]: a target file could not be written; the pre-merge state
//     is preserved by the atomic-replace guarantee
//   - [ConfigError]: invalid configuration or input options
//
// # Sentinel Errors
//
// Each error type has a corresponding sentinel error for use with errors.Is():
//
//   - [ErrParse]: matches any [ParseError]
//   - [ErrSchemaMismatch]: matches any [SchemaMismatchError]
//   - [ErrUnresolvedConflict]: matches any [UnresolvedConflictError]
//   - [ErrResolution]: matches any [ResolutionError]
//   - [ErrWrite]: matches any [WriteError]
//   - [ErrConfig]: matches any [ConfigError]
//
// # Usage Examples
//
// Check error category with errors.Is():
//
//	report, err := merger.Execute(ctx, missionDir, preview)
//	if errors.Is(err, mergeerrors.ErrUnresolvedConflict) {
//	    // Resolve the remaining groups and retry
//	}
//
// Extract error details with errors.As():
//
//	var parseErr *mergeerrors.ParseError
//	if errors.As(err, &parseErr) {
//	    fmt.Printf("bad input at byte %d in %s\n", parseErr.Offset, parseErr.Path)
//	}
package mergeerrors
