// Package severity provides severity level constants and utilities
// for warnings and report entries produced by the parser, scanner,
// merger, and fixer packages.
//
// The severity levels are ordered from least to most severe:
// Info < Warning < Error < Critical
package severity

// Severity indicates the severity level of a warning or report entry.
type Severity int

const (
	// SeverityError indicates a failure that excludes a file or entry from
	// merging, such as an unrecoverable parse error.
	SeverityError Severity = iota

	// SeverityWarning indicates a recoverable condition the operator should
	// review, such as a fallback parse path or a schema mismatch.
	SeverityWarning

	// SeverityInfo indicates informational messages about processing choices.
	// These are non-actionable notices that may be useful for debugging.
	SeverityInfo

	// SeverityCritical indicates a condition that cannot proceed without
	// explicit operator intervention, such as an unresolved conflict group.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}
