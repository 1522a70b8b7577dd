package parser

import "github.com/hoangluudev/modmerge/internal/severity"

// WarningCategory identifies which forgiving-parse fallback was taken.
type WarningCategory string

const (
	// WarnPreamble indicates a human comment before or after the root
	// element was skipped.
	WarnPreamble WarningCategory = "preamble_comment"
	// WarnInterleavedComments indicates comments between entry elements
	// were skipped, not mistaken for content.
	WarnInterleavedComments WarningCategory = "interleaved_comments"
	// WarnLineComments indicates `//`-style line comments were stripped
	// before parsing.
	WarnLineComments WarningCategory = "line_comments"
	// WarnSyntheticRoot indicates the file had well-formed elements at top
	// level with no single root wrapper; a synthetic root was constructed.
	WarnSyntheticRoot WarningCategory = "synthetic_root"
	// WarnNoDeclaration indicates the XML declaration header was missing.
	WarnNoDeclaration WarningCategory = "missing_declaration"
	// WarnLenientSyntax indicates strict parsing failed and the lenient
	// second pass succeeded (unescaped entities and similar).
	WarnLenientSyntax WarningCategory = "lenient_syntax"
	// WarnCharsetDecoded indicates the file declared a non-UTF-8 encoding
	// that was decoded before parsing.
	WarnCharsetDecoded WarningCategory = "charset_decoded"
)

// Warning records one fallback path taken while parsing. Warnings are
// operator-facing hints; they never change merge semantics.
type Warning struct {
	Category WarningCategory
	Message  string
	Severity severity.Severity
}

// ParseResult owns a parsed element tree plus parse metadata. Instances are
// discarded once their entries have been extracted; nothing holds the tree
// beyond preview generation for the file.
type ParseResult struct {
	// SourcePath is the path the document was read from.
	SourcePath string
	// Root is the document root (possibly synthetic, see WarnSyntheticRoot).
	Root *Element
	// Warnings lists every fallback taken, in the order encountered.
	Warnings []Warning
}

// AddWarning appends a warning with the default warning severity.
func (r *ParseResult) AddWarning(cat WarningCategory, msg string) {
	r.Warnings = append(r.Warnings, Warning{Category: cat, Message: msg, Severity: severity.SeverityWarning})
}

// HasWarning reports whether any warning of the given category was recorded.
func (r *ParseResult) HasWarning(cat WarningCategory) bool {
	for _, w := range r.Warnings {
		if w.Category == cat {
			return true
		}
	}
	return false
}

// WarningStrings flattens warnings to their messages for display.
func WarningStrings(warnings []Warning) []string {
	if len(warnings) == 0 {
		return nil
	}
	out := make([]string, len(warnings))
	for i, w := range warnings {
		out[i] = w.Message
	}
	return out
}
