// Package parser provides a forgiving XML reader for mod configuration
// fragments, plus the structural identity functions the merge engine is
// built on.
//
// Mod-shipped XML is frequently not quite well-formed: authors leave `//`
// line comments, interleave human comments between entries, omit the XML
// declaration, or ship bare entry lists with no root wrapper. Parse
// tolerates all of these; every fallback taken is recorded as a structured
// [Warning] on the [ParseResult] for operator-facing surfacing. Warnings are
// data, never control flow: they do not change merge semantics.
//
// Genuinely unparseable input produces a *mergeerrors.ParseError carrying
// the byte offset of the failure. Content is never silently dropped.
//
//	result, err := parser.Parse("mods/@Trader/db/types.xml")
//	if err != nil {
//	    // per-file failure, excluded from merging
//	}
//	for _, w := range result.Warnings {
//	    fmt.Println(w.Category, w.Message)
//	}
//
// # Identity
//
// Two identity functions serve the merge engine:
//
//   - [DeepSignature] is a full structural fingerprint: tag, attributes
//     (order-insensitive), whitespace-normalized text, and recursively all
//     descendants. Equal signatures mean byte-for-byte duplicates in the
//     semantic sense; differing signatures mean a genuine difference.
//   - [PositionKey] extracts a spatial key from placement attributes
//     (x, y, z, a or pos) for record types that have no natural name.
//
// Non-UTF-8 declared encodings (windows-1252 and friends are common in mod
// files) are decoded through golang.org/x/text.
package parser
