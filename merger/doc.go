// Package merger implements the two-phase preview/commit engine at the
// heart of modmerge.
//
// Phase one builds a MergePreview: every entry each mod ships is grouped by
// coarse key against the mission's current state and classified as new, a
// harmless duplicate, or a conflict. A preview is a pure computation; it
// never touches disk beyond reading, and regenerating it from the same
// inputs yields the same classification.
//
// Conflicts are resolved through a Resolver bound to the preview, either
// one group at a time with Select, or in bulk with the named policies
// AutoResolveIdentical, AutoResolveFirstEntry, and AutoResolveLastEntry.
// Replace resolutions keep exactly one candidate; Merge resolutions are
// legal only for file types whose strategy permits child union and produce
// a single synthetic entry carrying the deduplicated union of the selected
// entries' children.
//
// Phase two is Execute: for each target file the destination document is
// parsed or created, superseded entries are removed, new and resolved
// entries are appended, and the file is written through a temp file and an
// atomic rename. A target with unresolved conflicts fails with
// *mergeerrors.UnresolvedConflictError unless a forced policy is set;
// failures are collected per file and never roll back targets already
// committed in the same run.
package merger
