// Package fixer collapses duplicate entries already present in a merged
// configuration file.
//
// Merged targets accumulate duplicates when mods were combined by hand or
// with cruder tools. FindDuplicateGroups surfaces every coarse-key group
// that appears more than once in a single document; FixWithOptions applies
// one of three modes:
//
//   - keep-first: keep the first occurrence, drop the rest
//   - keep-last: keep the last occurrence, drop the rest
//   - merge-children: collapse occurrences into one entry carrying the
//     deduplicated union of their children (only for file types whose
//     strategy permits child union)
//
// File types whose records legitimately repeat per position (map group
// placements) are grouped by name plus position, never plain name, so
// same-named placements at different coordinates are not false positives.
//
// Fixing is idempotent: running the fixer on its own output finds zero
// duplicate groups. Writes go through the same temp-file and atomic-rename
// discipline as the merge executor.
package fixer
