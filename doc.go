// Package modmerge provides tools for merging per-mod XML configuration
// fragments into a mission's authoritative configuration files.
//
// Game modifications frequently ship fragments of the same server-side
// configuration files (loot tables, spawnable types, event definitions,
// placement files). modmerge classifies every entry a mod ships as new, a
// harmless duplicate, or a genuine conflict against the mission's current
// state, lets the operator resolve conflicts deterministically, and only
// then rewrites the target files.
//
// # Overview
//
// The library consists of five primary packages:
//
//   - registry: static catalogue of known configuration file types and
//     their merge rules (entry tag, identity attribute, merge strategy)
//   - parser: forgiving XML reader producing an element tree, structured
//     parse warnings, and structural deep signatures
//   - scanner: walks mod directories and classifies every configuration
//     file they ship
//   - merger: two-phase preview/commit engine with conflict resolution
//   - fixer: independent pass that collapses duplicate entries already
//     present in a merged target file
//
// # Quick Start
//
// Scan a set of mod directories:
//
//	import "github.com/hoangluudev/modmerge/scanner"
//
//	infos, err := scanner.Scan(ctx, []string{"mods/@Trader", "mods/@Dogs"})
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Preview and merge against a mission:
//
//	import "github.com/hoangluudev/modmerge/merger"
//
//	preview, err := merger.BuildPreview(ctx, missionDir, infos)
//	if err != nil {
//		log.Fatal(err)
//	}
//	res := merger.NewResolver(preview)
//	if err := res.AutoResolveLastEntry(); err != nil {
//		log.Fatal(err)
//	}
//	report, err := merger.Execute(ctx, missionDir, preview)
//
// Collapse duplicates in an already merged file:
//
//	import "github.com/hoangluudev/modmerge/fixer"
//
//	result, err := fixer.FixWithOptions(
//		fixer.WithFilePath("mission/db/types.xml"),
//		fixer.WithMode(fixer.ModeKeepLast),
//	)
//
// # Two-Phase Protocol
//
// Nothing in this library writes to disk from a preview. A MergePreview is
// a pure classification of candidate entries; the Resolver mutates only the
// preview's resolution table; the Executor consumes a finalized preview
// exactly once, writing each target file through a temp-file and atomic
// rename so a crash mid-write never leaves a partially written file.
//
// # Error Handling
//
// Typed errors live in the mergeerrors package and support errors.Is and
// errors.As. Per-file failures (parse errors, write errors) never abort a
// whole scan or merge run; they are collected and reported per file.
//
// # Command-Line Interface
//
// A CLI wraps the library:
//
//	# Inventory what each mod ships
//	modmerge scan mods/@Trader mods/@Dogs
//
//	# Dry-run classification against a mission
//	modmerge preview -m mission mods/@Trader mods/@Dogs
//
//	# Merge with an explicit conflict policy
//	modmerge merge -m mission --resolve last mods/@Trader mods/@Dogs
//
//	# Collapse duplicates inside a merged file
//	modmerge fixdupes mission/db/types.xml
//
// Install the CLI:
//
//	go install github.com/hoangluudev/modmerge/cmd/modmerge@latest
package modmerge
