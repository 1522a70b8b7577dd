// Package scanner walks mod directories and classifies every configuration
// file they ship.
//
// A scan is read-only. For each directory it enumerates files with a
// recognized configuration extension, parses each one with the forgiving
// parser, resolves a schema model (filename first, then root tag), and
// classifies the file as mergeable, empty, unknown, or invalid. Files that
// resolve to a model but contain zero identifiable entries flag the whole
// mod for manual review rather than being silently dropped.
//
// Behaviour is controlled through functional options:
//
//	infos, err := scanner.Scan(ctx, dirs,
//		scanner.WithIncludeUnknown(),
//		scanner.WithSkip("@BrokenMod"),
//		scanner.WithProgress(func(ev scanner.ProgressEvent) {
//			fmt.Printf("%d/%d %s\n", ev.Index, ev.Total, ev.Path)
//		}),
//	)
//
// Cancellation is cooperative: the context is checked between files, never
// mid-file.
package scanner
