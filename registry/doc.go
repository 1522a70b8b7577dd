// Package registry provides the static catalogue of known configuration
// file types and their merge rules.
//
// Every mergeable target file (types.xml, cfgspawnabletypes.xml,
// cfgeventspawns.xml, ...) is described by a [ConfigModel]: the root tag,
// the repeating entry tag(s), the attribute that identifies one logical
// record, the [MergeStrategy] applied when two mods ship the same record,
// and the child elements that may be safely unioned.
//
// Lookup order follows how mods misname files in the wild: an exact
// filename match (case-insensitive) is tried first, then a root-tag match
// on parsed content, because a mod may rename a standard file and a
// non-standard file may coincidentally share a root tag.
//
//	model, ok := registry.Default().ModelForFilename("Types.xml")
//	if !ok {
//	    model, ok = registry.Default().ModelForRootTag(result.Root.Tag)
//	}
//
// Site-local file types can be added at runtime from a YAML overlay file
// without rebuilding:
//
//	reg, err := registry.Default().WithOverlay("registry-overlay.yaml")
//
// Lookups are pure and models are immutable once a Registry is built.
package registry
