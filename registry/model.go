package registry

import (
	"fmt"
	"slices"
)

// MergeStrategy defines the per-file-type policy applied when two mods ship
// an entry with the same identity.
type MergeStrategy int

const (
	// StrategyReplace keeps exactly one candidate; the operator (or a named
	// auto-resolution policy) picks which.
	StrategyReplace MergeStrategy = iota
	// StrategyMergeChildren allows collapsing candidates into a single entry
	// carrying the deduplicated union of their child elements.
	StrategyMergeChildren
	// StrategyAppend always adds entries; same-identity candidates coexist.
	StrategyAppend
	// StrategySkip never auto-merges; files of this type are routed to
	// manual review.
	StrategySkip
)

// String returns the canonical name of the strategy.
func (s MergeStrategy) String() string {
	switch s {
	case StrategyReplace:
		return "replace"
	case StrategyMergeChildren:
		return "merge-children"
	case StrategyAppend:
		return "append"
	case StrategySkip:
		return "skip"
	default:
		return fmt.Sprintf("MergeStrategy(%d)", int(s))
	}
}

// AllowsMultiSelect reports whether a conflict resolution may keep more than
// one candidate for a single identity group.
func (s MergeStrategy) AllowsMultiSelect() bool {
	switch s {
	case StrategyMergeChildren, StrategyAppend:
		return true
	case StrategyReplace, StrategySkip:
		return false
	default:
		return false
	}
}

// ParseStrategy converts a strategy name to its enum value.
func ParseStrategy(name string) (MergeStrategy, error) {
	switch name {
	case "replace":
		return StrategyReplace, nil
	case "merge-children":
		return StrategyMergeChildren, nil
	case "append":
		return StrategyAppend, nil
	case "skip":
		return StrategySkip, nil
	default:
		return 0, fmt.Errorf("registry: unknown merge strategy %q (valid: %v)", name, ValidStrategies())
	}
}

// ValidStrategies returns all valid strategy names.
func ValidStrategies() []string {
	return []string{"replace", "merge-children", "append", "skip"}
}

// ConfigModel describes one known target configuration file type.
// Models are immutable; build them once via [New] or use [Default].
type ConfigModel struct {
	// Name is the canonical target filename, lower case (e.g. "types.xml").
	Name string
	// RootTag is the document root element tag.
	RootTag string
	// EntryTags are the repeating child tags that each represent one logical
	// record. Nil means the file has no repeating entries and is treated as
	// a single whole-document record.
	EntryTags []string
	// IdentityAttr is the attribute used for coarse identity grouping
	// (usually "name"). Empty means a structural key is derived from the
	// element itself.
	IdentityAttr string
	// Strategy is the merge policy for same-identity entries.
	Strategy MergeStrategy
	// MergeableChildren are the child tags eligible for union-merge under
	// StrategyMergeChildren.
	MergeableChildren []string
	// PositionIdentity marks record types that legitimately repeat per
	// name and differ only by spatial position (map-group placements).
	// Identity keys for these include the position attributes.
	PositionIdentity bool
}

// HasEntries reports whether the file type has repeating entry elements.
func (m *ConfigModel) HasEntries() bool {
	return len(m.EntryTags) > 0
}

// PrimaryEntryTag returns the first entry tag, or the root tag for
// whole-document models.
func (m *ConfigModel) PrimaryEntryTag() string {
	if len(m.EntryTags) > 0 {
		return m.EntryTags[0]
	}
	return m.RootTag
}

// IsEntryTag reports whether tag is one of the model's entry tags.
func (m *ConfigModel) IsEntryTag(tag string) bool {
	return slices.Contains(m.EntryTags, tag)
}

// IsMergeableChild reports whether a child tag may be union-merged.
func (m *ConfigModel) IsMergeableChild(tag string) bool {
	return slices.Contains(m.MergeableChildren, tag)
}

// validate checks a model for structural problems before registration.
func (m *ConfigModel) validate() error {
	if m.Name == "" {
		return fmt.Errorf("registry: model has empty filename")
	}
	if m.RootTag == "" {
		return fmt.Errorf("registry: model %s has empty root tag", m.Name)
	}
	if m.Strategy == StrategyMergeChildren && len(m.MergeableChildren) == 0 {
		return fmt.Errorf("registry: model %s uses merge-children but lists no mergeable children", m.Name)
	}
	return nil
}
