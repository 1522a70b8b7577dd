package merger

import (
	"fmt"

	"github.com/hoangluudev/modmerge/parser"
	"github.com/hoangluudev/modmerge/registry"
)

// TargetSource is the SourceMod value given to entries that already exist
// in the mission's target file. Treating the current state as an implicit
// candidate lets a mod re-shipping an already-merged entry classify as
// DUPLICATE instead of NEW.
const TargetSource = "target"

// EntryStatus is the classification of one candidate entry within a merge
// preview.
type EntryStatus int

const (
	// StatusNew has no same-key match in the target or any other mod.
	StatusNew EntryStatus = iota
	// StatusDuplicate is structurally identical to another candidate or to
	// the target's existing entry; nothing needs to be written for it.
	StatusDuplicate
	// StatusConflict shares a coarse key with a structurally different
	// candidate and must be resolved before commit.
	StatusConflict
	// StatusMerged was written to the target by the executor.
	StatusMerged
	// StatusSkipped was deliberately not written, either because its file
	// type uses the skip strategy or because a resolution chose another
	// candidate.
	StatusSkipped
	// StatusManual was hand-picked by an operator resolution.
	StatusManual
)

// String returns the status name.
func (s EntryStatus) String() string {
	switch s {
	case StatusNew:
		return "new"
	case StatusDuplicate:
		return "duplicate"
	case StatusConflict:
		return "conflict"
	case StatusMerged:
		return "merged"
	case StatusSkipped:
		return "skipped"
	case StatusManual:
		return "manual"
	default:
		return fmt.Sprintf("EntryStatus(%d)", int(s))
	}
}

// ConfigEntry is one logical record extracted from a configuration file.
// The element, keys, and provenance are fixed at construction; Status is
// assigned by the preview engine and may be overwritten once by the
// resolver and once by the executor.
type ConfigEntry struct {
	// Element is the owned XML element for this record.
	Element *parser.Element
	// CoarseKey groups same-identity records across mods.
	CoarseKey string
	// Signature is the deep structural signature of Element.
	Signature parser.Signature
	// SourceMod is the folder identifier of the shipping mod, or
	// TargetSource for the mission's existing entry.
	SourceMod string
	// SourceFile is the path the entry was read from.
	SourceFile string
	// Status is the preview classification.
	Status EntryStatus
}

// NewEntry builds a ConfigEntry for el, computing its coarse key and deep
// signature against the given model.
func NewEntry(model *registry.ConfigModel, el *parser.Element, sourceMod, sourceFile string) *ConfigEntry {
	return &ConfigEntry{
		Element:    el,
		CoarseKey:  CoarseKey(model, el),
		Signature:  parser.DeepSignature(el),
		SourceMod:  sourceMod,
		SourceFile: sourceFile,
	}
}

// CoarseKey derives the grouping key for one record. When the model names
// an identity attribute and the element carries it, the key is
// "entrytag:value"; models whose records legitimately repeat per position
// additionally include the position key. Elements without a usable identity
// attribute fall back to their position, then to a structural key built
// from tag and sorted attributes.
func CoarseKey(model *registry.ConfigModel, el *parser.Element) string {
	if model != nil && model.IdentityAttr != "" {
		if v, ok := el.Attr(model.IdentityAttr); ok && v != "" {
			key := el.Tag + ":" + v
			if model.PositionIdentity {
				if pos, ok := parser.PositionKey(el); ok {
					key += "@" + pos
				}
			}
			return key
		}
	}
	if pos, ok := parser.PositionKey(el); ok {
		return el.Tag + "@" + pos
	}
	return parser.StructuralKey(el)
}

// ExtractEntries pulls every logical record out of a parsed document. For
// whole-document models the root itself is the single record. Documents
// parsed under a synthetic root are unwrapped first when the fragment
// shipped the model's real root tag.
func ExtractEntries(res *parser.ParseResult, model *registry.ConfigModel, sourceMod string) []*ConfigEntry {
	if res == nil || res.Root == nil || model == nil {
		return nil
	}
	root := res.Root
	if root.Tag == parser.SyntheticRootTag && len(root.Children) == 1 && root.Children[0].Tag == model.RootTag {
		root = root.Children[0]
	}
	if !model.HasEntries() {
		if root.Tag == parser.SyntheticRootTag {
			return nil
		}
		return []*ConfigEntry{NewEntry(model, root, sourceMod, res.SourcePath)}
	}
	elements := model.EntryElements(root)
	entries := make([]*ConfigEntry, 0, len(elements))
	for _, el := range elements {
		entries = append(entries, NewEntry(model, el, sourceMod, res.SourcePath))
	}
	return entries
}
