package merger

import (
	"fmt"

	"github.com/hoangluudev/modmerge/mergeerrors"
	"github.com/hoangluudev/modmerge/parser"
	"github.com/hoangluudev/modmerge/registry"
)

// ResolutionMode is how a conflict group's selected entries are applied.
type ResolutionMode int

const (
	// ModeReplace keeps exactly one selected entry.
	ModeReplace ResolutionMode = iota
	// ModeMerge collapses the selected entries into one synthetic entry
	// carrying the deduplicated union of their children. Legal only for
	// file types whose strategy permits multi-select.
	ModeMerge
)

// String returns the mode name.
func (m ResolutionMode) String() string {
	switch m {
	case ModeReplace:
		return "replace"
	case ModeMerge:
		return "merge"
	default:
		return fmt.Sprintf("ResolutionMode(%d)", int(m))
	}
}

// Resolution is the operator's (or an auto-policy's) decision for one
// conflict group.
type Resolution struct {
	Mode    ResolutionMode
	Entries []*ConfigEntry
	// Merged is the synthetic union element, set only for ModeMerge.
	Merged *parser.Element
}

// Element returns the element this resolution writes to the target.
func (r *Resolution) Element() *parser.Element {
	if r.Mode == ModeMerge {
		return r.Merged
	}
	return r.Entries[0].Element
}

// Resolver records conflict resolutions on a MergePreview. It is the only
// component that mutates a preview after construction; all state changes
// are confined to the preview's resolution table and entry statuses.
type Resolver struct {
	preview *MergePreview
}

// NewResolver binds a resolver to a preview.
func NewResolver(preview *MergePreview) *Resolver {
	return &Resolver{preview: preview}
}

// Select resolves the conflict group identified by target filename and
// coarse key to the given entries. Selecting a single entry always
// collapses to ModeReplace regardless of the requested mode. Invalid
// selections (unknown group, foreign entries, more than one entry in
// replace mode, merge on a single-select strategy) return a
// *mergeerrors.ResolutionError without any state change.
func (r *Resolver) Select(target, key string, entries []*ConfigEntry, mode ResolutionMode) error {
	result, ok := r.preview.Results[target]
	if !ok {
		return resolutionErr(target, key, mode, "no such target in preview")
	}
	group := result.Group(key)
	if group == nil {
		return resolutionErr(target, key, mode, "no such conflict group")
	}
	if len(entries) == 0 {
		return resolutionErr(target, key, mode, "no entries selected")
	}
	for _, e := range entries {
		if !containsEntry(group.Entries, e) {
			return resolutionErr(target, key, mode, fmt.Sprintf("entry from %s is not a member of the group", e.SourceMod))
		}
	}
	if len(entries) == 1 {
		mode = ModeReplace
	}
	if mode == ModeReplace && len(entries) > 1 {
		return resolutionErr(target, key, mode, fmt.Sprintf("replace requires exactly one entry, got %d", len(entries)))
	}
	if mode == ModeMerge && !result.Model.Strategy.AllowsMultiSelect() {
		return resolutionErr(target, key, mode, fmt.Sprintf("strategy %s does not permit merging candidates", result.Model.Strategy))
	}

	res := &Resolution{Mode: mode, Entries: entries}
	if mode == ModeMerge {
		res.Merged = mergeChildren(result.Model, entries)
	}

	selected := make(map[*ConfigEntry]bool, len(entries))
	for _, e := range entries {
		selected[e] = true
		e.Status = StatusManual
	}
	for _, e := range group.Entries {
		if !selected[e] {
			e.Status = StatusSkipped
		}
	}

	if r.preview.resolutions[target] == nil {
		r.preview.resolutions[target] = make(map[string]*Resolution)
	}
	r.preview.resolutions[target][key] = res
	return nil
}

// Clear removes any resolution for the group and restores its entries to
// conflict status.
func (r *Resolver) Clear(target, key string) {
	if res, ok := r.preview.Results[target]; ok {
		if group := res.Group(key); group != nil {
			for _, e := range group.Entries {
				e.Status = StatusConflict
			}
		}
	}
	delete(r.preview.resolutions[target], key)
}

// AutoResolveIdentical resolves only groups whose members all share one
// deep signature. Preview classification already collapses those to
// duplicates, so this is an escape hatch for previews assembled by hand;
// genuinely divergent groups are left untouched.
func (r *Resolver) AutoResolveIdentical() error {
	return r.autoResolve(func(group *ConflictGroup) *ConfigEntry {
		for _, e := range group.Entries[1:] {
			if e.Signature != group.Entries[0].Signature {
				return nil
			}
		}
		return group.Entries[0]
	})
}

// AutoResolveFirstEntry resolves every unresolved group to its first
// candidate in preview order. The target's existing entry sorts first, so
// this policy preserves current mission state wherever it already has a
// version of a conflicted entry.
func (r *Resolver) AutoResolveFirstEntry() error {
	return r.autoResolve(func(group *ConflictGroup) *ConfigEntry {
		return group.Entries[0]
	})
}

// AutoResolveLastEntry resolves every unresolved group to its last
// candidate in preview order, favouring the most recently scanned mod.
func (r *Resolver) AutoResolveLastEntry() error {
	return r.autoResolve(func(group *ConflictGroup) *ConfigEntry {
		return group.Entries[len(group.Entries)-1]
	})
}

func (r *Resolver) autoResolve(pick func(*ConflictGroup) *ConfigEntry) error {
	for _, target := range r.preview.Targets {
		for _, group := range r.preview.Results[target].ConflictGroups {
			if _, done := r.preview.Resolution(target, group.Key); done {
				continue
			}
			entry := pick(group)
			if entry == nil {
				continue
			}
			if err := r.Select(target, group.Key, []*ConfigEntry{entry}, ModeReplace); err != nil {
				return err
			}
		}
	}
	return nil
}

// mergeChildren builds the synthetic union element for a merge resolution.
func mergeChildren(model *registry.ConfigModel, entries []*ConfigEntry) *parser.Element {
	elements := make([]*parser.Element, len(entries))
	for i, e := range entries {
		elements[i] = e.Element
	}
	return UnionChildren(model, elements)
}

// UnionChildren collapses same-identity elements into one: the first
// element's tag, attributes, and text, plus the deduplicated union of the
// model's mergeable child fields across all elements in order. Exclusive
// child fields keep only the first element's occurrences; unioning two
// entries never yields a second <nominal> or similar single-valued field.
// Child identity for the union is the deep signature, or tag plus position
// for position-only children, so that merging two loot tables never
// repeats an item.
func UnionChildren(model *registry.ConfigModel, elements []*parser.Element) *parser.Element {
	first := elements[0]
	merged := &parser.Element{
		Tag:   first.Tag,
		Attrs: append([]parser.Attr(nil), first.Attrs...),
		Text:  first.Text,
	}
	seen := make(map[string]bool)
	for i, el := range elements {
		for _, child := range el.Children {
			if i > 0 && !model.IsMergeableChild(child.Tag) {
				continue
			}
			key := childIdentity(child)
			if seen[key] {
				continue
			}
			seen[key] = true
			merged.Children = append(merged.Children, child.Clone())
		}
	}
	return merged
}

// childIdentity keys a child for union dedup.
func childIdentity(child *parser.Element) string {
	if _, named := child.Attr("name"); !named {
		if pos, ok := parser.PositionKey(child); ok {
			return child.Tag + "@" + pos
		}
	}
	return string(parser.DeepSignature(child))
}

func containsEntry(entries []*ConfigEntry, target *ConfigEntry) bool {
	for _, e := range entries {
		if e == target {
			return true
		}
	}
	return false
}

func resolutionErr(target, key string, mode ResolutionMode, msg string) *mergeerrors.ResolutionError {
	return &mergeerrors.ResolutionError{
		Target:  target,
		Key:     key,
		Mode:    mode.String(),
		Message: msg,
	}
}
