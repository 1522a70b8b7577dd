package fixer

import (
	"fmt"
	"path/filepath"

	"github.com/hoangluudev/modmerge/internal/fileutil"
	"github.com/hoangluudev/modmerge/mergeerrors"
	"github.com/hoangluudev/modmerge/merger"
	"github.com/hoangluudev/modmerge/parser"
	"github.com/hoangluudev/modmerge/registry"
)

// Mode selects how a duplicate group is collapsed.
type Mode string

const (
	// ModeKeepFirst keeps the first occurrence in document order.
	ModeKeepFirst Mode = "keep-first"
	// ModeKeepLast keeps the last occurrence in document order.
	ModeKeepLast Mode = "keep-last"
	// ModeMergeChildren collapses occurrences into one entry carrying the
	// deduplicated union of their children. Legal only for file types
	// whose merge strategy permits child union.
	ModeMergeChildren Mode = "merge-children"
)

// ValidModes returns all valid mode strings.
func ValidModes() []string {
	return []string{string(ModeKeepFirst), string(ModeKeepLast), string(ModeMergeChildren)}
}

// IsValidMode checks if a mode string is valid.
func IsValidMode(mode string) bool {
	switch Mode(mode) {
	case ModeKeepFirst, ModeKeepLast, ModeMergeChildren:
		return true
	default:
		return false
	}
}

// DuplicateGroup is one coarse-key group appearing more than once in a
// single document, in document order.
type DuplicateGroup struct {
	Key      string
	Elements []*parser.Element
	// Identical is true when every occurrence shares one deep signature.
	Identical bool
}

// Fix records one collapsed group.
type Fix struct {
	// Key is the coarse key of the group.
	Key string
	// Mode is how the group was collapsed.
	Mode Mode
	// Removed is the number of occurrences dropped.
	Removed int
}

// FixResult contains the results of a fix operation.
type FixResult struct {
	// SourcePath is the path the document was read from, when known.
	SourcePath string
	// Model is the schema model the document was fixed against.
	Model *registry.ConfigModel
	// Root is the de-duplicated tree.
	Root *parser.Element
	// Groups are the duplicate groups that were found.
	Groups []DuplicateGroup
	// Fixes contains one record per collapsed group.
	Fixes []Fix
	// Written is true when the fixed document was written back to disk.
	Written bool
}

// HasFixes returns true if any groups were collapsed.
func (r *FixResult) HasFixes() bool {
	return len(r.Fixes) > 0
}

// FindDuplicateGroups surfaces every coarse-key group with more than one
// occurrence beneath root. Models with position identity group by name
// plus position, so legitimately repeating placement records are never
// reported.
func FindDuplicateGroups(root *parser.Element, model *registry.ConfigModel) []DuplicateGroup {
	if root == nil || model == nil || !model.HasEntries() {
		return nil
	}
	byKey := make(map[string][]*parser.Element)
	var order []string
	for _, el := range model.EntryElements(root) {
		key := merger.CoarseKey(model, el)
		if _, seen := byKey[key]; !seen {
			order = append(order, key)
		}
		byKey[key] = append(byKey[key], el)
	}

	var groups []DuplicateGroup
	for _, key := range order {
		elements := byKey[key]
		if len(elements) < 2 {
			continue
		}
		identical := true
		first := parser.DeepSignature(elements[0])
		for _, el := range elements[1:] {
			if parser.DeepSignature(el) != first {
				identical = false
				break
			}
		}
		groups = append(groups, DuplicateGroup{Key: key, Elements: elements, Identical: identical})
	}
	return groups
}

// Fixer collapses duplicate entries in parsed configuration documents.
type Fixer struct {
	// Mode selects how duplicate groups are collapsed.
	Mode Mode
	// Registry resolves schema models for input files.
	Registry *registry.Registry
	// Model, when set, overrides registry resolution.
	Model *registry.ConfigModel
	// DryRun suppresses the write-back for file inputs.
	DryRun bool
}

// New creates a Fixer with default settings.
func New() *Fixer {
	return &Fixer{
		Mode:     ModeKeepLast,
		Registry: registry.Default(),
	}
}

// Fix reads, de-duplicates, and (unless DryRun is set) rewrites the file
// at path through a temp file and atomic rename.
func (f *Fixer) Fix(path string) (*FixResult, error) {
	res, err := parser.Parse(path)
	if err != nil {
		return nil, err
	}
	model := f.Model
	if model == nil {
		var ok bool
		model, ok = f.Registry.Resolve(filepath.Base(path), res.Root.Tag)
		if !ok {
			return nil, &mergeerrors.ConfigError{
				Option:  "filePath",
				Value:   path,
				Message: "no schema model for file",
			}
		}
	}
	result, err := f.FixParsed(res, model)
	if err != nil {
		return nil, err
	}
	if result.HasFixes() && !f.DryRun {
		if err := fileutil.WriteFileAtomic(path, parser.Encode(result.Root)); err != nil {
			return nil, &mergeerrors.WriteError{Target: path, Message: "writing fixed document", Cause: err}
		}
		result.Written = true
	}
	return result, nil
}

// FixParsed de-duplicates an already parsed document in memory. The input
// tree is not modified; Root on the result is a rebuilt tree.
func (f *Fixer) FixParsed(res *parser.ParseResult, model *registry.ConfigModel) (*FixResult, error) {
	if f.Mode == ModeMergeChildren && !model.Strategy.AllowsMultiSelect() {
		return nil, &mergeerrors.ResolutionError{
			Target:  model.Name,
			Mode:    string(f.Mode),
			Message: fmt.Sprintf("strategy %s does not permit merging candidates", model.Strategy),
		}
	}

	result := &FixResult{
		SourcePath: res.SourcePath,
		Model:      model,
		Groups:     FindDuplicateGroups(res.Root, model),
	}
	if len(result.Groups) == 0 {
		result.Root = res.Root
		return result, nil
	}

	// keep maps each duplicate occurrence to its replacement: nil drops
	// the element, non-nil substitutes it.
	keep := make(map[*parser.Element]*parser.Element)
	for _, group := range result.Groups {
		survivor, replacement := f.collapse(model, group)
		for _, el := range group.Elements {
			if el == survivor {
				keep[el] = replacement
			} else {
				keep[el] = nil
			}
		}
		result.Fixes = append(result.Fixes, Fix{
			Key:     group.Key,
			Mode:    f.Mode,
			Removed: len(group.Elements) - 1,
		})
	}

	result.Root = rebuild(res.Root, model, keep)
	return result, nil
}

// collapse picks the surviving occurrence for a group and its replacement
// element.
func (f *Fixer) collapse(model *registry.ConfigModel, group DuplicateGroup) (survivor, replacement *parser.Element) {
	switch f.Mode {
	case ModeKeepFirst:
		survivor = group.Elements[0]
		return survivor, survivor
	case ModeMergeChildren:
		if !group.Identical {
			survivor = group.Elements[0]
			return survivor, merger.UnionChildren(model, group.Elements)
		}
		// Identical occurrences have nothing to union.
		survivor = group.Elements[0]
		return survivor, survivor
	default:
		survivor = group.Elements[len(group.Elements)-1]
		return survivor, survivor
	}
}

// rebuild copies the tree, dropping and substituting duplicate occurrences
// per the keep map. Wrapper containers are preserved in place.
func rebuild(root *parser.Element, model *registry.ConfigModel, keep map[*parser.Element]*parser.Element) *parser.Element {
	out := &parser.Element{Tag: root.Tag, Attrs: root.Attrs, Text: root.Text}
	for _, child := range root.Children {
		if model.IsEntryTag(child.Tag) {
			if el, ok := apply(child, keep); ok {
				out.Children = append(out.Children, el)
			}
			continue
		}
		if len(child.Children) == 0 {
			out.Children = append(out.Children, child)
			continue
		}
		kept := &parser.Element{Tag: child.Tag, Attrs: child.Attrs, Text: child.Text}
		for _, sub := range child.Children {
			if model.IsEntryTag(sub.Tag) {
				if el, ok := apply(sub, keep); ok {
					kept.Children = append(kept.Children, el)
				}
				continue
			}
			kept.Children = append(kept.Children, sub)
		}
		out.Children = append(out.Children, kept)
	}
	return out
}

func apply(el *parser.Element, keep map[*parser.Element]*parser.Element) (*parser.Element, bool) {
	replacement, tracked := keep[el]
	if !tracked {
		return el, true
	}
	if replacement == nil {
		return nil, false
	}
	return replacement, true
}
