package registry

import (
	"github.com/hoangluudev/modmerge/parser"
)

// EntryElements returns the logical record elements beneath root for this
// model. Entry tags are matched among the root's direct children and one
// wrapper level deeper, which covers list files that group their records
// under container tags.
//
// Models without entry tags describe whole-document files; for those the
// root itself is the single logical record and EntryElements returns nil.
func (m *ConfigModel) EntryElements(root *parser.Element) []*parser.Element {
	if root == nil || !m.HasEntries() {
		return nil
	}
	var out []*parser.Element
	for _, child := range root.Children {
		if m.IsEntryTag(child.Tag) {
			out = append(out, child)
			continue
		}
		for _, sub := range child.Children {
			if m.IsEntryTag(sub.Tag) {
				out = append(out, sub)
			}
		}
	}
	return out
}
