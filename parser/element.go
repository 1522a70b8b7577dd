package parser

import "slices"

// Attr is a single XML attribute. Order within an element is preserved as
// parsed; identity functions sort by name so ordering never affects
// signatures.
type Attr struct {
	Name  string
	Value string
}

// Element is one node of an owned XML tree. The zero value is not useful;
// trees are produced by Parse or constructed explicitly in tests.
type Element struct {
	Tag      string
	Attrs    []Attr
	Text     string
	Children []*Element
}

// Attr returns the value of the named attribute.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// AttrDefault returns the value of the named attribute, or def when absent.
func (e *Element) AttrDefault(name, def string) string {
	if v, ok := e.Attr(name); ok {
		return v
	}
	return def
}

// ChildrenByTag returns the direct children with the given tag, in document
// order.
func (e *Element) ChildrenByTag(tag string) []*Element {
	var out []*Element
	for _, c := range e.Children {
		if c.Tag == tag {
			out = append(out, c)
		}
	}
	return out
}

// FirstChild returns the first direct child with the given tag, or nil.
func (e *Element) FirstChild(tag string) *Element {
	for _, c := range e.Children {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

// Clone returns a deep copy of the element and all descendants.
func (e *Element) Clone() *Element {
	out := &Element{
		Tag:   e.Tag,
		Attrs: slices.Clone(e.Attrs),
		Text:  e.Text,
	}
	if len(e.Children) > 0 {
		out.Children = make([]*Element, len(e.Children))
		for i, c := range e.Children {
			out.Children[i] = c.Clone()
		}
	}
	return out
}
