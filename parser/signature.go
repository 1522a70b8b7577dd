package parser

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Signature is a structural fingerprint of an element tree. Equal
// signatures mean the trees are semantically identical: same tag, same
// attributes (order ignored), same whitespace-normalized text, and the same
// children recursively. Signatures are comparable values suitable as map
// keys.
type Signature string

// DeepSignature computes the structural fingerprint of an element.
// It is insensitive to attribute ordering and to pure whitespace formatting
// differences, and sensitive to any semantic difference in attributes, text,
// or child structure at any depth.
func DeepSignature(el *Element) Signature {
	h := sha256.New()
	writeCanonical(h, el)
	return Signature(hex.EncodeToString(h.Sum(nil)))
}

// writeCanonical streams an unambiguous canonical form of the element.
// Every variable-length field is length-framed so no concatenation of
// different trees can collide textually.
func writeCanonical(w io.Writer, el *Element) {
	writeFramed(w, "t", el.Tag)

	if len(el.Attrs) > 0 {
		attrs := make([]Attr, len(el.Attrs))
		copy(attrs, el.Attrs)
		sort.Slice(attrs, func(i, j int) bool {
			if attrs[i].Name != attrs[j].Name {
				return attrs[i].Name < attrs[j].Name
			}
			return attrs[i].Value < attrs[j].Value
		})
		for _, a := range attrs {
			writeFramed(w, "a", a.Name)
			writeFramed(w, "v", a.Value)
		}
	}

	if text := NormalizeText(el.Text); text != "" {
		writeFramed(w, "x", text)
	}

	for _, c := range el.Children {
		_, _ = io.WriteString(w, "c(")
		writeCanonical(w, c)
		_, _ = io.WriteString(w, ")")
	}
}

func writeFramed(w io.Writer, kind, s string) {
	_, _ = fmt.Fprintf(w, "%s%d:%s", kind, len(s), s)
}

// NormalizeText collapses runs of whitespace to single spaces and trims the
// ends, so formatting-only differences never affect identity.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// positionAttrs are the spatial placement attributes, in key order.
var positionAttrs = [4]string{"x", "y", "z", "a"}

// PositionKey derives a spatial identity key for placement elements.
// An element qualifies when it carries a "pos" attribute or at least the
// "x" and "z" coordinates. Many placement-only record types have no name
// attribute, so position is the only usable identity.
func PositionKey(el *Element) (string, bool) {
	if pos, ok := el.Attr("pos"); ok {
		return "pos=" + NormalizeText(pos), true
	}
	if _, ok := el.Attr("x"); !ok {
		return "", false
	}
	if _, ok := el.Attr("z"); !ok {
		return "", false
	}
	var b strings.Builder
	for i, name := range positionAttrs {
		if v, ok := el.Attr(name); ok {
			if i > 0 && b.Len() > 0 {
				b.WriteByte(',')
			}
			b.WriteString(name)
			b.WriteByte('=')
			b.WriteString(strings.TrimSpace(v))
		}
	}
	return b.String(), true
}

// StructuralKey builds a coarse identity from tag plus sorted attribute
// pairs. Used when a model has no identity attribute or an entry does not
// carry it.
func StructuralKey(el *Element) string {
	if len(el.Attrs) == 0 {
		return el.Tag
	}
	pairs := make([]string, 0, len(el.Attrs))
	for _, a := range el.Attrs {
		pairs = append(pairs, a.Name+"="+a.Value)
	}
	sort.Strings(pairs)
	return el.Tag + "[" + strings.Join(pairs, ",") + "]"
}
