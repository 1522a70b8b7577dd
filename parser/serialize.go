package parser

import (
	"bytes"
	"strings"
)

// Declaration is the XML declaration header written at the top of every
// rewritten target file.
const Declaration = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`

// indentUnit is the indentation step used for target files.
const indentUnit = "    "

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
)

// Encode serializes an element tree to a well-formed document with the
// declaration header and stable indentation. The output always ends with a
// newline.
func Encode(root *Element) []byte {
	var buf bytes.Buffer
	buf.WriteString(Declaration)
	buf.WriteByte('\n')
	encodeElement(&buf, root, 0)
	return buf.Bytes()
}

// EncodeFragment serializes a single element without the declaration
// header, for previews and conflict display.
func EncodeFragment(el *Element) []byte {
	var buf bytes.Buffer
	encodeElement(&buf, el, 0)
	return buf.Bytes()
}

func encodeElement(buf *bytes.Buffer, el *Element, depth int) {
	indent := strings.Repeat(indentUnit, depth)
	buf.WriteString(indent)
	buf.WriteByte('<')
	buf.WriteString(el.Tag)
	for _, a := range el.Attrs {
		buf.WriteByte(' ')
		buf.WriteString(a.Name)
		buf.WriteString(`="`)
		buf.WriteString(attrEscaper.Replace(a.Value))
		buf.WriteByte('"')
	}

	text := strings.TrimSpace(el.Text)
	switch {
	case len(el.Children) == 0 && text == "":
		buf.WriteString("/>\n")
	case len(el.Children) == 0:
		buf.WriteByte('>')
		buf.WriteString(textEscaper.Replace(text))
		buf.WriteString("</")
		buf.WriteString(el.Tag)
		buf.WriteString(">\n")
	default:
		buf.WriteString(">\n")
		if text != "" {
			buf.WriteString(strings.Repeat(indentUnit, depth+1))
			buf.WriteString(textEscaper.Replace(text))
			buf.WriteByte('\n')
		}
		for _, c := range el.Children {
			encodeElement(buf, c, depth+1)
		}
		buf.WriteString(indent)
		buf.WriteString("</")
		buf.WriteString(el.Tag)
		buf.WriteString(">\n")
	}
}
