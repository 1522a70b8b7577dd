package parser

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/ianaindex"

	"github.com/hoangluudev/modmerge/mergeerrors"
)

// SyntheticRootTag is the tag of the root constructed when a file contains
// well-formed elements at top level with no single wrapper.
const SyntheticRootTag = "root"

// Parse reads and parses one configuration file.
func Parse(path string) (*ParseResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &mergeerrors.ParseError{
			Path:    path,
			Message: "cannot read file",
			Cause:   err,
		}
	}
	return ParseBytes(data, path)
}

// ParseBytes parses an in-memory configuration fragment. sourcePath is used
// for error and warning reporting only.
func ParseBytes(data []byte, sourcePath string) (*ParseResult, error) {
	result := &ParseResult{SourcePath: sourcePath}

	stripped, commentLines := stripLineComments(data)
	if commentLines > 0 {
		result.AddWarning(WarnLineComments,
			fmt.Sprintf("stripped %d '//' comment line(s) before parsing", commentLines))
	}

	tr, err := tokenize(stripped, true)
	if err != nil {
		// Lenient second pass: tolerates unescaped entities and similar
		// common mod-file mistakes. Structurally broken input still fails
		// there, and the stricter first error is the one reported.
		strictOffset := tr.failOffset
		var lenientErr error
		if tr, lenientErr = tokenize(stripped, false); lenientErr != nil {
			return nil, parseErrorFor(sourcePath, err, strictOffset)
		}
		result.AddWarning(WarnLenientSyntax,
			fmt.Sprintf("strict parse failed (%v); lenient parse succeeded", err))
	}

	if tr.charsetUsed != "" {
		result.AddWarning(WarnCharsetDecoded,
			fmt.Sprintf("decoded declared %s encoding", tr.charsetUsed))
	}
	if !tr.hadDecl {
		result.AddWarning(WarnNoDeclaration, "missing XML declaration header")
	}
	if tr.leadingComment || tr.trailingComment {
		result.AddWarning(WarnPreamble, "skipped human comment outside the root element")
	}
	if tr.interleavedComment {
		result.AddWarning(WarnInterleavedComments, "skipped comments interleaved with entries")
	}

	switch len(tr.roots) {
	case 0:
		return nil, &mergeerrors.ParseError{
			Path:    sourcePath,
			Message: "no elements found",
		}
	case 1:
		result.Root = tr.roots[0]
	default:
		// Bare entry list with no wrapper: construct a synthetic root so
		// the entries remain extractable.
		result.Root = &Element{Tag: SyntheticRootTag, Children: tr.roots}
		result.AddWarning(WarnSyntheticRoot,
			fmt.Sprintf("no single root element; wrapped %d top-level element(s)", len(tr.roots)))
	}

	trimText(result.Root)
	return result, nil
}

// tokenizeResult carries the element forest plus the metadata needed to
// decide which warnings to record.
type tokenizeResult struct {
	roots              []*Element
	hadDecl            bool
	leadingComment     bool
	trailingComment    bool
	interleavedComment bool
	charsetUsed        string
	// failOffset is the byte offset at the point of failure, 0 on success.
	failOffset int64
}

func tokenize(data []byte, strict bool) (*tokenizeResult, error) {
	tr := &tokenizeResult{}
	d := xml.NewDecoder(bytes.NewReader(data))
	d.Strict = strict
	d.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		enc, err := ianaindex.IANA.Encoding(charset)
		if err != nil || enc == nil {
			return nil, fmt.Errorf("unsupported charset %q", charset)
		}
		tr.charsetUsed = charset
		return enc.NewDecoder().Reader(input), nil
	}

	var stack []*Element
	for {
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			tr.failOffset = d.InputOffset()
			return tr, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			el := &Element{Tag: t.Name.Local}
			if len(t.Attr) > 0 {
				el.Attrs = make([]Attr, 0, len(t.Attr))
				for _, a := range t.Attr {
					el.Attrs = append(el.Attrs, Attr{Name: a.Name.Local, Value: a.Value})
				}
			}
			if len(stack) == 0 {
				tr.roots = append(tr.roots, el)
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Text += string(t)
			}
			// Top-level character data is indentation or stray text around
			// a bare entry list; it carries no entry content.
		case xml.Comment:
			switch {
			case len(stack) > 0:
				tr.interleavedComment = true
			case len(tr.roots) == 0:
				tr.leadingComment = true
			default:
				tr.trailingComment = true
			}
		case xml.ProcInst:
			if t.Target == "xml" {
				tr.hadDecl = true
			}
		case xml.Directive:
			// DOCTYPE and friends are skipped.
		}
	}
	// Elements still open at EOF mean mis-nested or truncated input, which
	// the non-strict decoder would otherwise let through.
	if len(stack) > 0 {
		tr.failOffset = d.InputOffset()
		return tr, fmt.Errorf("unbalanced document: %d unclosed element(s) at end of input", len(stack))
	}
	return tr, nil
}

// parseErrorFor converts a decoder error into a typed ParseError with the
// failure location.
func parseErrorFor(path string, err error, offset int64) *mergeerrors.ParseError {
	pe := &mergeerrors.ParseError{Path: path, Offset: offset, Cause: err}
	var syntaxErr *xml.SyntaxError
	if errors.As(err, &syntaxErr) {
		pe.Line = syntaxErr.Line
		pe.Message = syntaxErr.Msg
		pe.Cause = nil
	}
	return pe
}

// stripLineComments blanks lines whose first non-space characters are `//`.
// Line structure is preserved so error line numbers stay accurate. Returns
// the (possibly unchanged) data and the number of lines stripped.
func stripLineComments(data []byte) ([]byte, int) {
	if !bytes.Contains(data, []byte("//")) {
		return data, 0
	}
	lines := bytes.Split(data, []byte("\n"))
	count := 0
	for i, line := range lines {
		trimmed := bytes.TrimLeft(line, " \t")
		if bytes.HasPrefix(trimmed, []byte("//")) {
			lines[i] = nil
			count++
		}
	}
	if count == 0 {
		return data, 0
	}
	return bytes.Join(lines, []byte("\n")), count
}

// trimText removes surrounding indentation whitespace from every element's
// accumulated character data.
func trimText(el *Element) {
	el.Text = strings.TrimSpace(el.Text)
	for _, c := range el.Children {
		trimText(c)
	}
}
