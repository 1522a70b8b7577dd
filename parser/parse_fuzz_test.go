package parser

import (
	"errors"
	"testing"
	"unicode/utf8"

	"github.com/hoangluudev/modmerge/mergeerrors"
)

// FuzzParseBytes mutates raw file content to find inputs that panic the
// forgiving parser. The parser is the first thing untrusted mod files hit,
// so it must degrade to an error or a warning, never a crash.
func FuzzParseBytes(f *testing.F) {
	seedCorpus := [][]byte{
		// Well-formed entry file
		[]byte(`<?xml version="1.0" encoding="UTF-8"?>
<types>
    <type name="Animal_CervusElaphus">
        <nominal>8</nominal>
        <flags count_in_map="1" deloot="0"/>
    </type>
</types>
`),
		// Rootless fragment, as mods actually ship them
		[]byte(`<type name="A"><nominal>1</nominal></type>
<type name="B"><nominal>2</nominal></type>`),
		// Line comments between elements
		[]byte("<types>\n// disabled below\n<type name=\"A\"/>\n</types>"),
		// Empty input
		[]byte(""),
		// Not XML at all
		[]byte("class CfgPatches { units[] = {}; };"),
		// Truncated mid-tag
		[]byte(`<types><type name="A`),
		// Mismatched close tags
		[]byte(`<types><type name="A"></types></type>`),
		// Declaration only
		[]byte(`<?xml version="1.0" encoding="UTF-8"?>`),
		// Unknown charset declaration
		[]byte(`<?xml version="1.0" encoding="windows-1251"?><types/>`),
		// Attribute soup
		[]byte(`<event name="A" name="A" = "" <nested`),
		// Control bytes and invalid UTF-8
		[]byte("<types>\x00\x01\xff<type name=\"\xfe\"/></types>"),
		// CDATA and entities
		[]byte(`<types><type name="&amp;&#60;"><![CDATA[raw < text]]></type></types>`),
		// Deep nesting
		[]byte(`<a><b><c><d><e><f><g><h><i><j>deep</j></i></h></g></f></e></d></c></b></a>`),
	}
	for _, seed := range seedCorpus {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		res, err := ParseBytes(data, "fuzz.xml")
		if err != nil {
			// Failures must be typed, never panics.
			var pe *mergeerrors.ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("non-ParseError error: %v", err)
			}
			return
		}
		if res.Root == nil {
			t.Fatal("nil root without error")
		}

		// Anything that parsed must also sign, encode, and reparse
		// without panicking.
		sig := DeepSignature(res.Root)
		if !utf8.ValidString(string(sig)) {
			t.Fatalf("signature is not valid UTF-8: %q", sig)
		}
		out := Encode(res.Root)
		_, _ = ParseBytes(out, "fuzz-roundtrip.xml")
	})
}
