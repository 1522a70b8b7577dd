package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func sigOf(t *testing.T, input string) Signature {
	t.Helper()
	result, err := ParseBytes([]byte(input), "sig.xml")
	require.NoError(t, err)
	return DeepSignature(result.Root)
}

func TestDeepSignature_Table(t *testing.T) {
	base := `<type name="Deer"><nominal>6</nominal></type>`

	tests := []struct {
		name  string
		other string
		equal bool
	}{
		{"identical", `<type name="Deer"><nominal>6</nominal></type>`, true},
		{"whitespace only", "<type name=\"Deer\">\n    <nominal>  6  </nominal>\n</type>", true},
		{"different text", `<type name="Deer"><nominal>10</nominal></type>`, false},
		{"different attribute", `<type name="Wolf"><nominal>6</nominal></type>`, false},
		{"extra attribute", `<type name="Deer" rare="1"><nominal>6</nominal></type>`, false},
		{"extra child", `<type name="Deer"><nominal>6</nominal><lifetime>300</lifetime></type>`, false},
		{"different tag", `<kind name="Deer"><nominal>6</nominal></kind>`, false},
		{"nested difference", `<type name="Deer"><nominal unit="x">6</nominal></type>`, false},
	}

	baseSig := sigOf(t, base)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			otherSig := sigOf(t, tt.other)
			if tt.equal {
				assert.Equal(t, baseSig, otherSig)
			} else {
				assert.NotEqual(t, baseSig, otherSig)
			}
		})
	}
}

func TestDeepSignature_AttributeOrder(t *testing.T) {
	a := sigOf(t, `<group name="Camp" x="10" z="20"/>`)
	b := sigOf(t, `<group z="20" name="Camp" x="10"/>`)
	assert.Equal(t, a, b)
}

func TestDeepSignature_ChildOrderMatters(t *testing.T) {
	// Child order is structure: reordering children is a semantic change.
	a := sigOf(t, `<random name="LootA"><item name="Rope"/><item name="Nails"/></random>`)
	b := sigOf(t, `<random name="LootA"><item name="Nails"/><item name="Rope"/></random>`)
	assert.NotEqual(t, a, b)
}

// genElement builds arbitrary small element trees for property testing.
func genElement() *rapid.Generator[*Element] {
	tag := rapid.StringMatching(`[a-z][a-z0-9]{0,7}`)
	value := rapid.StringMatching(`[ -~]{0,12}`)

	var gen func(depth int) *rapid.Generator[*Element]
	gen = func(depth int) *rapid.Generator[*Element] {
		return rapid.Custom(func(t *rapid.T) *Element {
			el := &Element{Tag: tag.Draw(t, "tag")}
			names := rapid.SliceOfNDistinct(tag, 0, 3, rapid.ID[string]).Draw(t, "attrNames")
			for _, name := range names {
				el.Attrs = append(el.Attrs, Attr{Name: name, Value: value.Draw(t, "attrValue")})
			}
			el.Text = value.Draw(t, "text")
			if depth > 0 {
				n := rapid.IntRange(0, 3).Draw(t, "childCount")
				for i := 0; i < n; i++ {
					el.Children = append(el.Children, gen(depth-1).Draw(t, "child"))
				}
			}
			return el
		})
	}
	return gen(2)
}

func TestDeepSignature_Reflexive(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		el := genElement().Draw(t, "el")
		if DeepSignature(el) != DeepSignature(el) {
			t.Fatal("signature not reflexive")
		}
		if DeepSignature(el) != DeepSignature(el.Clone()) {
			t.Fatal("signature differs for a deep copy")
		}
	})
}

func TestDeepSignature_AttrOrderInvariant(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		el := genElement().Draw(t, "el")
		shuffled := el.Clone()
		perm := rapid.Permutation(shuffled.Attrs).Draw(t, "perm")
		shuffled.Attrs = perm
		if DeepSignature(el) != DeepSignature(shuffled) {
			t.Fatal("signature sensitive to attribute order")
		}
	})
}

func TestDeepSignature_WhitespaceInvariant(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		el := genElement().Draw(t, "el")
		padded := el.Clone()
		padded.Text = "  " + padded.Text + "\n\t"
		if DeepSignature(el) != DeepSignature(padded) {
			t.Fatal("signature sensitive to surrounding whitespace")
		}
	})
}

func TestDeepSignature_TextSensitive(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		el := genElement().Draw(t, "el")
		changed := el.Clone()
		changed.Text = NormalizeText(changed.Text) + "!"
		if DeepSignature(el) == DeepSignature(changed) {
			t.Fatal("signature insensitive to a text change")
		}
	})
}

func TestPositionKey(t *testing.T) {
	tests := []struct {
		name  string
		input string
		key   string
		ok    bool
	}{
		{"pos attribute", `<group pos="1024.5 2048.0 90"/>`, "pos=1024.5 2048.0 90", true},
		{"xyz coordinates", `<pos x="100" z="200"/>`, "x=100,z=200", true},
		{"full coordinates", `<pos x="100" y="5" z="200" a="45"/>`, "x=100,y=5,z=200,a=45", true},
		{"missing z", `<pos x="100"/>`, "", false},
		{"no spatial attrs", `<type name="Deer"/>`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseBytes([]byte(tt.input), "pos.xml")
			require.NoError(t, err)
			key, ok := PositionKey(result.Root)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.key, key)
		})
	}
}

func TestStructuralKey(t *testing.T) {
	result, err := ParseBytes([]byte(`<zone smin="0" dmax="5" name="Edge"/>`), "k.xml")
	require.NoError(t, err)
	assert.Equal(t, "zone[dmax=5,name=Edge,smin=0]", StructuralKey(result.Root))

	bare, err := ParseBytes([]byte(`<weather/>`), "k.xml")
	require.NoError(t, err)
	assert.Equal(t, "weather", StructuralKey(bare.Root))
}
