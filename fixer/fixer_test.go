package fixer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoangluudev/modmerge/mergeerrors"
	"github.com/hoangluudev/modmerge/parser"
	"github.com/hoangluudev/modmerge/registry"
)

func modelFor(t *testing.T, filename string) *registry.ConfigModel {
	t.Helper()
	model, ok := registry.Default().ModelForFilename(filename)
	require.True(t, ok, filename)
	return model
}

func parseDoc(t *testing.T, src string) *parser.ParseResult {
	t.Helper()
	res, err := parser.ParseBytes([]byte(src), "test.xml")
	require.NoError(t, err)
	return res
}

func typeNames(root *parser.Element) []string {
	var names []string
	for _, child := range root.ChildrenByTag("type") {
		name, _ := child.Attr("name")
		names = append(names, name)
	}
	return names
}

func TestFindDuplicateGroups(t *testing.T) {
	types := modelFor(t, "types.xml")

	t.Run("no duplicates", func(t *testing.T) {
		res := parseDoc(t, `<types><type name="Deer"/><type name="Boar"/></types>`)
		assert.Empty(t, FindDuplicateGroups(res.Root, types))
	})

	t.Run("identical duplicates", func(t *testing.T) {
		res := parseDoc(t, `<types>
			<type name="Deer"><nominal>6</nominal></type>
			<type name="Deer"><nominal>6</nominal></type>
		</types>`)
		groups := FindDuplicateGroups(res.Root, types)
		require.Len(t, groups, 1)
		assert.Equal(t, "type:Deer", groups[0].Key)
		assert.Len(t, groups[0].Elements, 2)
		assert.True(t, groups[0].Identical)
	})

	t.Run("divergent duplicates", func(t *testing.T) {
		res := parseDoc(t, `<types>
			<type name="Deer"><nominal>6</nominal></type>
			<type name="Deer"><nominal>10</nominal></type>
		</types>`)
		groups := FindDuplicateGroups(res.Root, types)
		require.Len(t, groups, 1)
		assert.False(t, groups[0].Identical)
	})
}

func TestFindDuplicateGroupsPositionIdentity(t *testing.T) {
	grouppos := modelFor(t, "mapgrouppos.xml")

	// Same name at different coordinates repeats by design.
	res := parseDoc(t, `<map>
		<group name="Land_Shed" x="100" z="200" a="0"/>
		<group name="Land_Shed" x="300" z="400" a="90"/>
	</map>`)
	assert.Empty(t, FindDuplicateGroups(res.Root, grouppos))

	// Same name at the same coordinates is a real duplicate.
	res = parseDoc(t, `<map>
		<group name="Land_Shed" x="100" z="200" a="0"/>
		<group name="Land_Shed" x="100" z="200" a="0"/>
	</map>`)
	groups := FindDuplicateGroups(res.Root, grouppos)
	require.Len(t, groups, 1)
	assert.Len(t, groups[0].Elements, 2)
}

func TestFixParsedModes(t *testing.T) {
	src := `<types>
		<type name="Deer"><nominal>6</nominal></type>
		<type name="Boar"/>
		<type name="Deer"><nominal>10</nominal></type>
	</types>`

	tests := []struct {
		mode        Mode
		wantNominal string
	}{
		{ModeKeepFirst, "6"},
		{ModeKeepLast, "10"},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			result, err := FixWithOptions(
				WithParsed(parseDoc(t, src)),
				WithModel(modelFor(t, "types.xml")),
				WithMode(tt.mode),
			)
			require.NoError(t, err)
			require.True(t, result.HasFixes())
			require.Len(t, result.Fixes, 1)
			assert.Equal(t, 1, result.Fixes[0].Removed)

			deer := result.Root.ChildrenByTag("type")
			var kept *parser.Element
			for _, el := range deer {
				if name, _ := el.Attr("name"); name == "Deer" {
					require.Nil(t, kept, "exactly one Deer survives")
					kept = el
				}
			}
			require.NotNil(t, kept)
			assert.Equal(t, tt.wantNominal, kept.FirstChild("nominal").Text)
		})
	}
}

func TestFixParsedMergeChildren(t *testing.T) {
	result, err := FixWithOptions(
		WithParsed(parseDoc(t, `<randompresets>
			<cargo name="LootA" chance="0.5">
				<item name="Apple" chance="0.4"/>
				<item name="Pear" chance="0.3"/>
			</cargo>
			<cargo name="LootA" chance="0.5">
				<item name="Pear" chance="0.3"/>
				<item name="Plum" chance="0.2"/>
			</cargo>
		</randompresets>`)),
		WithModel(modelFor(t, "cfgrandompresets.xml")),
		WithMode(ModeMergeChildren),
	)
	require.NoError(t, err)
	require.True(t, result.HasFixes())

	cargos := result.Root.ChildrenByTag("cargo")
	require.Len(t, cargos, 1)
	assert.Len(t, cargos[0].ChildrenByTag("item"), 3, "union with shared Pear collapsed")
}

func TestFixParsedMergeChildrenKeepsExclusiveFieldsSingle(t *testing.T) {
	result, err := FixWithOptions(
		WithParsed(parseDoc(t, `<types>
			<type name="Deer">
				<nominal>6</nominal>
				<usage name="Forest"/>
			</type>
			<type name="Deer">
				<nominal>10</nominal>
				<usage name="Farm"/>
			</type>
		</types>`)),
		WithModel(modelFor(t, "types.xml")),
		WithMode(ModeMergeChildren),
	)
	require.NoError(t, err)
	require.True(t, result.HasFixes())

	kept := result.Root.ChildrenByTag("type")
	require.Len(t, kept, 1)
	nominals := kept[0].ChildrenByTag("nominal")
	require.Len(t, nominals, 1, "exclusive child stays single-valued")
	assert.Equal(t, "6", nominals[0].Text)
	assert.Len(t, kept[0].ChildrenByTag("usage"), 2)
}

func TestFixParsedMergeChildrenRejectedForReplaceStrategy(t *testing.T) {
	_, err := FixWithOptions(
		WithParsed(parseDoc(t, `<events><event name="A"/><event name="A"/></events>`)),
		WithModel(modelFor(t, "events.xml")),
		WithMode(ModeMergeChildren),
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, mergeerrors.ErrResolution)
}

func TestFixFixedPoint(t *testing.T) {
	types := modelFor(t, "types.xml")
	result, err := FixWithOptions(
		WithParsed(parseDoc(t, `<types>
			<type name="Deer"><nominal>6</nominal></type>
			<type name="Deer"><nominal>10</nominal></type>
			<type name="Boar"/>
			<type name="Boar"/>
		</types>`)),
		WithModel(types),
	)
	require.NoError(t, err)
	require.Len(t, result.Fixes, 2)

	assert.Empty(t, FindDuplicateGroups(result.Root, types), "fixer output is a fixed point")

	second, err := FixWithOptions(WithParsed(&parser.ParseResult{Root: result.Root}), WithModel(types))
	require.NoError(t, err)
	assert.False(t, second.HasFixes())
}

func TestFixPreservesUntouchedContent(t *testing.T) {
	result, err := FixWithOptions(
		WithParsed(parseDoc(t, `<types>
			<type name="Deer"/>
			<type name="Deer"/>
			<type name="Boar"/>
			<type name="Wolf"/>
		</types>`)),
		WithModel(modelFor(t, "types.xml")),
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"Deer", "Boar", "Wolf"}, typeNames(result.Root))
}

func TestFixFileWriteBack(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "types.xml")
	require.NoError(t, os.WriteFile(path, []byte(`<types>
		<type name="Deer"><nominal>6</nominal></type>
		<type name="Deer"><nominal>10</nominal></type>
	</types>`), 0o644))

	result, err := FixWithOptions(WithFilePath(path), WithMode(ModeKeepLast))
	require.NoError(t, err)
	assert.True(t, result.Written)

	reparsed, err := parser.Parse(path)
	require.NoError(t, err)
	deer := reparsed.Root.ChildrenByTag("type")
	require.Len(t, deer, 1)
	assert.Equal(t, "10", deer[0].FirstChild("nominal").Text)
}

func TestFixFileDryRun(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "types.xml")
	original := `<types><type name="Deer"/><type name="Deer"/></types>`
	require.NoError(t, os.WriteFile(path, []byte(original), 0o644))

	result, err := FixWithOptions(WithFilePath(path), WithDryRun())
	require.NoError(t, err)
	assert.True(t, result.HasFixes())
	assert.False(t, result.Written)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, original, string(data))
}

func TestFixFileUnknownSchema(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mystery.xml")
	require.NoError(t, os.WriteFile(path, []byte(`<mystery><thing/></mystery>`), 0o644))

	_, err := FixWithOptions(WithFilePath(path))
	require.Error(t, err)
	assert.ErrorIs(t, err, mergeerrors.ErrConfig)
}

func TestFixOptionValidation(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
	}{
		{"no input source", nil},
		{"both input sources", []Option{
			WithFilePath("a.xml"),
			WithParsed(&parser.ParseResult{Root: &parser.Element{Tag: "types"}}),
		}},
		{"empty file path", []Option{WithFilePath("")}},
		{"nil parsed", []Option{WithParsed(nil)}},
		{"invalid mode", []Option{WithFilePath("a.xml"), WithMode(Mode("nope"))}},
		{"nil registry", []Option{WithFilePath("a.xml"), WithRegistry(nil)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FixWithOptions(tt.opts...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "fixer: invalid options")
		})
	}
}

func TestIsValidMode(t *testing.T) {
	for _, mode := range ValidModes() {
		assert.True(t, IsValidMode(mode), mode)
	}
	assert.False(t, IsValidMode("keep-some"))
}
