package parser

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoangluudev/modmerge/mergeerrors"
)

const wellFormed = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<types>
    <type name="Deer">
        <nominal>6</nominal>
    </type>
    <type name="Wolf">
        <nominal>4</nominal>
    </type>
</types>
`

func TestParseBytes_WellFormed(t *testing.T) {
	result, err := ParseBytes([]byte(wellFormed), "types.xml")
	require.NoError(t, err)
	require.NotNil(t, result.Root)

	assert.Equal(t, "types", result.Root.Tag)
	assert.Empty(t, result.Warnings)

	entries := result.Root.ChildrenByTag("type")
	require.Len(t, entries, 2)
	assert.Equal(t, "Deer", entries[0].AttrDefault("name", ""))
	assert.Equal(t, "6", entries[0].FirstChild("nominal").Text)
}

func TestParseBytes_Fallbacks(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		warnings []WarningCategory
	}{
		{
			name:     "missing declaration",
			input:    `<types><type name="Deer"/></types>`,
			warnings: []WarningCategory{WarnNoDeclaration},
		},
		{
			name: "leading comment",
			input: `<?xml version="1.0"?>
<!-- shipped by @Trader -->
<types><type name="Deer"/></types>`,
			warnings: []WarningCategory{WarnPreamble},
		},
		{
			name: "trailing comment",
			input: `<?xml version="1.0"?>
<types><type name="Deer"/></types>
<!-- end of file -->`,
			warnings: []WarningCategory{WarnPreamble},
		},
		{
			name: "comments interleaved with entries",
			input: `<?xml version="1.0"?>
<types>
    <type name="Deer"/>
    <!-- wolves below -->
    <type name="Wolf"/>
</types>`,
			warnings: []WarningCategory{WarnInterleavedComments},
		},
		{
			name: "line comments",
			input: `<?xml version="1.0"?>
<types>
    // added by the trader pack
    <type name="Deer"/>
</types>`,
			warnings: []WarningCategory{WarnLineComments},
		},
		{
			name: "bare entry list without root",
			input: `<type name="Deer"><nominal>6</nominal></type>
<type name="Wolf"><nominal>4</nominal></type>`,
			warnings: []WarningCategory{WarnNoDeclaration, WarnSyntheticRoot},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseBytes([]byte(tt.input), "test.xml")
			require.NoError(t, err)
			for _, cat := range tt.warnings {
				assert.True(t, result.HasWarning(cat), "expected warning %s, got %v", cat, result.Warnings)
			}
		})
	}
}

func TestWarningStrings(t *testing.T) {
	assert.Nil(t, WarningStrings(nil))

	result, err := ParseBytes([]byte(`<types><type name="Deer"/></types>`), "test.xml")
	require.NoError(t, err)
	require.NotEmpty(t, result.Warnings)

	msgs := WarningStrings(result.Warnings)
	require.Len(t, msgs, len(result.Warnings))
	for i, w := range result.Warnings {
		assert.Equal(t, w.Message, msgs[i])
	}
}

func TestParseBytes_SyntheticRoot(t *testing.T) {
	input := `<type name="Deer"/>
<type name="Wolf"/>`
	result, err := ParseBytes([]byte(input), "fragment.xml")
	require.NoError(t, err)

	assert.Equal(t, SyntheticRootTag, result.Root.Tag)
	require.Len(t, result.Root.Children, 2)
	assert.Equal(t, "Deer", result.Root.Children[0].AttrDefault("name", ""))
}

func TestParseBytes_InterleavedCommentsNotContent(t *testing.T) {
	input := `<types>
    <type name="Deer"/>
    <!-- <type name="Ghost"/> -->
    <type name="Wolf"/>
</types>`
	result, err := ParseBytes([]byte(input), "types.xml")
	require.NoError(t, err)

	// The commented-out entry must not appear as content.
	assert.Len(t, result.Root.ChildrenByTag("type"), 2)
	assert.True(t, result.HasWarning(WarnInterleavedComments))
}

func TestParseBytes_LineCommentsDoNotEatURLs(t *testing.T) {
	input := `<types>
    <type name="Deer" source="http://example.com/mod"/>
</types>`
	result, err := ParseBytes([]byte(input), "types.xml")
	require.NoError(t, err)

	assert.False(t, result.HasWarning(WarnLineComments))
	src, ok := result.Root.Children[0].Attr("source")
	require.True(t, ok)
	assert.Equal(t, "http://example.com/mod", src)
}

func TestParseBytes_Errors(t *testing.T) {
	t.Run("unbalanced tags", func(t *testing.T) {
		_, err := ParseBytes([]byte(`<types><type name="Deer"></types>`), "bad.xml")
		require.Error(t, err)
		assert.True(t, errors.Is(err, mergeerrors.ErrParse))

		var pe *mergeerrors.ParseError
		require.True(t, errors.As(err, &pe))
		assert.Equal(t, "bad.xml", pe.Path)
		assert.Greater(t, pe.Line, 0)
		assert.Greater(t, pe.Offset, int64(0))
	})

	t.Run("truncated input", func(t *testing.T) {
		_, err := ParseBytes([]byte(`<types><type name="Deer">`), "cut.xml")
		require.Error(t, err)
		assert.True(t, errors.Is(err, mergeerrors.ErrParse))

		var pe *mergeerrors.ParseError
		require.True(t, errors.As(err, &pe))
		assert.Greater(t, pe.Offset, int64(0))
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := ParseBytes(nil, "empty.xml")
		require.Error(t, err)
		assert.True(t, errors.Is(err, mergeerrors.ErrParse))
	})

	t.Run("only comments", func(t *testing.T) {
		_, err := ParseBytes([]byte("<!-- nothing here -->"), "comments.xml")
		require.Error(t, err)
		assert.True(t, errors.Is(err, mergeerrors.ErrParse))
	})
}

func TestParseBytes_TextIsTrimmed(t *testing.T) {
	input := `<types>
    <type name="Deer">
        <nominal>
            6
        </nominal>
    </type>
</types>`
	result, err := ParseBytes([]byte(input), "types.xml")
	require.NoError(t, err)

	nominal := result.Root.Children[0].FirstChild("nominal")
	require.NotNil(t, nominal)
	assert.Equal(t, "6", nominal.Text)
	// Container elements end up with no text of their own.
	assert.Empty(t, result.Root.Text)
}

func TestParse_File(t *testing.T) {
	t.Run("reads from disk", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "types.xml")
		require.NoError(t, os.WriteFile(path, []byte(wellFormed), 0o644))

		result, err := Parse(path)
		require.NoError(t, err)
		assert.Equal(t, path, result.SourcePath)
		assert.Equal(t, "types", result.Root.Tag)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Parse(filepath.Join(t.TempDir(), "nope.xml"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, mergeerrors.ErrParse))
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})
}

