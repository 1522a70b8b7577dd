package commands

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupScanFlags(t *testing.T) {
	fs, flags := SetupScanFlags()

	t.Run("default values", func(t *testing.T) {
		assert.Equal(t, FormatText, flags.Format)
		assert.False(t, flags.IncludeUnknown, "expected IncludeUnknown to be false by default")
		assert.Empty(t, flags.Skip)
	})

	t.Run("parse flags", func(t *testing.T) {
		args := []string{"-f", "json", "--include-unknown", "--skip", "@A", "--skip", "@B", "mods/@Trader"}
		require.NoError(t, fs.Parse(args))

		assert.Equal(t, FormatJSON, flags.Format)
		assert.True(t, flags.IncludeUnknown, "expected IncludeUnknown to be true")
		assert.Equal(t, stringList{"@A", "@B"}, flags.Skip)
		assert.Equal(t, "mods/@Trader", fs.Arg(0))
	})
}

func TestHandleScan_NoArgs(t *testing.T) {
	err := HandleScan([]string{})
	assert.Error(t, err)
}

func TestHandleScan_Help(t *testing.T) {
	err := HandleScan([]string{"--help"})
	assert.NoError(t, err)
}

func TestHandleScan_InvalidFormat(t *testing.T) {
	dir := writeFiles(t, map[string]string{"db/types.xml": typesDeer})
	err := HandleScan([]string{"-f", "csv", dir})
	assert.Error(t, err)
}

func TestHandleScan_MissingDir(t *testing.T) {
	err := HandleScan([]string{"-q", filepath.Join(t.TempDir(), "no-such-mod")})
	assert.Error(t, err)
}

func TestHandleScan_Succeeds(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"db/types.xml": typesDeer,
		"notes.txt":    "not xml",
	})
	for _, format := range []string{FormatText, FormatJSON, FormatYAML} {
		t.Run(format, func(t *testing.T) {
			assert.NoError(t, HandleScan([]string{"-q", "-f", format, dir}))
		})
	}
}

func TestScanReport(t *testing.T) {
	dir := writeFiles(t, map[string]string{"db/types.xml": typesDeer})
	infos := scanFixture(t, dir)

	report := scanReport(infos)
	require.Len(t, report, 1)
	require.Len(t, report[0].Files, 1)
	f := report[0].Files[0]
	assert.Equal(t, "types.xml", f.Schema)
	assert.Equal(t, "merge-children", f.Strategy)
	assert.Equal(t, 1, f.EntryCount)
	assert.Equal(t, "mergeable", f.Status)
}
