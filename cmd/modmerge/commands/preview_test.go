package commands

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoangluudev/modmerge/merger"
)

func TestSetupPreviewFlags(t *testing.T) {
	fs, flags := SetupPreviewFlags()

	t.Run("default values", func(t *testing.T) {
		assert.Equal(t, "", flags.MissionDir)
		assert.Equal(t, FormatText, flags.Format)
	})

	t.Run("parse flags", func(t *testing.T) {
		args := []string{"-m", "mission", "-f", "yaml", "mods/@Trader"}
		require.NoError(t, fs.Parse(args))

		assert.Equal(t, "mission", flags.MissionDir)
		assert.Equal(t, FormatYAML, flags.Format)
		assert.Equal(t, "mods/@Trader", fs.Arg(0))
	})
}

func TestHandlePreview_MissingMission(t *testing.T) {
	err := HandlePreview([]string{"mods/@Trader"})
	assert.Error(t, err)
}

func TestHandlePreview_NoMods(t *testing.T) {
	err := HandlePreview([]string{"-m", "mission"})
	assert.Error(t, err)
}

func TestHandlePreview_Help(t *testing.T) {
	err := HandlePreview([]string{"--help"})
	assert.NoError(t, err)
}

func TestHandlePreview_Succeeds(t *testing.T) {
	mod := writeFiles(t, map[string]string{"db/types.xml": typesDeer})
	mission := writeFiles(t, map[string]string{"db/types.xml": typesMission})

	for _, format := range []string{FormatText, FormatJSON, FormatYAML} {
		t.Run(format, func(t *testing.T) {
			assert.NoError(t, HandlePreview([]string{"-m", mission, "-f", format, mod}))
		})
	}
}

func TestBuildPreviewReport(t *testing.T) {
	modA := writeFiles(t, map[string]string{"db/types.xml": typesDeer})
	modB := writeFiles(t, map[string]string{"db/types.xml": typesDeerDivergent})
	mission := writeFiles(t, map[string]string{"db/types.xml": typesMission})

	preview, err := merger.BuildPreview(context.Background(), mission, scanFixture(t, modA, modB))
	require.NoError(t, err)

	report := buildPreviewReport(preview)
	assert.Equal(t, mission, report.MissionDir)
	require.Len(t, report.Targets, 1)

	target := report.Targets[0]
	assert.Equal(t, "types.xml", target.Target)
	assert.Equal(t, "merge-children", target.Strategy)
	assert.Zero(t, target.New)
	require.Len(t, target.Conflicts, 1)
	assert.Equal(t, "type:Animal_CervusElaphus", target.Conflicts[0].Key)
	require.Len(t, target.Conflicts[0].Entries, 2)
	for _, e := range target.Conflicts[0].Entries {
		assert.Len(t, e.Signature, 12)
	}
	assert.Equal(t, 1, report.Unresolved)
}
