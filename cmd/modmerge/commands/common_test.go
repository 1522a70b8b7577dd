package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateOutputFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{FormatText, false},
		{FormatJSON, false},
		{FormatYAML, false},
		{"xml", true},
		{"", true},
		{"JSON", true},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			err := ValidateOutputFormat(tt.format)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestOutputStructured(t *testing.T) {
	data := map[string]any{"targets": 2, "mission": "mpmissions/dayzOffline"}

	t.Run("json", func(t *testing.T) {
		assert.NoError(t, OutputStructured(data, FormatJSON))
	})

	t.Run("yaml", func(t *testing.T) {
		assert.NoError(t, OutputStructured(data, FormatYAML))
	})

	t.Run("text rejected", func(t *testing.T) {
		assert.Error(t, OutputStructured(data, FormatText))
	})
}

func TestStringList(t *testing.T) {
	var s stringList
	require.NoError(t, s.Set("@Trader"))
	require.NoError(t, s.Set("@Dogs"))
	assert.Equal(t, stringList{"@Trader", "@Dogs"}, s)
	assert.Equal(t, "@Trader,@Dogs", s.String())
}

func TestLoadRegistry(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		reg, err := loadRegistry("")
		require.NoError(t, err)
		_, ok := reg.ModelForFilename("types.xml")
		assert.True(t, ok)
	})

	t.Run("missing overlay", func(t *testing.T) {
		_, err := loadRegistry("no/such/overlay.yaml")
		assert.Error(t, err)
	})

	t.Run("overlay applied", func(t *testing.T) {
		dir := writeFiles(t, map[string]string{
			"overlay.yaml": "models:\n  - name: custom.xml\n    root_tag: custom\n    entry_tags: [item]\n    identity_attr: name\n    strategy: replace\n",
		})
		reg, err := loadRegistry(dir + "/overlay.yaml")
		require.NoError(t, err)
		_, ok := reg.ModelForFilename("custom.xml")
		assert.True(t, ok)
	})
}
