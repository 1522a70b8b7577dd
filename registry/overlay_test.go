package registry

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoangluudev/modmerge/mergeerrors"
)

const overlayYAML = `models:
  - name: customloot.xml
    root_tag: customloot
    entry_tags: [loot]
    identity_attr: name
    strategy: merge-children
    mergeable_children: [item]
  - name: types.xml
    root_tag: types
    entry_tags: [type]
    identity_attr: name
    strategy: replace
`

func writeOverlay(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "overlay.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestWithOverlay(t *testing.T) {
	t.Run("adds custom model", func(t *testing.T) {
		reg, err := Default().WithOverlay(writeOverlay(t, overlayYAML))
		require.NoError(t, err)

		m, ok := reg.ModelForFilename("customloot.xml")
		require.True(t, ok)
		assert.Equal(t, StrategyMergeChildren, m.Strategy)
		assert.Equal(t, []string{"item"}, m.MergeableChildren)
	})

	t.Run("overlay shadows builtin by filename", func(t *testing.T) {
		reg, err := Default().WithOverlay(writeOverlay(t, overlayYAML))
		require.NoError(t, err)

		m, ok := reg.ModelForFilename("types.xml")
		require.True(t, ok)
		assert.Equal(t, StrategyReplace, m.Strategy)

		// The default registry is untouched.
		orig, ok := Default().ModelForFilename("types.xml")
		require.True(t, ok)
		assert.Equal(t, StrategyMergeChildren, orig.Strategy)
	})

	t.Run("unknown strategy rejected", func(t *testing.T) {
		bad := "models:\n  - name: x.xml\n    root_tag: x\n    strategy: overwrite\n"
		_, err := Default().WithOverlay(writeOverlay(t, bad))
		require.Error(t, err)
		assert.True(t, errors.Is(err, mergeerrors.ErrConfig))
	})

	t.Run("empty overlay rejected", func(t *testing.T) {
		_, err := Default().WithOverlay(writeOverlay(t, "models: []\n"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, mergeerrors.ErrConfig))
	})

	t.Run("missing file reported as config error", func(t *testing.T) {
		_, err := Default().WithOverlay(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, mergeerrors.ErrConfig))
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})

	t.Run("malformed yaml rejected", func(t *testing.T) {
		_, err := Default().WithOverlay(writeOverlay(t, "models: [unclosed"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, mergeerrors.ErrConfig))
	})
}
