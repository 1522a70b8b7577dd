package commands

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hoangluudev/modmerge/scanner"
)

// writeFiles materializes a map of relative path -> content under a fresh
// temp directory and returns the directory.
func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

// scanFixture scans the given mod directories with default options.
func scanFixture(t *testing.T, dirs ...string) []scanner.ModConfigInfo {
	t.Helper()
	infos, err := scanner.Scan(context.Background(), dirs)
	require.NoError(t, err)
	return infos
}

const typesDeer = `<?xml version="1.0" encoding="UTF-8"?>
<types>
    <type name="Animal_CervusElaphus">
        <nominal>8</nominal>
        <lifetime>180</lifetime>
    </type>
</types>
`

const typesDeerDivergent = `<?xml version="1.0" encoding="UTF-8"?>
<types>
    <type name="Animal_CervusElaphus">
        <nominal>12</nominal>
        <lifetime>240</lifetime>
    </type>
</types>
`

const typesMission = `<?xml version="1.0" encoding="UTF-8"?>
<types>
    <type name="Animal_UrsusArctos">
        <nominal>4</nominal>
    </type>
</types>
`

const typesDuplicated = `<?xml version="1.0" encoding="UTF-8"?>
<types>
    <type name="Animal_CervusElaphus">
        <nominal>8</nominal>
    </type>
    <type name="Animal_CervusElaphus">
        <nominal>12</nominal>
    </type>
</types>
`
