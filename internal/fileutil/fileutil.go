// Package fileutil provides file permission constants and the atomic write
// primitive shared by the merger executor and the duplicate fixer.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// TargetFileMode is the file permission mode for rewritten mission target
// files. Mission files are read by the game server process, so they must be
// world-readable.
const TargetFileMode os.FileMode = 0o644

// TargetDirMode is the permission mode for destination directories created
// on the way to a target file.
const TargetDirMode os.FileMode = 0o755

// WriteFileAtomic writes data to path through a temporary file in the same
// directory followed by an atomic rename. Missing parent directories are
// created first. The destination file is either fully rewritten or left
// untouched, even on crash or cancellation mid-write.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, TargetDirMode); err != nil {
		return fmt.Errorf("fileutil: creating directory %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("fileutil: creating temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	// Any failure from here on must leave no temp file behind.
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("fileutil: writing temp file for %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("fileutil: syncing temp file for %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("fileutil: closing temp file for %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, TargetFileMode); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("fileutil: setting permissions for %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("fileutil: replacing %s: %w", path, err)
	}
	return nil
}
