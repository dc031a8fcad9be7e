// Package storage provides the file layer exports are written through.
// Writes are whole-file and atomic: content goes to a temporary sibling which
// is renamed over the target, so a failed write leaves the old file intact.
package storage

import (
	"context"
)

// BackupSuffix is appended to a target path to name its compressed backup.
const BackupSuffix = ".bak.sz"

// FileStorage abstracts the filesystem operations used by exports.
type FileStorage interface {
	// WriteFile atomically replaces path with data.
	WriteFile(ctx context.Context, path string, data []byte) error

	// ReadFile returns the content of path.
	ReadFile(ctx context.Context, path string) ([]byte, error)

	// Exists reports whether path exists as a regular file.
	Exists(ctx context.Context, path string) (bool, error)

	// Backup stores a compressed copy of path next to it and returns the
	// backup path. A missing path is not an error and yields "".
	Backup(ctx context.Context, path string) (string, error)

	// Restore returns the decompressed content of a backup written by Backup.
	Restore(ctx context.Context, backupPath string) ([]byte, error)
}
