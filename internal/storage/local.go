package storage

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/golang/snappy"
	"github.com/google/uuid"
	"github.com/spf13/afero"

	gerrors "github.com/gamelistedit/gamelistedit/internal/errors"
)

// LocalStorage implements FileStorage on an afero filesystem. Use
// afero.NewOsFs for real files and afero.NewMemMapFs in tests.
type LocalStorage struct {
	fs   afero.Fs
	perm os.FileMode
}

// NewLocalStorage creates a storage writing through fs.
func NewLocalStorage(fs afero.Fs) *LocalStorage {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &LocalStorage{fs: fs, perm: 0o644}
}

// Fs returns the underlying filesystem.
func (l *LocalStorage) Fs() afero.Fs {
	return l.fs
}

// WriteFile writes data to a temporary file in the target directory and
// renames it over path. Errors are classified as EXPORT errors.
func (l *LocalStorage) WriteFile(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	perm := l.perm
	if info, err := l.fs.Stat(path); err == nil {
		if info.IsDir() {
			return gerrors.NewExportError(gerrors.CodeIsDirectory, "path is a directory", path, nil)
		}
		perm = info.Mode().Perm()
	}

	dir, base := filepath.Split(path)
	tmp := filepath.Join(dir, "."+base+"."+uuid.NewString()+".tmp")
	if err := afero.WriteFile(l.fs, tmp, data, perm); err != nil {
		_ = l.fs.Remove(tmp)
		return gerrors.FromOS(gerrors.ErrCategoryExport, path, err)
	}
	if err := l.fs.Rename(tmp, path); err != nil {
		_ = l.fs.Remove(tmp)
		return gerrors.FromOS(gerrors.ErrCategoryExport, path, err)
	}
	return nil
}

// ReadFile reads path.
func (l *LocalStorage) ReadFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return nil, gerrors.FromOS(gerrors.ErrCategoryExport, path, err)
	}
	return data, nil
}

// Exists reports whether path exists and is not a directory.
func (l *LocalStorage) Exists(ctx context.Context, path string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	info, err := l.fs.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, gerrors.FromOS(gerrors.ErrCategoryExport, path, err)
	}
	return !info.IsDir(), nil
}

// Backup writes a snappy framed copy of path to path+BackupSuffix. The
// framing format carries per-chunk checksums that Restore verifies.
func (l *LocalStorage) Backup(ctx context.Context, path string) (string, error) {
	ok, err := l.Exists(ctx, path)
	if err != nil || !ok {
		return "", err
	}
	raw, err := l.ReadFile(ctx, path)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	w := snappy.NewBufferedWriter(&buf)
	if _, err := w.Write(raw); err != nil {
		return "", gerrors.Wrap(gerrors.ErrCategoryExport, gerrors.CodeIOError, "compress backup", err).WithPath(path)
	}
	if err := w.Close(); err != nil {
		return "", gerrors.Wrap(gerrors.ErrCategoryExport, gerrors.CodeIOError, "compress backup", err).WithPath(path)
	}
	backupPath := path + BackupSuffix
	if err := l.WriteFile(ctx, backupPath, buf.Bytes()); err != nil {
		return "", err
	}
	return backupPath, nil
}

// Restore reads and decompresses a backup file.
func (l *LocalStorage) Restore(ctx context.Context, backupPath string) ([]byte, error) {
	compressed, err := l.ReadFile(ctx, backupPath)
	if err != nil {
		return nil, err
	}
	raw, err := io.ReadAll(snappy.NewReader(bytes.NewReader(compressed)))
	if err != nil {
		return nil, gerrors.Wrap(gerrors.ErrCategoryExport, gerrors.CodeParseError, "corrupt backup", err).WithPath(backupPath)
	}
	return raw, nil
}
