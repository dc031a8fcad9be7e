package storage

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gerrors "github.com/gamelistedit/gamelistedit/internal/errors"
)

var _ FileStorage = (*LocalStorage)(nil)

func TestLocalStorage_WriteRead(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/out", 0o755))
	s := NewLocalStorage(fs)
	ctx := context.Background()

	require.NoError(t, s.WriteFile(ctx, "/out/gamelist.xml", []byte("first")))
	require.NoError(t, s.WriteFile(ctx, "/out/gamelist.xml", []byte("second")))

	data, err := s.ReadFile(ctx, "/out/gamelist.xml")
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	ok, err := s.Exists(ctx, "/out/gamelist.xml")
	require.NoError(t, err)
	assert.True(t, ok)

	entries, err := afero.ReadDir(fs, "/out")
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestLocalStorage_Exists(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/out/dir", 0o755))
	s := NewLocalStorage(fs)

	ok, err := s.Exists(context.Background(), "/out/missing")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.Exists(context.Background(), "/out/dir")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLocalStorage_WriteErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("directory", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, fs.MkdirAll("/out/dir", 0o755))
		err := NewLocalStorage(fs).WriteFile(ctx, "/out/dir", []byte("x"))
		assert.ErrorIs(t, err, gerrors.ErrIsDirectory)
		assert.Equal(t, gerrors.ErrCategoryExport, gerrors.GetCategory(err))
	})

	t.Run("read only", func(t *testing.T) {
		base := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(base, "/out/gamelist.xml", []byte("old"), 0o644))
		err := NewLocalStorage(afero.NewReadOnlyFs(base)).WriteFile(ctx, "/out/gamelist.xml", []byte("new"))
		assert.ErrorIs(t, err, gerrors.ErrPermissionDenied)

		data, _ := afero.ReadFile(base, "/out/gamelist.xml")
		assert.Equal(t, "old", string(data))
	})

	t.Run("missing parent on disk", func(t *testing.T) {
		path := t.TempDir() + "/nope/gamelist.xml"
		err := NewLocalStorage(afero.NewOsFs()).WriteFile(ctx, path, []byte("x"))
		assert.ErrorIs(t, err, gerrors.ErrNotFound)
	})

	t.Run("cancelled", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		err := NewLocalStorage(afero.NewMemMapFs()).WriteFile(cctx, "/a", nil)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestLocalStorage_KeepsMode(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/gamelist.xml"
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o600))

	s := NewLocalStorage(afero.NewOsFs())
	require.NoError(t, s.WriteFile(context.Background(), path, []byte("new")))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLocalStorage_BackupRestore(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := NewLocalStorage(fs)
	ctx := context.Background()

	backup, err := s.Backup(ctx, "/out/gamelist.xml")
	require.NoError(t, err)
	assert.Empty(t, backup)

	content := strings.Repeat("<game><name>Pac-Man</name></game>", 50)
	require.NoError(t, afero.WriteFile(fs, "/out/gamelist.xml", []byte(content), 0o644))

	backup, err = s.Backup(ctx, "/out/gamelist.xml")
	require.NoError(t, err)
	assert.Equal(t, "/out/gamelist.xml"+BackupSuffix, backup)

	compressed, err := afero.ReadFile(fs, backup)
	require.NoError(t, err)
	assert.Less(t, len(compressed), len(content))
	assert.True(t, strings.HasPrefix(string(compressed), "\xff\x06\x00\x00sNaPpY"), "framed stream header")

	restored, err := s.Restore(ctx, backup)
	require.NoError(t, err)
	assert.Equal(t, content, string(restored))

	require.NoError(t, afero.WriteFile(fs, "/out/bad"+BackupSuffix, []byte("not snappy"), 0o644))
	_, err = s.Restore(ctx, "/out/bad"+BackupSuffix)
	assert.ErrorIs(t, err, gerrors.ErrParse)

	damaged := append([]byte(nil), compressed...)
	damaged[len(damaged)-1] ^= 0xff
	require.NoError(t, afero.WriteFile(fs, "/out/damaged"+BackupSuffix, damaged, 0o644))
	_, err = s.Restore(ctx, "/out/damaged"+BackupSuffix)
	assert.ErrorIs(t, err, gerrors.ErrParse)
}
