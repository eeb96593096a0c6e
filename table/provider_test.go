package table

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func mkTableDir(t *testing.T, root, name string, segments ...string) {
	t.Helper()
	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for _, seg := range segments {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, seg, "v3"), 0o755))
	}
}

func TestFileSystemMetadataProvider_ListTables(t *testing.T) {
	root := t.TempDir()
	mkTableDir(t, root, "orders_OFFLINE", "seg0")
	mkTableDir(t, root, "orders_REALTIME", "seg1")
	mkTableDir(t, root, "clicks_OFFLINE", "seg0")

	p := NewFileSystemMetadataProvider(root)
	tables, err := p.ListTables()
	require.NoError(t, err)
	require.Equal(t, []string{"clicks", "orders"}, tables)
}

func TestFileSystemMetadataProvider_TableExists(t *testing.T) {
	root := t.TempDir()
	mkTableDir(t, root, "orders_OFFLINE", "seg0")

	p := NewFileSystemMetadataProvider(root)
	exists, err := p.TableExists("orders")
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = p.TableExists("nope")
	require.NoError(t, err)
	require.False(t, exists)
}

func TestFileSystemMetadataProvider_GetSegmentPaths_PrefersOffline(t *testing.T) {
	root := t.TempDir()
	mkTableDir(t, root, "orders_OFFLINE", "seg0", "seg1")
	mkTableDir(t, root, "orders_REALTIME", "seg9")

	p := NewFileSystemMetadataProvider(root)
	paths, err := p.GetSegmentPaths("orders")
	require.NoError(t, err)
	require.Len(t, paths, 2)
	for _, path := range paths {
		require.Contains(t, path, "orders_OFFLINE")
		require.True(t, filepath.Base(path) == "v3")
	}
}

func TestFileSystemMetadataProvider_GetSegmentPaths_SkipsTmpAndMissingV3(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "orders_OFFLINE")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "seg0", "v3"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "tmp"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "seg1"), 0o755)) // no v3 subdir

	p := NewFileSystemMetadataProvider(root)
	paths, err := p.GetSegmentPaths("orders")
	require.NoError(t, err)
	require.Len(t, paths, 1)
	require.Contains(t, paths[0], "seg0")
}

func TestFileSystemMetadataProvider_GetSegmentPaths_NoneFound(t *testing.T) {
	root := t.TempDir()
	mkTableDir(t, root, "orders_OFFLINE")

	p := NewFileSystemMetadataProvider(root)
	_, err := p.GetSegmentPaths("orders")
	require.Error(t, err)
}
