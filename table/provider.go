package table

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/olapfs/segment"
)

// MetadataProvider is the discovery capability a synchronous schema lookup
// is driven through: table listing and per-table segment path resolution.
// An implementation may be backed by a local directory tree (see
// [FileSystemMetadataProvider]) or by an asynchronous control-plane lookup
// bridged in by the caller.
type MetadataProvider interface {
	// ListTables returns table names stripped of any `_OFFLINE`/`_REALTIME`
	// suffix, sorted and de-duplicated.
	ListTables() ([]string, error)

	// TableExists reports whether name (after suffix-stripping) appears in
	// ListTables.
	TableExists(name string) (bool, error)

	// GetSegmentPaths returns the ordered list of per-segment directory
	// paths for a table, each pointing at a `v3/` subdirectory. A directory
	// named `tmp` is skipped. Returns an error if no valid segment exists.
	GetSegmentPaths(table string) ([]string, error)
}

// FileSystemMetadataProvider discovers tables and segments by scanning a
// root directory of `<table>_OFFLINE` / `<table>_REALTIME` subdirectories,
// each containing one directory per segment.
type FileSystemMetadataProvider struct {
	root string
}

// NewFileSystemMetadataProvider returns a provider rooted at dir.
func NewFileSystemMetadataProvider(dir string) *FileSystemMetadataProvider {
	return &FileSystemMetadataProvider{root: dir}
}

func (p *FileSystemMetadataProvider) ListTables() ([]string, error) {
	entries, err := os.ReadDir(p.root)
	if err != nil {
		return nil, &segment.Error{Kind: segment.KindIO, Message: "read table root " + p.root, Cause: err}
	}

	seen := make(map[string]bool)
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		name := stripTableSuffix(e.Name())
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	sort.Strings(names)
	return names, nil
}

func (p *FileSystemMetadataProvider) TableExists(name string) (bool, error) {
	tables, err := p.ListTables()
	if err != nil {
		return false, err
	}
	for _, t := range tables {
		if t == name {
			return true, nil
		}
	}
	return false, nil
}

func (p *FileSystemMetadataProvider) GetSegmentPaths(table string) ([]string, error) {
	tableDir, err := p.resolveTableDir(table)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(tableDir)
	if err != nil {
		return nil, &segment.Error{Kind: segment.KindIO, Message: "read table dir " + tableDir, Cause: err}
	}

	var paths []string
	for _, e := range entries {
		if !e.IsDir() || e.Name() == "tmp" {
			continue
		}

		segDir := filepath.Join(tableDir, e.Name())
		v3Dir := filepath.Join(segDir, "v3")
		if info, err := os.Stat(v3Dir); err == nil && info.IsDir() {
			paths = append(paths, v3Dir)
		}
	}

	if len(paths) == 0 {
		return nil, &segment.Error{Kind: segment.KindInvalidFormat, Message: "no segments found for table " + table}
	}

	sort.Strings(paths)
	return paths, nil
}

// resolveTableDir prefers an `_OFFLINE` directory over `_REALTIME` for the
// given table name.
func (p *FileSystemMetadataProvider) resolveTableDir(table string) (string, error) {
	offline := filepath.Join(p.root, table+"_OFFLINE")
	if info, err := os.Stat(offline); err == nil && info.IsDir() {
		return offline, nil
	}

	realtime := filepath.Join(p.root, table+"_REALTIME")
	if info, err := os.Stat(realtime); err == nil && info.IsDir() {
		return realtime, nil
	}

	plain := filepath.Join(p.root, table)
	if info, err := os.Stat(plain); err == nil && info.IsDir() {
		return plain, nil
	}

	return "", &segment.Error{Kind: segment.KindInvalidFormat, Message: "no directory found for table " + table}
}

func stripTableSuffix(name string) string {
	if s, ok := strings.CutSuffix(name, "_OFFLINE"); ok {
		return s
	}
	if s, ok := strings.CutSuffix(name, "_REALTIME"); ok {
		return s
	}
	return name
}
