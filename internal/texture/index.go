package texture

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
)

// Index maps asset references to filesystem paths under one directory.
// Lookups ignore case and directory prefixes. Texture references also
// resolve by stem, so "Upper.jpg" finds "upper.ozj".
type Index struct {
	root  string
	files map[string]string // lower(base name) → path
	stems map[string]string // lower(texture stem) → path
}

// BuildIndex walks dir recursively.
func BuildIndex(dir string) (*Index, error) {
	idx := &Index{
		root:  dir,
		files: make(map[string]string),
		stems: make(map[string]string),
	}
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			idx.add(path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("texture: index %s: %w", dir, err)
	}
	return idx, nil
}

func (idx *Index) add(path string) {
	base := strings.ToLower(filepath.Base(path))
	if _, dup := idx.files[base]; !dup {
		idx.files[base] = path
	}

	ext := filepath.Ext(base)
	rank := slices.Index(Extensions, ext)
	if rank < 0 {
		return
	}
	stem := strings.TrimSuffix(base, ext)
	existing, exists := idx.stems[stem]
	if !exists || rank < slices.Index(Extensions, strings.ToLower(filepath.Ext(existing))) {
		idx.stems[stem] = path
	}
}

// ResolvePath returns the filesystem path for ref, or ("", false).
func (idx *Index) ResolvePath(ref string) (string, bool) {
	ref = strings.ReplaceAll(ref, "\\", "/")
	base := strings.ToLower(filepath.Base(ref))

	if path, ok := idx.files[base]; ok {
		return path, true
	}
	ext := filepath.Ext(base)
	if !slices.Contains(Extensions, ext) {
		return "", false
	}
	path, ok := idx.stems[strings.TrimSuffix(base, ext)]
	return path, ok
}

// Root returns the indexed directory.
func (idx *Index) Root() string { return idx.root }

// Len returns the number of indexed files.
func (idx *Index) Len() int {
	return len(idx.files)
}
