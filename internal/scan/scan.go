// Package scan discovers candidate video files beneath a directory.
package scan

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// Discover walks root, collects files whose extension is in exts
// (lowercase, with leading dot), and returns the paths sorted
// lexicographically for deterministic submission order. Hidden
// directories (dot-prefixed) are pruned; a trash directory from an
// earlier run would otherwise be rescanned.
func Discover(root string, exts []string) ([]string, error) {
	wanted := make(map[string]bool, len(exts))
	for _, ext := range exts {
		wanted[strings.ToLower(ext)] = true
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if wanted[ext] {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
