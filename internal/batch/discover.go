package batch

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Discover walks root recursively and returns every directory containing a
// DAISY navigation document (ncc.html or ncc.htm, any casing), sorted for
// deterministic batch order. Subdirectories of a book directory are not
// descended into; a mastered DAISY book never nests another one.
func Discover(root string) ([]string, error) {
	var dirs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		ok, err := hasNavigationDoc(path)
		if err != nil {
			return err
		}
		if ok {
			dirs = append(dirs, path)
			return filepath.SkipDir
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(dirs)
	return dirs, nil
}

func hasNavigationDoc(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(entry.Name()) {
		case "ncc.html", "ncc.htm":
			return true, nil
		}
	}
	return false, nil
}
