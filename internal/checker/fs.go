package checker

import (
	"os"
	"path/filepath"
	"slices"
)

// listDirs returns the names of subdirectories at the joined path, sorted so
// walk order is deterministic.
func listDirs(parts ...string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(parts...))
	if err != nil {
		return nil, err
	}
	var dirs []string
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, e.Name())
		}
	}
	slices.Sort(dirs)
	return dirs, nil
}

// listFiles returns the names of plain files at the joined path, sorted.
func listFiles(parts ...string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(parts...))
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() {
			files = append(files, e.Name())
		}
	}
	slices.Sort(files)
	return files, nil
}

func exists(parts ...string) bool {
	_, err := os.Stat(filepath.Join(parts...))
	return err == nil
}
