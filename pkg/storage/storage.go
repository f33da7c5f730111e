// Package storage finds and reads pages saved to disk.
package storage

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

type Storage struct{}

// DiscoverHTML returns every *.html and *.htm file below dirs, sorted.
func (s *Storage) DiscoverHTML(dirs []string) ([]string, error) {
	var files []string
	for _, dir := range dirs {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			switch strings.ToLower(filepath.Ext(path)) {
			case ".html", ".htm":
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("error scanning %s: %w", dir, err)
		}
	}
	sort.Strings(files)
	return files, nil
}

func (s *Storage) ReadFile(filePath string) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	return data, nil
}

// RelativeTo returns filePath relative to whichever of dirs contains it,
// with forward slashes, or "" when none does.
func (s *Storage) RelativeTo(dirs []string, filePath string) string {
	for _, dir := range dirs {
		rel, err := filepath.Rel(dir, filePath)
		if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
			continue
		}
		return filepath.ToSlash(rel)
	}
	return ""
}
