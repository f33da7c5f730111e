// Package caching keeps fetched pages on disk so a rerun of an import does
// not hit the source site again.
package caching

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dtnitsch/intermediate-db/pkg/id"
)

// Cache provides a simple file-based cache with a TTL.
// A ttl <= 0 never expires entries.
type Cache struct {
	path string
	ttl  time.Duration
}

// NewCache creates a new Cache instance.
// The cache path will be created if it doesn't exist.
func NewCache(path string, ttl time.Duration) (*Cache, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &Cache{
		path: path,
		ttl:  ttl,
	}, nil
}

// file names the entry with the same stable key the staging tables use.
func (c *Cache) file(url string) string {
	return filepath.Join(c.path, id.Hash(url)+".html")
}

// Get returns the cached body of url if present and not expired.
func (c *Cache) Get(url string) ([]byte, bool) {
	filePath := c.file(url)

	info, err := os.Stat(filePath)
	if err != nil {
		return nil, false
	}
	if c.ttl > 0 && time.Since(info.ModTime()) > c.ttl {
		return nil, false
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, false
	}
	return data, true
}

// Set stores data for url. The entry is written to a temp file and renamed
// so concurrent readers never see a partial page.
func (c *Cache) Set(url string, data []byte) error {
	tmp, err := os.CreateTemp(c.path, "partial-*")
	if err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.file(url)); err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	return nil
}
