// Package storage defines the spec-tree file-system abstraction used for
// both the input document tree and the generated output tree.
package storage

import "time"

// FileInfo is the metadata recorded for a discovered file.
type FileInfo struct {
	Path      string // relative to the tree root
	Checksum  string
	UpdatedAt time.Time
}

// Provider is the interface for tree file operations. All paths are
// relative to the tree root.
type Provider interface {
	// List returns metadata for every file matching the glob pattern.
	List(pattern string) ([]FileInfo, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically writes content to path, creating parent directories.
	Write(path string, content []byte) error
	// WriteIfAbsent writes content only when no file exists at path yet.
	// It reports whether a write happened.
	WriteIfAbsent(path string, content []byte) (bool, error)
	// Delete removes the file at path.
	Delete(path string) error
}
