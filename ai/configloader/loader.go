// Package configloader loads the assistant's YAML rule tables.
// Files are read from an optional override directory first and fall back to
// an embedded filesystem shipped with the binary.
package configloader

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Loader reads YAML files from an override directory with an embedded fallback.
type Loader struct {
	fallback fs.FS
	baseDir  string
}

// NewLoader creates a loader. baseDir may be empty to use only the fallback.
func NewLoader(baseDir string, fallback fs.FS) *Loader {
	return &Loader{
		baseDir:  baseDir,
		fallback: fallback,
	}
}

// Load reads a single YAML file and unmarshals it into target.
func (l *Loader) Load(name string, target any) error {
	data, err := l.ReadFileWithFallback(name)
	if err != nil {
		return fmt.Errorf("read file %s: %w", name, err)
	}

	if err := yaml.Unmarshal(data, target); err != nil {
		return fmt.Errorf("unmarshal YAML %s: %w", name, err)
	}

	return nil
}

// ReadFileWithFallback reads name from baseDir, then from the fallback filesystem.
func (l *Loader) ReadFileWithFallback(name string) ([]byte, error) {
	if l.baseDir != "" {
		data, err := os.ReadFile(filepath.Join(l.baseDir, name))
		if err == nil {
			return data, nil
		}
		if !os.IsNotExist(err) {
			return nil, err
		}
	}

	if l.fallback == nil {
		return nil, fmt.Errorf("%s: %w", name, fs.ErrNotExist)
	}
	return fs.ReadFile(l.fallback, name)
}
