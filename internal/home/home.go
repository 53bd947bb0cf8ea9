package home

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DefaultDirName is the default name for the marquee home directory.
	DefaultDirName = ".marquee"

	// ImagesDirName is the subdirectory for scraped poster images.
	ImagesDirName = "images"

	// TitlePagesDirName is the subdirectory for generated cover images.
	TitlePagesDirName = "titlepages"

	// ExportsDirName is the subdirectory for export bundles.
	ExportsDirName = "exports"

	// ConfigFileName is the default config file name.
	ConfigFileName = "config.yaml"
)

// Dir represents the marquee home directory structure.
type Dir struct {
	path string
}

// New creates a new Dir with the given path.
// If path is empty, uses the default (~/.marquee).
func New(path string) (*Dir, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(home, DefaultDirName)
	}

	return &Dir{path: path}, nil
}

// Path returns the root path of the home directory.
func (d *Dir) Path() string {
	return d.path
}

// ImagesPath returns the path to the poster images directory.
func (d *Dir) ImagesPath() string {
	return filepath.Join(d.path, ImagesDirName)
}

// TitlePagesPath returns the path to the generated cover images directory.
func (d *Dir) TitlePagesPath() string {
	return filepath.Join(d.path, TitlePagesDirName)
}

// ExportsPath returns the path to the export bundles directory.
func (d *Dir) ExportsPath() string {
	return filepath.Join(d.path, ExportsDirName)
}

// ConfigPath returns the path to the default config file.
func (d *Dir) ConfigPath() string {
	return filepath.Join(d.path, ConfigFileName)
}

// EnsureExists creates the home directory and subdirectories if they don't exist.
func (d *Dir) EnsureExists() error {
	for _, p := range []string{d.ImagesPath(), d.TitlePagesPath(), d.ExportsPath()} {
		if err := os.MkdirAll(p, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", p, err)
		}
	}
	return nil
}

// Exists returns true if the home directory exists.
func (d *Dir) Exists() bool {
	_, err := os.Stat(d.path)
	return err == nil
}

// ConfigExists returns true if the config file exists in the home directory.
func (d *Dir) ConfigExists() bool {
	_, err := os.Stat(d.ConfigPath())
	return err == nil
}
