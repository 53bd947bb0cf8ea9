package home

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNew(t *testing.T) {
	t.Run("with explicit path", func(t *testing.T) {
		dir, err := New("/tmp/test-marquee")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if dir.Path() != "/tmp/test-marquee" {
			t.Errorf("expected path /tmp/test-marquee, got %s", dir.Path())
		}
	})

	t.Run("with empty path uses default", func(t *testing.T) {
		dir, err := New("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		home, _ := os.UserHomeDir()
		expected := filepath.Join(home, DefaultDirName)
		if dir.Path() != expected {
			t.Errorf("expected path %s, got %s", expected, dir.Path())
		}
	})
}

func TestDir_Paths(t *testing.T) {
	dir, _ := New("/tmp/test-marquee")

	t.Run("ImagesPath", func(t *testing.T) {
		expected := "/tmp/test-marquee/images"
		if dir.ImagesPath() != expected {
			t.Errorf("expected %s, got %s", expected, dir.ImagesPath())
		}
	})

	t.Run("TitlePagesPath", func(t *testing.T) {
		expected := "/tmp/test-marquee/titlepages"
		if dir.TitlePagesPath() != expected {
			t.Errorf("expected %s, got %s", expected, dir.TitlePagesPath())
		}
	})

	t.Run("ExportsPath", func(t *testing.T) {
		expected := "/tmp/test-marquee/exports"
		if dir.ExportsPath() != expected {
			t.Errorf("expected %s, got %s", expected, dir.ExportsPath())
		}
	})

	t.Run("ConfigPath", func(t *testing.T) {
		expected := "/tmp/test-marquee/config.yaml"
		if dir.ConfigPath() != expected {
			t.Errorf("expected %s, got %s", expected, dir.ConfigPath())
		}
	})
}

func TestDir_EnsureExists(t *testing.T) {
	tmpDir := t.TempDir()
	marqueeDir := filepath.Join(tmpDir, "marquee-test")

	dir, err := New(marqueeDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if dir.Exists() {
		t.Error("directory should not exist before EnsureExists")
	}

	if err := dir.EnsureExists(); err != nil {
		t.Fatalf("EnsureExists failed: %v", err)
	}

	if !dir.Exists() {
		t.Error("directory should exist after EnsureExists")
	}

	for _, p := range []string{dir.ImagesPath(), dir.TitlePagesPath(), dir.ExportsPath()} {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			t.Errorf("%s should exist after EnsureExists", p)
		}
	}
}

func TestDir_ConfigExists(t *testing.T) {
	tmpDir := t.TempDir()
	dir, _ := New(tmpDir)

	if dir.ConfigExists() {
		t.Error("config should not exist initially")
	}

	configPath := dir.ConfigPath()
	if err := os.WriteFile(configPath, []byte("test: true\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if !dir.ConfigExists() {
		t.Error("config should exist after creation")
	}
}
