package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Providers.OpenAI.APIKey != "${OPENAI_API_KEY}" {
		t.Error("expected openai API key placeholder")
	}
	if !cfg.Providers.OpenAI.Enabled {
		t.Error("expected openai provider enabled by default")
	}
	if cfg.Server.Port != 8000 {
		t.Errorf("expected default port 8000, got %d", cfg.Server.Port)
	}
	if cfg.Note.Title == "" || cfg.Note.Hashtags == "" {
		t.Error("expected editorial note defaults")
	}
	if cfg.TitleImage.Caption == "" {
		t.Error("expected default title image caption")
	}
}

func TestResolveEnvVars(t *testing.T) {
	t.Run("resolves environment variable", func(t *testing.T) {
		os.Setenv("TEST_API_KEY", "secret123")
		defer os.Unsetenv("TEST_API_KEY")

		result := ResolveEnvVars("${TEST_API_KEY}")
		if result != "secret123" {
			t.Errorf("expected secret123, got %s", result)
		}
	})

	t.Run("returns empty for missing env var", func(t *testing.T) {
		result := ResolveEnvVars("${DEFINITELY_NOT_SET_12345}")
		if result != "" {
			t.Errorf("expected empty string, got %s", result)
		}
	})

	t.Run("leaves literal values unchanged", func(t *testing.T) {
		result := ResolveEnvVars("literal-value")
		if result != "literal-value" {
			t.Errorf("expected literal-value, got %s", result)
		}
	})
}

func TestConfig_ToOpenAIConfig(t *testing.T) {
	os.Setenv("TEST_OPENAI_KEY", "sk-test-123")
	defer os.Unsetenv("TEST_OPENAI_KEY")

	cfg := &Config{
		Providers: ProvidersCfg{
			OpenAI: OpenAICfg{
				APIKey:         "${TEST_OPENAI_KEY}",
				TextModel:      "gpt-4o-mini",
				MaxRetries:     5,
				TimeoutSeconds: 30,
			},
		},
	}

	oa := cfg.ToOpenAIConfig()
	if oa.APIKey != "sk-test-123" {
		t.Errorf("expected resolved key, got %s", oa.APIKey)
	}
	if oa.TextModel != "gpt-4o-mini" {
		t.Errorf("expected text model passthrough, got %s", oa.TextModel)
	}
	if oa.Timeout != 30*time.Second {
		t.Errorf("expected 30s timeout, got %s", oa.Timeout)
	}
}

func TestNewManager(t *testing.T) {
	t.Run("loads from config file", func(t *testing.T) {
		tmpDir := t.TempDir()
		configFile := filepath.Join(tmpDir, "config.yaml")

		configContent := `
server:
  port: 9001
`
		if err := os.WriteFile(configFile, []byte(configContent), 0644); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}

		mgr, err := NewManager(configFile)
		if err != nil {
			t.Fatalf("failed to create manager: %v", err)
		}

		cfg := mgr.Get()
		if cfg.Server.Port != 9001 {
			t.Errorf("expected port 9001, got %d", cfg.Server.Port)
		}
		if cfg.Note.Title == "" {
			t.Error("defaults should fill fields the file omits")
		}
	})
}

func TestManager_OnChange_Multiple(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")

	if err := os.WriteFile(configFile, []byte("server:\n  port: 8000\n"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	mgr, err := NewManager(configFile)
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	mgr.OnChange(func(cfg *Config) {})
	mgr.OnChange(func(cfg *Config) {})
	mgr.OnChange(func(cfg *Config) {})

	mgr.mu.RLock()
	if len(mgr.callbacks) != 3 {
		t.Errorf("expected 3 callbacks, got %d", len(mgr.callbacks))
	}
	mgr.mu.RUnlock()
}

func TestManager_Get_ThreadSafe(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")

	if err := os.WriteFile(configFile, []byte("server:\n  port: 8000\n"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	mgr, err := NewManager(configFile)
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				cfg := mgr.Get()
				_ = cfg.Server.Port
			}
			done <- struct{}{}
		}()
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}

func TestManager_WatchConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")

	if err := os.WriteFile(configFile, []byte("note:\n  title: \"initial\"\n"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	mgr, err := NewManager(configFile)
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	if got := mgr.Get().Note.Title; got != "initial" {
		t.Errorf("initial value mismatch: expected initial, got %s", got)
	}

	var callbackCount atomic.Int32
	var lastValue atomic.Value

	mgr.OnChange(func(cfg *Config) {
		callbackCount.Add(1)
		lastValue.Store(cfg.Note.Title)
	})

	mgr.WatchConfig()

	// Give fsnotify time to set up the watcher
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(configFile, []byte("note:\n  title: \"updated\"\n"), 0644); err != nil {
		t.Fatalf("failed to write updated config file: %v", err)
	}

	// Wait for the watcher to detect the change (fsnotify is async)
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if callbackCount.Load() > 0 {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}

	if callbackCount.Load() == 0 {
		t.Error("callback was not invoked after config file change")
	}

	if got := mgr.Get().Note.Title; got != "updated" {
		t.Errorf("config not updated: expected updated, got %s", got)
	}

	if v := lastValue.Load(); v != "updated" {
		t.Errorf("callback received wrong value: expected updated, got %v", v)
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "OPENAI_API_KEY") {
		t.Error("default config should reference the OpenAI env var")
	}
	if !strings.Contains(content, "# Marquee configuration") {
		t.Error("default config should carry the header comment")
	}
}
