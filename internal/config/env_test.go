package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEnv(t *testing.T) {
	tmpDir := t.TempDir()
	envFile := filepath.Join(tmpDir, ".env")

	content := `
# Comment
KEY1=value1
KEY2="value 2"
KEY3='value 3'
KEY4=value 4 # inline comment
EMPTY=
`
	if err := os.WriteFile(envFile, []byte(content), 0644); err != nil {
		t.Fatalf("failed to create env file: %v", err)
	}

	env, err := LoadEnv(envFile)
	if err != nil {
		t.Fatalf("LoadEnv failed: %v", err)
	}

	tests := []struct {
		key      string
		expected string
	}{
		{"KEY1", "value1"},
		{"KEY2", "value 2"},
		{"KEY3", "value 3"},
		{"KEY4", "value 4"},
		{"EMPTY", ""},
	}

	for _, tt := range tests {
		if got, ok := env[tt.key]; !ok || got != tt.expected {
			t.Errorf("expected %s=%q, got %q (exists=%v)", tt.key, tt.expected, got, ok)
		}
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	cfg := Default()

	env := map[string]string{
		"SERVER_PORT":       "9090",
		"DATABASE_PATH":     "/tmp/voxarena.db",
		"DEFAULT_FORMAT":    "podcast",
		"AVATAR_AI_ENABLED": "true",
		"OPENAI_API_KEY":    "sk-test",
		"AVATAR_SIZE":       "512x512",
	}

	ApplyEnvOverrides(cfg, env)

	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Database.Path != "/tmp/voxarena.db" {
		t.Errorf("expected database path /tmp/voxarena.db, got %s", cfg.Database.Path)
	}
	if cfg.Defaults.Format != "podcast" {
		t.Errorf("expected format podcast, got %s", cfg.Defaults.Format)
	}
	if !cfg.Avatar.Enabled {
		t.Errorf("expected avatar generation enabled")
	}
	if cfg.Avatar.APIKey != "sk-test" {
		t.Errorf("expected api key sk-test, got %s", cfg.Avatar.APIKey)
	}
	if cfg.Avatar.Size != "512x512" {
		t.Errorf("expected avatar size 512x512, got %s", cfg.Avatar.Size)
	}
	if cfg.Defaults.Status != "DRAFT" {
		t.Errorf("unset override should keep default status, got %s", cfg.Defaults.Status)
	}
}

func TestApplyEnvOverridesInvalidValues(t *testing.T) {
	cfg := Default()

	env := map[string]string{
		"SERVER_PORT":       "not-a-number",
		"AVATAR_AI_ENABLED": "maybe",
	}

	ApplyEnvOverrides(cfg, env)

	if cfg.Server.Port != 8184 {
		t.Errorf("invalid port should keep default, got %d", cfg.Server.Port)
	}
	if cfg.Avatar.Enabled {
		t.Errorf("invalid bool should keep default")
	}
}
