package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

var envKeys = []string{
	"LITEDEMO_CONFIG", "LITEDEMO_BASE_URL", "LITEDEMO_API_KEY", "LITEDEMO_MODEL",
	"LITEDEMO_PROMPT", "LITEDEMO_TIMEOUT", "LITEDEMO_LOG_LEVEL", "LITEDEMO_DEBUG",
	"OPENAI_API_BASE", "OPENAI_BASE_URL", "OPENAI_API_KEY",
}

// isolate runs the test in an empty directory with no config-related
// environment variables set.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	for _, k := range envKeys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	return dir
}

func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	want := Config{
		Client: ClientConfig{
			BaseURL: "http://localhost:3000/v1",
			APIKey:  "test",
			Timeout: 120 * time.Second,
		},
		Demo: DemoConfig{
			Model:  "gpt-4o",
			Prompt: "Create a fibonacci function in Python",
		},
		Log: LogConfig{Level: "INFO"},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_NoSources(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(Defaults(), *cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFromYAML(t *testing.T) {
	dir := isolate(t)
	path := writeTemp(t, dir, "custom.yaml", `
client:
  base_url: http://proxy:4000
  api_key: sk-yaml
  timeout: 30s
  model_mapping:
    gpt-4o: openai/gpt-4o
demo:
  model: gpt-4o-mini
  prompt: Say hi
  raw_chunks: true
log:
  level: debug
  debug: provider,streaming
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := Config{
		Client: ClientConfig{
			BaseURL:      "http://proxy:4000",
			APIKey:       "sk-yaml",
			Timeout:      30 * time.Second,
			ModelMapping: map[string]string{"gpt-4o": "openai/gpt-4o"},
		},
		Demo: DemoConfig{Model: "gpt-4o-mini", Prompt: "Say hi", RawChunks: true},
		Log:  LogConfig{Level: "debug", Debug: "provider,streaming"},
	}
	if diff := cmp.Diff(want, *cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestYAMLDefaultsMerge(t *testing.T) {
	dir := isolate(t)
	path := writeTemp(t, dir, "partial.yaml", "demo:\n  model: local-model\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Demo.Model != "local-model" {
		t.Errorf("model = %q, want local-model", cfg.Demo.Model)
	}
	if cfg.Client.BaseURL != DefaultBaseURL || cfg.Demo.Prompt != DefaultPrompt {
		t.Errorf("unset fields should keep defaults, got %+v", cfg)
	}
}

func TestFileDiscovery(t *testing.T) {
	t.Run("env var", func(t *testing.T) {
		dir := isolate(t)
		path := writeTemp(t, dir, "elsewhere.yaml", "demo:\n  model: from-env-path\n")
		t.Setenv("LITEDEMO_CONFIG", path)

		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.Demo.Model != "from-env-path" {
			t.Errorf("model = %q", cfg.Demo.Model)
		}
	})

	t.Run("working directory", func(t *testing.T) {
		dir := isolate(t)
		writeTemp(t, dir, "litedemo.yaml", "demo:\n  model: from-cwd\n")

		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.Demo.Model != "from-cwd" {
			t.Errorf("model = %q", cfg.Demo.Model)
		}
	})

	t.Run("explicit path missing", func(t *testing.T) {
		isolate(t)
		if _, err := Load("does-not-exist.yaml"); err == nil {
			t.Error("expected error for missing explicit config file")
		}
	})
}

func TestEnvOverride(t *testing.T) {
	isolate(t)
	t.Setenv("LITEDEMO_BASE_URL", "http://env:3000")
	t.Setenv("LITEDEMO_API_KEY", "sk-env")
	t.Setenv("LITEDEMO_MODEL", "env-model")
	t.Setenv("LITEDEMO_PROMPT", "env prompt")
	t.Setenv("LITEDEMO_TIMEOUT", "5s")
	t.Setenv("LITEDEMO_LOG_LEVEL", "WARN")
	t.Setenv("LITEDEMO_DEBUG", "all")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Config{
		Client: ClientConfig{BaseURL: "http://env:3000", APIKey: "sk-env", Timeout: 5 * time.Second},
		Demo:   DemoConfig{Model: "env-model", Prompt: "env prompt"},
		Log:    LogConfig{Level: "WARN", Debug: "all"},
	}
	if diff := cmp.Diff(want, *cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestEnvOverride_InvalidTimeout(t *testing.T) {
	isolate(t)
	t.Setenv("LITEDEMO_TIMEOUT", "soon")

	_, err := Load("")
	if err == nil || !strings.Contains(err.Error(), "LITEDEMO_TIMEOUT") {
		t.Errorf("expected LITEDEMO_TIMEOUT error, got %v", err)
	}
}

func TestCompatEnvVars(t *testing.T) {
	isolate(t)
	t.Setenv("OPENAI_API_BASE", "http://compat:3000/v1")
	t.Setenv("OPENAI_API_KEY", "sk-compat")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Client.BaseURL != "http://compat:3000/v1" || cfg.Client.APIKey != "sk-compat" {
		t.Errorf("compat vars not applied: %+v", cfg.Client)
	}

	t.Setenv("LITEDEMO_BASE_URL", "http://preferred:3000")
	cfg, err = Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Client.BaseURL != "http://preferred:3000" {
		t.Errorf("LITEDEMO_BASE_URL should win, got %q", cfg.Client.BaseURL)
	}
}

func TestDotEnv(t *testing.T) {
	dir := isolate(t)
	writeTemp(t, dir, ".env", "LITEDEMO_MODEL=dotenv-model\nOPENAI_API_KEY=sk-dotenv\n")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Demo.Model != "dotenv-model" || cfg.Client.APIKey != "sk-dotenv" {
		t.Errorf(".env values not applied: %+v", cfg)
	}
	if _, ok := os.LookupEnv("LITEDEMO_MODEL"); ok {
		t.Error(".env values must not leak into the process environment")
	}

	t.Setenv("LITEDEMO_MODEL", "process-model")
	cfg, err = Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Demo.Model != "process-model" {
		t.Errorf("process environment should win over .env, got %q", cfg.Demo.Model)
	}
}

func TestFileReferenceForAPIKey(t *testing.T) {
	dir := isolate(t)
	keyFile := writeTemp(t, dir, "key.txt", "  sk-from-file\n")
	path := writeTemp(t, dir, "cfg.yaml", "client:\n  api_key_file: "+keyFile+"\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Client.APIKey != "sk-from-file" {
		t.Errorf("api key = %q, want sk-from-file", cfg.Client.APIKey)
	}
}

func TestFileReferenceDoesNotOverrideExplicitValue(t *testing.T) {
	dir := isolate(t)
	keyFile := writeTemp(t, dir, "key.txt", "sk-from-file")
	path := writeTemp(t, dir, "cfg.yaml", "client:\n  api_key: sk-explicit\n  api_key_file: "+keyFile+"\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Client.APIKey != "sk-explicit" {
		t.Errorf("api key = %q, want sk-explicit", cfg.Client.APIKey)
	}
}

func TestFileReferenceMissing(t *testing.T) {
	dir := isolate(t)
	path := writeTemp(t, dir, "cfg.yaml", "client:\n  api_key_file: /nonexistent/key\n")

	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "client.api_key_file") {
		t.Errorf("expected client.api_key_file error, got %v", err)
	}
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing base url", func(c *Config) { c.Client.BaseURL = "" }, "client.base_url is required"},
		{"bad scheme", func(c *Config) { c.Client.BaseURL = "ftp://host" }, "http(s) URL"},
		{"no host", func(c *Config) { c.Client.BaseURL = "http://" }, "http(s) URL"},
		{"negative timeout", func(c *Config) { c.Client.Timeout = -time.Second }, "client.timeout"},
		{"missing model", func(c *Config) { c.Demo.Model = "" }, "demo.model is required"},
		{"missing prompt", func(c *Config) { c.Demo.Prompt = "" }, "demo.prompt is required"},
		{"bad level", func(c *Config) { c.Log.Level = "LOUD" }, "log.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidation_JoinsErrors(t *testing.T) {
	cfg := Defaults()
	cfg.Demo.Model = ""
	cfg.Demo.Prompt = ""

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"demo.model", "demo.prompt"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q should mention %s", err, want)
		}
	}
}

func TestApply(t *testing.T) {
	cfg := Defaults()
	base := "http://flag:3000"
	model := "flag-model"
	raw := true

	if err := cfg.Apply(Overrides{BaseURL: &base, Model: &model, RawChunks: &raw}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if cfg.Client.BaseURL != base || cfg.Demo.Model != model || !cfg.Demo.RawChunks {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.Demo.Prompt != DefaultPrompt {
		t.Errorf("nil override should keep prompt, got %q", cfg.Demo.Prompt)
	}

	empty := ""
	if err := cfg.Apply(Overrides{Prompt: &empty}); err == nil {
		t.Error("expected validation error for empty prompt")
	}
}
