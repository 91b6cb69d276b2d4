package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/rhuss/litedemo/pkg/debug"
)

// DefaultEnvFile is the .env file read from the working directory.
const DefaultEnvFile = ".env"

// Load loads configuration from defaults, the discovered YAML file,
// ./.env and the process environment.
func Load(configPath string) (*Config, error) {
	return LoadFrom(configPath, DefaultEnvFile)
}

// LoadFrom is Load with an explicit .env path. A missing .env file is not an
// error; an empty envFile skips it.
func LoadFrom(configPath, envFile string) (*Config, error) {
	cfg := Defaults()

	filePath := discoverConfigFile(configPath)
	if filePath != "" {
		if err := loadYAMLFile(filePath, &cfg); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", filePath, err)
		}
		debug.Log("config", "loaded config file", "path", filePath)
	}

	dotenv, err := readDotEnv(envFile)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", envFile, err)
	}

	env := func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return dotenv[key]
	}
	if err := applyEnvOverrides(&cfg, env); err != nil {
		return nil, err
	}

	if err := resolveFileReferences(&cfg); err != nil {
		return nil, fmt.Errorf("resolving file references: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	debug.Log("config", "configuration resolved",
		"base_url", cfg.Client.BaseURL,
		"model", cfg.Demo.Model,
		"timeout", cfg.Client.Timeout,
	)
	return &cfg, nil
}

// discoverConfigFile finds the config file path using the discovery order:
// 1. Explicit configPath argument
// 2. LITEDEMO_CONFIG environment variable
// 3. ./litedemo.yaml in the current directory
// 4. litedemo/config.yaml under the user config directory
//
// Returns empty string if no config file is found.
func discoverConfigFile(configPath string) string {
	if configPath != "" {
		return configPath
	}
	if envPath := os.Getenv("LITEDEMO_CONFIG"); envPath != "" {
		return envPath
	}

	candidates := []string{"litedemo.yaml"}
	if dir, err := os.UserConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, "litedemo", "config.yaml"))
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// loadYAMLFile reads and parses a YAML file into the Config struct.
// Fields not present in the YAML retain their current (default) values.
func loadYAMLFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// readDotEnv parses envFile without touching the process environment.
func readDotEnv(envFile string) (map[string]string, error) {
	if envFile == "" {
		return nil, nil
	}
	values, err := godotenv.Read(envFile)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	debug.Log("config", "loaded env file", "path", envFile, "keys", len(values))
	return values, nil
}

// applyEnvOverrides maps environment variables to config fields. The
// LITEDEMO_ names take priority over the OPENAI_ compatibility names.
func applyEnvOverrides(cfg *Config, env func(string) string) error {
	if v := firstOf(env, "LITEDEMO_BASE_URL", "OPENAI_API_BASE", "OPENAI_BASE_URL"); v != "" {
		cfg.Client.BaseURL = v
	}
	if v := firstOf(env, "LITEDEMO_API_KEY", "OPENAI_API_KEY"); v != "" {
		cfg.Client.APIKey = v
	}
	if v := env("LITEDEMO_MODEL"); v != "" {
		cfg.Demo.Model = v
	}
	if v := env("LITEDEMO_PROMPT"); v != "" {
		cfg.Demo.Prompt = v
	}
	if v := env("LITEDEMO_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("LITEDEMO_TIMEOUT: %w", err)
		}
		cfg.Client.Timeout = d
	}
	if v := env("LITEDEMO_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := env("LITEDEMO_DEBUG"); v != "" {
		cfg.Log.Debug = v
	}
	return nil
}

func firstOf(env func(string) string, keys ...string) string {
	for _, k := range keys {
		if v := env(k); v != "" {
			return v
		}
	}
	return ""
}

// resolveFileReferences reads _file fields into their value fields when the
// value is still at its default or empty.
func resolveFileReferences(cfg *Config) error {
	if cfg.Client.APIKeyFile != "" && (cfg.Client.APIKey == "" || cfg.Client.APIKey == DefaultAPIKey) {
		val, err := readSecretFile(cfg.Client.APIKeyFile)
		if err != nil {
			return fmt.Errorf("client.api_key_file: %w", err)
		}
		cfg.Client.APIKey = val
	}
	return nil
}

// readSecretFile reads a file and returns its content with surrounding whitespace trimmed.
func readSecretFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
