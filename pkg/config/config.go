// Package config provides layered configuration for litedemo.
//
// Configuration is loaded in this order, later sources winning:
//  1. Built-in defaults
//  2. YAML config file (discovered or explicitly specified)
//  3. Values from a .env file
//  4. Environment variables (LITEDEMO_ prefix, then OPENAI_ compatibility names)
//  5. File reference resolution (_file suffix fields)
//  6. Validation
//
// Command-line flags are applied on top with Apply. The loaded Config is
// passed explicitly to the components that need it; nothing here writes to
// the process environment.
package config

import "time"

// Config holds all configuration for litedemo.
type Config struct {
	Client ClientConfig `yaml:"client"`
	Demo   DemoConfig   `yaml:"demo"`
	Log    LogConfig    `yaml:"log"`
}

// ClientConfig holds the completion endpoint settings.
type ClientConfig struct {
	BaseURL      string            `yaml:"base_url"`      // default: http://localhost:3000/v1
	APIKey       string            `yaml:"api_key"`       // default: "test"
	APIKeyFile   string            `yaml:"api_key_file"`  // _file variant for api_key
	Timeout      time.Duration     `yaml:"timeout"`       // default: 120s, 0 keeps the default
	ModelMapping map[string]string `yaml:"model_mapping"` // optional
}

// DemoConfig holds what the demo asks for.
type DemoConfig struct {
	Model     string `yaml:"model"`      // default: gpt-4o
	Prompt    string `yaml:"prompt"`     // default: the fibonacci prompt
	RawChunks bool   `yaml:"raw_chunks"` // print chunk dumps instead of text
}

// LogConfig holds diagnostic output settings.
type LogConfig struct {
	Level string `yaml:"level"` // ERROR, WARN, INFO, DEBUG, TRACE; default: INFO
	Debug string `yaml:"debug"` // comma-separated debug categories
}

// Default values.
const (
	DefaultBaseURL = "http://localhost:3000/v1"
	DefaultAPIKey  = "test"
	DefaultModel   = "gpt-4o"
	DefaultPrompt  = "Create a fibonacci function in Python"
	DefaultTimeout = 120 * time.Second
)

// Defaults returns a Config with all default values filled in.
func Defaults() Config {
	return Config{
		Client: ClientConfig{
			BaseURL: DefaultBaseURL,
			APIKey:  DefaultAPIKey,
			Timeout: DefaultTimeout,
		},
		Demo: DemoConfig{
			Model:  DefaultModel,
			Prompt: DefaultPrompt,
		},
		Log: LogConfig{
			Level: "INFO",
		},
	}
}

// Overrides carries command-line values. Nil fields leave the loaded value
// untouched.
type Overrides struct {
	BaseURL   *string
	APIKey    *string
	Model     *string
	Prompt    *string
	RawChunks *bool
	LogLevel  *string
	Debug     *string
}

// Apply sets every non-nil override and validates the result.
func (c *Config) Apply(o Overrides) error {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&c.Client.BaseURL, o.BaseURL)
	set(&c.Client.APIKey, o.APIKey)
	set(&c.Demo.Model, o.Model)
	set(&c.Demo.Prompt, o.Prompt)
	set(&c.Log.Level, o.LogLevel)
	set(&c.Log.Debug, o.Debug)
	if o.RawChunks != nil {
		c.Demo.RawChunks = *o.RawChunks
	}
	return c.Validate()
}
