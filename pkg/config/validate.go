package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/rhuss/litedemo/pkg/debug"
)

// Validate checks the configuration for required fields and valid values.
// Returns an error with a descriptive field path on failure.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Client.BaseURL) == "" {
		errs = append(errs, fmt.Errorf("client.base_url is required"))
	} else if u, err := url.Parse(c.Client.BaseURL); err != nil {
		errs = append(errs, fmt.Errorf("client.base_url: %w", err))
	} else if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("client.base_url must be an http(s) URL, got %q", c.Client.BaseURL))
	}

	if c.Client.Timeout < 0 {
		errs = append(errs, fmt.Errorf("client.timeout must be >= 0, got %v", c.Client.Timeout))
	}

	if c.Demo.Model == "" {
		errs = append(errs, fmt.Errorf("demo.model is required"))
	}
	if c.Demo.Prompt == "" {
		errs = append(errs, fmt.Errorf("demo.prompt is required"))
	}

	if !debug.ValidLevel(c.Log.Level) {
		errs = append(errs, fmt.Errorf("log.level must be one of ERROR, WARN, INFO, DEBUG, TRACE, got %q", c.Log.Level))
	}

	return errors.Join(errs...)
}
