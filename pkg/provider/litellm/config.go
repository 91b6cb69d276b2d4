package litellm

import (
	"time"

	"github.com/rhuss/litedemo/pkg/provider/openaicompat"
)

// Config holds configuration for the LiteLLM provider adapter. It is built
// once by the caller and never re-read from the environment.
type Config struct {
	// BaseURL is the proxy API root, e.g. "http://localhost:3000/v1".
	// The "/v1" suffix is added when missing.
	BaseURL string

	// APIKey is sent as a bearer token. Local mock servers accept any value.
	APIKey string

	// Timeout bounds non-streaming requests. Defaults to 120s.
	Timeout time.Duration

	// ModelMapping maps requested model names to proxy model identifiers,
	// e.g. {"gpt-4o": "openai/gpt-4o"}. Unmapped names pass through.
	ModelMapping map[string]string
}

// DefaultConfig returns a Config for baseURL with the default timeout.
func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL: baseURL,
		Timeout: openaicompat.DefaultTimeout,
	}
}
