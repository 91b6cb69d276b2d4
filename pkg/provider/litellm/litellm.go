package litellm

import (
	"context"
	"fmt"
	"strings"

	"github.com/rhuss/litedemo/pkg/provider"
	"github.com/rhuss/litedemo/pkg/provider/openaicompat"
)

// LiteLLMProvider implements provider.Provider for LiteLLM proxy servers
// and anything else speaking the same Chat Completions dialect.
type LiteLLMProvider struct {
	cfg    Config
	client *openaicompat.Client
	caps   provider.ProviderCapabilities
}

var _ provider.Provider = (*LiteLLMProvider)(nil)

// New creates a LiteLLMProvider. It returns an error if BaseURL is empty.
func New(cfg Config) (*LiteLLMProvider, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("litellm: BaseURL is required")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = openaicompat.DefaultTimeout
	}

	client := openaicompat.NewClient(cfg.BaseURL, cfg.APIKey, cfg.Timeout)
	client.ProviderName = "litellm"

	if len(cfg.ModelMapping) > 0 {
		mapping := cfg.ModelMapping
		client.ModelMapper = func(model string) string {
			if mapped, ok := mapping[model]; ok {
				return mapped
			}
			return model
		}
	}

	return &LiteLLMProvider{
		cfg:    cfg,
		client: client,
		caps: provider.ProviderCapabilities{
			Streaming:    true,
			ModelListing: true,
		},
	}, nil
}

// Name returns the provider identifier.
func (p *LiteLLMProvider) Name() string {
	return "litellm"
}

// Capabilities returns what this provider supports.
func (p *LiteLLMProvider) Capabilities() provider.ProviderCapabilities {
	return p.caps
}

// BaseURL returns the normalized API root requests are sent to.
func (p *LiteLLMProvider) BaseURL() string {
	return p.client.BaseURL()
}

// Complete performs a non-streaming chat completion.
func (p *LiteLLMProvider) Complete(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	if apiErr := provider.ValidateCapabilities(p.caps, req); apiErr != nil {
		return nil, apiErr
	}
	return p.client.Complete(ctx, req)
}

// Stream performs a streaming chat completion. The returned stream must be
// drained or closed by the caller.
func (p *LiteLLMProvider) Stream(ctx context.Context, req *provider.Request) (*provider.ChunkStream, error) {
	streamReq := *req
	streamReq.Stream = true
	if apiErr := provider.ValidateCapabilities(p.caps, &streamReq); apiErr != nil {
		return nil, apiErr
	}
	return p.client.Stream(ctx, &streamReq)
}

// ListModels returns the models served by the proxy.
func (p *LiteLLMProvider) ListModels(ctx context.Context) ([]provider.ModelInfo, error) {
	return p.client.ListModels(ctx)
}

// Close releases provider resources.
func (p *LiteLLMProvider) Close() error {
	return p.client.Close()
}
