package openaicompat

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/rhuss/litedemo/pkg/debug"
	"github.com/rhuss/litedemo/pkg/observability"
	"github.com/rhuss/litedemo/pkg/provider"
)

// DefaultTimeout applies to non-streaming requests when none is configured.
const DefaultTimeout = 120 * time.Second

// Client performs requests against an OpenAI-compatible Chat Completions
// backend through go-openai.
//
// Provider adapters embed this Client and delegate their Complete/Stream/
// ListModels calls to it.
type Client struct {
	httpClient *http.Client
	chat       *openai.Client
	streaming  *openai.Client
	baseURL    string

	// ProviderName labels traces and logs. Defaults to "openai".
	ProviderName string

	// ModelMapper is an optional function that transforms the model name
	// before sending it to the backend. If nil, the model name is used as-is.
	ModelMapper func(string) string
}

// NewClient creates a new Client for an OpenAI-compatible backend.
//
// baseURL is the API root, with or without the trailing "/v1" segment
// (e.g. "http://localhost:3000" and "http://localhost:3000/v1" are
// equivalent). The configuration is captured once; the client never reads
// process environment.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	baseURL = NormalizeBaseURL(baseURL)

	if timeout == 0 {
		timeout = DefaultTimeout
	}

	transport := observability.InstrumentTransport(nil)
	httpClient := &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}

	chatCfg := openai.DefaultConfig(apiKey)
	chatCfg.BaseURL = baseURL
	chatCfg.HTTPClient = httpClient

	// Streams can legitimately outlive any fixed timeout, so the streaming
	// client has none. Context cancellation controls its lifetime.
	streamCfg := openai.DefaultConfig(apiKey)
	streamCfg.BaseURL = baseURL
	streamCfg.HTTPClient = &http.Client{Transport: transport}

	return &Client{
		httpClient:   httpClient,
		chat:         openai.NewClientWithConfig(chatCfg),
		streaming:    openai.NewClientWithConfig(streamCfg),
		baseURL:      baseURL,
		ProviderName: "openai",
	}
}

// NormalizeBaseURL trims trailing slashes and appends "/v1" when missing.
func NormalizeBaseURL(baseURL string) string {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if !strings.HasSuffix(baseURL, "/v1") {
		baseURL += "/v1"
	}
	return baseURL
}

// BaseURL returns the normalized API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Complete performs non-streaming inference against the Chat Completions endpoint.
func (c *Client) Complete(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	// Ensure we are not in streaming mode for Complete.
	reqCopy := *req
	reqCopy.Stream = false
	c.mapModel(&reqCopy)

	chatReq := TranslateToChat(&reqCopy)
	c.logRequest(chatReq)

	ctx, span := observability.StartSpan(ctx, c.ProviderName, chatReq.Model, "complete")
	defer span.End()

	chatResp, err := c.chat.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		apiErr := MapError(err)
		span.OnError(apiErr)
		debug.Log("provider", "chat completion failed", "error", apiErr.Error())
		return nil, apiErr
	}

	resp := TranslateResponse(&chatResp)
	span.OnResponse(resp.Model, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
	debug.Log("provider", "chat completion received",
		"id", resp.ID,
		"choices", len(resp.Choices),
		"completion_tokens", resp.Usage.CompletionTokens,
	)
	return resp, nil
}

// Stream performs streaming inference against the Chat Completions endpoint.
// The returned ChunkStream owns the HTTP response body; it is released when
// the stream is exhausted, fails, or is closed.
func (c *Client) Stream(ctx context.Context, req *provider.Request) (*provider.ChunkStream, error) {
	// Force streaming mode.
	reqCopy := *req
	reqCopy.Stream = true
	c.mapModel(&reqCopy)

	chatReq := TranslateToChat(&reqCopy)
	c.logRequest(chatReq)

	ctx, span := observability.StartSpan(ctx, c.ProviderName, chatReq.Model, "stream")

	stream, err := c.streaming.CreateChatCompletionStream(ctx, chatReq)
	if err != nil {
		apiErr := MapError(err)
		span.OnError(apiErr)
		span.End()
		debug.Log("provider", "chat completion stream failed", "error", apiErr.Error())
		return nil, apiErr
	}

	debug.Log("streaming", "stream opened", "model", chatReq.Model)
	return newChunkStream(ctx, stream, span), nil
}

// ListModels returns available models from the backend by querying
// the /models endpoint.
func (c *Client) ListModels(ctx context.Context) ([]provider.ModelInfo, error) {
	list, err := c.chat.ListModels(ctx)
	if err != nil {
		return nil, MapError(err)
	}

	models := make([]provider.ModelInfo, 0, len(list.Models))
	for _, m := range list.Models {
		models = append(models, provider.ModelInfo{
			ID:      m.ID,
			Object:  m.Object,
			OwnedBy: m.OwnedBy,
		})
	}
	return models, nil
}

// Close releases client resources.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

func (c *Client) mapModel(req *provider.Request) {
	if c.ModelMapper != nil {
		req.Model = c.ModelMapper(req.Model)
	}
}

func (c *Client) logRequest(req openai.ChatCompletionRequest) {
	debug.Log("provider", "chat completion request",
		"url", c.baseURL+"/chat/completions",
		"model", req.Model,
		"stream", req.Stream,
		"messages", len(req.Messages),
	)
	if debug.TraceIsEnabled("provider") {
		body, err := json.MarshalIndent(req, "", "  ")
		if err == nil {
			debug.Raw("provider", string(body))
		}
	}
}
