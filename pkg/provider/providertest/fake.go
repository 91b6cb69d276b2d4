package providertest

import (
	"context"
	"io"
	"sync"

	"github.com/rhuss/litedemo/pkg/provider"
)

// Fake is an in-memory provider.Provider whose behavior is set per test.
// Nil funcs fall back to a successful call returning DefaultCompletion.
type Fake struct {
	CompleteFunc   func(ctx context.Context, req *provider.Request) (*provider.Response, error)
	StreamFunc     func(ctx context.Context, req *provider.Request) (*provider.ChunkStream, error)
	ListModelsFunc func(ctx context.Context) ([]provider.ModelInfo, error)
	Caps           *provider.ProviderCapabilities

	mu       sync.Mutex
	requests []provider.Request
	closed   bool
}

var _ provider.Provider = (*Fake)(nil)

// Name returns "fake".
func (f *Fake) Name() string { return "fake" }

// Capabilities returns Caps, or streaming support when Caps is nil.
func (f *Fake) Capabilities() provider.ProviderCapabilities {
	if f.Caps != nil {
		return *f.Caps
	}
	return provider.ProviderCapabilities{Streaming: true, ModelListing: true}
}

// Complete records the request and delegates to CompleteFunc.
func (f *Fake) Complete(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	f.record(req)
	if f.CompleteFunc != nil {
		return f.CompleteFunc(ctx, req)
	}
	return TextResponse(req.Model, DefaultCompletion), nil
}

// Stream records the request and delegates to StreamFunc.
func (f *Fake) Stream(ctx context.Context, req *provider.Request) (*provider.ChunkStream, error) {
	f.record(req)
	if f.StreamFunc != nil {
		return f.StreamFunc(ctx, req)
	}
	return StreamOf(SplitChunks(DefaultCompletion), nil), nil
}

// ListModels delegates to ListModelsFunc.
func (f *Fake) ListModels(ctx context.Context) ([]provider.ModelInfo, error) {
	if f.ListModelsFunc != nil {
		return f.ListModelsFunc(ctx)
	}
	return []provider.ModelInfo{{ID: "mock-model", Object: "model"}}, nil
}

// Close marks the fake as closed.
func (f *Fake) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// Closed reports whether Close was called.
func (f *Fake) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// Requests returns copies of the requests received so far.
func (f *Fake) Requests() []provider.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]provider.Request, len(f.requests))
	copy(out, f.requests)
	return out
}

func (f *Fake) record(req *provider.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, *req)
}

// TextResponse builds a single-choice assistant response.
func TextResponse(model, text string) *provider.Response {
	return &provider.Response{
		ID:      "chatcmpl-fake",
		Object:  "chat.completion",
		Created: mockCreated,
		Model:   model,
		Choices: []provider.Choice{
			{
				Index:        0,
				Message:      provider.Message{Role: provider.RoleAssistant, Content: text},
				FinishReason: "stop",
			},
		},
	}
}

// StreamOf returns a ChunkStream yielding one chunk per text and then
// ending with err (nil means a normal end).
func StreamOf(texts []string, err error) *provider.ChunkStream {
	i := 0
	recv := func() (*provider.Chunk, error) {
		if i >= len(texts) {
			if err != nil {
				return nil, err
			}
			return nil, io.EOF
		}
		c := &provider.Chunk{
			ID:     "chatcmpl-fake-stream",
			Object: "chat.completion.chunk",
			Choices: []provider.ChunkChoice{
				{Index: 0, Delta: provider.Delta{Content: texts[i]}},
			},
		}
		i++
		return c, nil
	}
	return provider.NewChunkStream(recv, nil)
}
