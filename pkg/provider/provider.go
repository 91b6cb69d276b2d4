package provider

import "context"

// Provider abstracts a chat-completion backend.
//
// Implementations must be safe for concurrent use by multiple goroutines.
// The streams they return are not: each ChunkStream has a single consumer.
type Provider interface {
	// Name returns the provider identifier (e.g., "litellm").
	Name() string

	// Capabilities returns what this provider supports.
	Capabilities() ProviderCapabilities

	// Complete performs a blocking completion call.
	Complete(ctx context.Context, req *Request) (*Response, error)

	// Stream starts a streaming completion call. Errors that happen before
	// the first chunk (connection refused, HTTP status) are returned here;
	// errors during iteration are reported by ChunkStream.Err.
	Stream(ctx context.Context, req *Request) (*ChunkStream, error)

	// ListModels returns the models served by the backend.
	ListModels(ctx context.Context) ([]ModelInfo, error)

	// Close releases provider resources (HTTP clients, connections).
	Close() error
}
