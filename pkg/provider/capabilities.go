package provider

import "github.com/rhuss/litedemo/pkg/api"

// ProviderCapabilities declares what features the backend supports.
type ProviderCapabilities struct {
	// Streaming indicates whether the provider supports streaming responses.
	Streaming bool

	// ModelListing indicates whether the backend exposes a model list.
	ModelListing bool
}

// ValidateCapabilities checks whether the given request is compatible with
// the provider's declared capabilities. Returns an APIError identifying
// the specific unsupported feature, or nil if the request is compatible.
func ValidateCapabilities(caps ProviderCapabilities, req *Request) *api.APIError {
	if req.Model == "" {
		return api.NewInvalidRequestError("model", "model is required")
	}
	if len(req.Messages) == 0 {
		return api.NewInvalidRequestError("messages", "at least one message is required")
	}
	if req.Stream && !caps.Streaming {
		return api.NewInvalidRequestError("stream",
			"the configured provider does not support streaming responses")
	}
	return nil
}
