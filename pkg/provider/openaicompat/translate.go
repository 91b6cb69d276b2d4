package openaicompat

import (
	openai "github.com/sashabaranov/go-openai"

	"github.com/rhuss/litedemo/pkg/provider"
)

// TranslateToChat converts a provider Request into a go-openai
// ChatCompletionRequest for the /chat/completions endpoint.
func TranslateToChat(req *provider.Request) openai.ChatCompletionRequest {
	cr := openai.ChatCompletionRequest{
		Model:  req.Model,
		Stop:   req.Stop,
		Stream: req.Stream,
		User:   req.User,
	}

	if req.Temperature != nil {
		cr.Temperature = float32(*req.Temperature)
	}
	if req.TopP != nil {
		cr.TopP = float32(*req.TopP)
	}
	if req.MaxTokens != nil {
		cr.MaxTokens = *req.MaxTokens
	}

	// When streaming, ask the backend to report usage on the final chunk.
	if req.Stream {
		cr.StreamOptions = &openai.StreamOptions{IncludeUsage: true}
	}

	for _, m := range req.Messages {
		cr.Messages = append(cr.Messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	return cr
}
