package openaicompat

import (
	openai "github.com/sashabaranov/go-openai"

	"github.com/rhuss/litedemo/pkg/provider"
)

// TranslateResponse converts a go-openai ChatCompletionResponse into a
// provider Response. All choices are kept in order.
func TranslateResponse(resp *openai.ChatCompletionResponse) *provider.Response {
	pr := &provider.Response{
		ID:      resp.ID,
		Object:  resp.Object,
		Created: resp.Created,
		Model:   resp.Model,
		Usage: provider.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}

	for _, ch := range resp.Choices {
		pr.Choices = append(pr.Choices, provider.Choice{
			Index: ch.Index,
			Message: provider.Message{
				Role:    ch.Message.Role,
				Content: ch.Message.Content,
			},
			FinishReason: string(ch.FinishReason),
		})
	}

	return pr
}

// TranslateChunk converts one go-openai stream response into a provider
// Chunk. Usage-only chunks (no choices) are kept so callers see the usage.
func TranslateChunk(resp *openai.ChatCompletionStreamResponse) *provider.Chunk {
	chunk := &provider.Chunk{
		ID:      resp.ID,
		Object:  resp.Object,
		Created: resp.Created,
		Model:   resp.Model,
	}

	for _, ch := range resp.Choices {
		chunk.Choices = append(chunk.Choices, provider.ChunkChoice{
			Index: ch.Index,
			Delta: provider.Delta{
				Role:    ch.Delta.Role,
				Content: ch.Delta.Content,
			},
			FinishReason: string(ch.FinishReason),
		})
	}

	if resp.Usage != nil {
		chunk.Usage = &provider.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		}
	}

	return chunk
}
