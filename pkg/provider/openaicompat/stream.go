package openaicompat

import (
	"context"
	"errors"
	"io"

	openai "github.com/sashabaranov/go-openai"

	"github.com/rhuss/litedemo/pkg/debug"
	"github.com/rhuss/litedemo/pkg/observability"
	"github.com/rhuss/litedemo/pkg/provider"
)

// newChunkStream adapts a go-openai stream to a provider.ChunkStream.
// The span is ended when the stream is exhausted, fails, or is closed.
//
// A body that ends without the [DONE] sentinel is treated by go-openai as a
// normal end of stream; a connection dropped mid-chunk surfaces as a
// connection error.
func newChunkStream(ctx context.Context, stream *openai.ChatCompletionStream, span *observability.Span) *provider.ChunkStream {
	recv := func() (*provider.Chunk, error) {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			debug.Log("streaming", "stream finished")
			return nil, io.EOF
		}
		if err != nil {
			apiErr := MapStreamError(ctx, err)
			span.OnError(apiErr)
			debug.Log("streaming", "stream failed", "error", apiErr.Error())
			return nil, apiErr
		}

		chunk := TranslateChunk(&resp)
		span.OnChunk()
		if chunk.Usage != nil {
			span.OnResponse(chunk.Model, chunk.Usage.PromptTokens, chunk.Usage.CompletionTokens)
		}
		if debug.Enabled("streaming") {
			debug.Log("streaming", "chunk received",
				"id", chunk.ID,
				"delta", debug.Truncate(chunk.Text(), 80),
			)
		}
		return chunk, nil
	}

	closeFn := func() error {
		stream.Close()
		span.End()
		return nil
	}

	return provider.NewChunkStream(recv, closeFn)
}
