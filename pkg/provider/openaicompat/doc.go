// Package openaicompat provides the shared client for any OpenAI-compatible
// Chat Completions backend. Transport, request encoding and SSE decoding are
// delegated to github.com/sashabaranov/go-openai; this package translates
// between litedemo's provider types and the library's, maps library errors
// to api.APIError, and wires tracing and debug logging around each call.
//
// Provider adapters (litellm) embed the Client from this package and
// delegate their Complete/Stream/ListModels calls to it.
package openaicompat
