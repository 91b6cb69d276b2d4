// Package providertest provides a deterministic in-process Chat Completions
// backend and a fake Provider for tests.
//
// The backend serves:
//
//	POST /v1/chat/completions  (JSON or SSE, depending on "stream")
//	GET  /v1/models
//	GET  /healthz
//
// and can be told to fail with an HTTP status, to emit an error event in the
// middle of a stream, or to drop the connection mid-stream.
package providertest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

// DefaultCompletion is the text served when no completion is configured.
const DefaultCompletion = "This is a mock response."

// Backend is a scripted Chat Completions server.
type Backend struct {
	completion string
	chunks     []string
	chunkDelay time.Duration
	models     []string

	nonStreamStatus  int
	nonStreamMessage string
	streamStatus     int
	streamMessage    string

	failAfter   int
	failMessage string
	disconnect  bool

	mu       sync.Mutex
	requests []RecordedRequest
}

// RecordedRequest captures what the backend received.
type RecordedRequest struct {
	Path          string
	Authorization string
	Model         string
	Messages      []RecordedMessage
	Stream        bool
	IncludeUsage  bool
}

// RecordedMessage is a received chat message.
type RecordedMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Option configures a Backend.
type Option func(*Backend)

// WithCompletion sets the completion text. The streamed chunks are the text
// split after each space, so their concatenation is the text itself.
func WithCompletion(text string) Option {
	return func(b *Backend) {
		b.completion = text
		b.chunks = SplitChunks(text)
	}
}

// WithChunks sets the streamed chunks explicitly; the non-streaming
// completion becomes their concatenation.
func WithChunks(chunks ...string) Option {
	return func(b *Backend) {
		b.chunks = chunks
		b.completion = strings.Join(chunks, "")
	}
}

// WithChunkDelay pauses before each streamed chunk.
func WithChunkDelay(d time.Duration) Option {
	return func(b *Backend) { b.chunkDelay = d }
}

// WithModels sets the ids served by /v1/models.
func WithModels(ids ...string) Option {
	return func(b *Backend) { b.models = ids }
}

// WithStatus makes every completion request fail with the given status.
func WithStatus(status int, message string) Option {
	return func(b *Backend) {
		b.nonStreamStatus, b.nonStreamMessage = status, message
		b.streamStatus, b.streamMessage = status, message
	}
}

// WithNonStreamStatus makes only non-streaming requests fail.
func WithNonStreamStatus(status int, message string) Option {
	return func(b *Backend) { b.nonStreamStatus, b.nonStreamMessage = status, message }
}

// WithStreamStatus makes only streaming requests fail before any chunk.
func WithStreamStatus(status int, message string) Option {
	return func(b *Backend) { b.streamStatus, b.streamMessage = status, message }
}

// WithStreamErrorAfter emits an error event after n content chunks.
func WithStreamErrorAfter(n int, message string) Option {
	return func(b *Backend) {
		b.failAfter, b.failMessage, b.disconnect = n, message, false
	}
}

// WithDisconnectAfter drops the connection after n content chunks.
func WithDisconnectAfter(n int) Option {
	return func(b *Backend) {
		b.failAfter, b.failMessage, b.disconnect = n, "", true
	}
}

// New returns a Backend serving DefaultCompletion unless configured otherwise.
func New(opts ...Option) *Backend {
	b := &Backend{
		completion: DefaultCompletion,
		chunks:     []string{"This is a", " mock", " response."},
		models:     []string{"mock-model"},
		failAfter:  -1,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NewServer starts an httptest server for a new Backend and closes it when
// the test ends.
func NewServer(t testing.TB, opts ...Option) (*Backend, *httptest.Server) {
	t.Helper()
	b := New(opts...)
	srv := httptest.NewServer(b.Handler())
	t.Cleanup(srv.Close)
	return b, srv
}

// Handler returns the HTTP handler serving the backend routes.
func (b *Backend) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/chat/completions", b.handleChatCompletions)
	mux.HandleFunc("GET /v1/models", b.handleModels)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})
	return mux
}

// Requests returns a copy of the completion requests received so far.
func (b *Backend) Requests() []RecordedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]RecordedRequest, len(b.requests))
	copy(out, b.requests)
	return out
}

// SplitChunks splits text after each space. Joining the result yields text.
func SplitChunks(text string) []string {
	var chunks []string
	for _, part := range strings.SplitAfter(text, " ") {
		if part != "" {
			chunks = append(chunks, part)
		}
	}
	return chunks
}

// --- Wire types ---

type chatRequest struct {
	Model         string            `json:"model"`
	Messages      []RecordedMessage `json:"messages"`
	Stream        bool              `json:"stream"`
	StreamOptions *struct {
		IncludeUsage bool `json:"include_usage"`
	} `json:"stream_options,omitempty"`
}

type chatResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Created int64        `json:"created"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
	Usage   chatUsage    `json:"usage"`
}

type chatChoice struct {
	Index        int     `json:"index"`
	Message      chatMsg `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

type chatMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type errorBody struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

const mockCreated = 1234567890

// --- Handlers ---

func (b *Backend) handleChatCompletions(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	b.mu.Lock()
	b.requests = append(b.requests, RecordedRequest{
		Path:          r.URL.Path,
		Authorization: r.Header.Get("Authorization"),
		Model:         req.Model,
		Messages:      req.Messages,
		Stream:        req.Stream,
		IncludeUsage:  req.StreamOptions != nil && req.StreamOptions.IncludeUsage,
	})
	b.mu.Unlock()

	model := req.Model
	if model == "" {
		model = "mock-model"
	}

	if req.Stream {
		if b.streamStatus != 0 {
			writeError(w, b.streamStatus, b.streamMessage)
			return
		}
		b.handleStreaming(w, model)
		return
	}

	if b.nonStreamStatus != 0 {
		writeError(w, b.nonStreamStatus, b.nonStreamMessage)
		return
	}

	resp := chatResponse{
		ID:      "chatcmpl-mock",
		Object:  "chat.completion",
		Created: mockCreated,
		Model:   model,
		Choices: []chatChoice{
			{
				Index:        0,
				Message:      chatMsg{Role: "assistant", Content: b.completion},
				FinishReason: "stop",
			},
		},
		Usage: chatUsage{PromptTokens: 5, CompletionTokens: len(b.chunks), TotalTokens: 5 + len(b.chunks)},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (b *Backend) handleStreaming(w http.ResponseWriter, model string) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	// Role chunk.
	writeChunk(w, model, map[string]any{"role": "assistant"}, nil, nil)
	flusher.Flush()

	for i, token := range b.chunks {
		if i == b.failAfter {
			b.fail(w, flusher)
			return
		}
		if b.chunkDelay > 0 {
			time.Sleep(b.chunkDelay)
		}
		writeChunk(w, model, map[string]any{"content": token}, nil, nil)
		flusher.Flush()
	}
	if b.failAfter >= len(b.chunks) {
		b.fail(w, flusher)
		return
	}

	// Finish chunk with usage.
	stop := "stop"
	writeChunk(w, model, map[string]any{}, &stop, &chatUsage{
		PromptTokens:     5,
		CompletionTokens: len(b.chunks),
		TotalTokens:      5 + len(b.chunks),
	})
	flusher.Flush()

	fmt.Fprintf(w, "data: [DONE]\n\n")
	flusher.Flush()
}

func (b *Backend) fail(w http.ResponseWriter, flusher http.Flusher) {
	if !b.disconnect {
		var body errorBody
		body.Error.Message = b.failMessage
		body.Error.Type = "server_error"
		data, _ := json.Marshal(body)
		fmt.Fprintf(w, "data: %s\n\n", data)
		flusher.Flush()
		return
	}

	hj, ok := w.(http.Hijacker)
	if !ok {
		panic("providertest: response writer does not support hijacking")
	}
	conn, _, err := hj.Hijack()
	if err != nil {
		panic("providertest: hijack failed: " + err.Error())
	}
	conn.Close()
}

func writeChunk(w http.ResponseWriter, model string, delta map[string]any, finish *string, usage *chatUsage) {
	chunk := map[string]any{
		"id":      "chatcmpl-mock-stream",
		"object":  "chat.completion.chunk",
		"created": mockCreated,
		"model":   model,
		"choices": []any{
			map[string]any{
				"index":         0,
				"delta":         delta,
				"finish_reason": finish,
			},
		},
	}
	if usage != nil {
		chunk["usage"] = usage
	}

	data, _ := json.Marshal(chunk)
	fmt.Fprintf(w, "data: %s\n\n", data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	var body errorBody
	body.Error.Message = message
	body.Error.Type = "server_error"
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func (b *Backend) handleModels(w http.ResponseWriter, r *http.Request) {
	data := make([]map[string]any, 0, len(b.models))
	for _, id := range b.models {
		data = append(data, map[string]any{"id": id, "object": "model", "owned_by": "litedemo-mock"})
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"object": "list", "data": data})
}
