package provider

import (
	"errors"
	"io"
	"strings"

	"github.com/rhuss/litedemo/pkg/api"
)

// RecvFunc produces the next chunk of a stream. It returns io.EOF once the
// stream has ended normally; any other error ends the stream with a failure.
type RecvFunc func() (*Chunk, error)

// ChunkStream is a lazy, finite, forward-only sequence of chunks. It can be
// consumed exactly once:
//
//	for s.Next() {
//		chunk := s.Current()
//	}
//	if err := s.Err(); err != nil { ... }
//
// The stream closes its underlying transport when it is exhausted or fails.
// Callers that stop early must call Close. A ChunkStream is not safe for
// concurrent use.
type ChunkStream struct {
	recv    RecvFunc
	closeFn func() error

	curr   *Chunk
	err    error
	count  int
	done   bool
	closed bool
}

// NewChunkStream returns a stream that pulls chunks from recv. closeFn, if
// non-nil, is called once when the stream ends or is closed.
func NewChunkStream(recv RecvFunc, closeFn func() error) *ChunkStream {
	return &ChunkStream{recv: recv, closeFn: closeFn}
}

// Next advances the stream to the next chunk. It returns false when the
// stream is exhausted, failed, or was closed.
func (s *ChunkStream) Next() bool {
	if s.done {
		return false
	}

	chunk, err := s.recv()
	if err != nil {
		s.done = true
		s.curr = nil
		if !errors.Is(err, io.EOF) {
			s.err = asStreamError(err)
		}
		s.Close()
		return false
	}

	s.curr = chunk
	s.count++
	return true
}

// Current returns the chunk produced by the last successful Next.
func (s *ChunkStream) Current() *Chunk {
	return s.curr
}

// Err returns the error that ended the stream, or nil if it ended normally
// (or has not ended yet). The error is always an *api.APIError.
func (s *ChunkStream) Err() error {
	if s.err == nil {
		return nil
	}
	return s.err
}

// Count returns the number of chunks delivered so far.
func (s *ChunkStream) Count() int {
	return s.count
}

// Close releases the underlying transport. It is safe to call more than
// once; after Close, Next returns false.
func (s *ChunkStream) Close() error {
	s.done = true
	if s.closed {
		return nil
	}
	s.closed = true
	if s.closeFn != nil {
		return s.closeFn()
	}
	return nil
}

// ReadAll drains the stream and returns every chunk it produced, along with
// the error that ended it, if any. Chunks received before a failure are
// returned too.
func ReadAll(s *ChunkStream) ([]*Chunk, error) {
	defer s.Close()

	var chunks []*Chunk
	for s.Next() {
		chunks = append(chunks, s.Current())
	}
	return chunks, s.Err()
}

// JoinText concatenates the text of the given chunks in order.
func JoinText(chunks []*Chunk) string {
	var b strings.Builder
	for _, c := range chunks {
		b.WriteString(c.Text())
	}
	return b.String()
}

func asStreamError(err error) *api.APIError {
	if apiErr, ok := api.AsAPIError(err); ok {
		return apiErr
	}
	return api.NewStreamError(err.Error(), err)
}
