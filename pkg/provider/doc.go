// Package provider defines the interface litedemo uses to reach a
// chat-completion backend. Adapters (litellm) handle the backend protocol
// internally; callers only see Request, Response, Chunk and ChunkStream.
package provider
