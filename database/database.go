package database

import (
	"context"
)

// ChunkMetadata is persisted alongside every chunk in the vector store. Each
// chunk carries its own copy of the parent document's metadata.
type ChunkMetadata struct {
	Source     string `json:"source"`
	Type       string `json:"type"`
	CreatedAt  string `json:"created_at"`
	ChunkIndex int    `json:"chunk_index"`
}

// QueryResult holds similarity search results as index-aligned slices,
// ordered most relevant first.
type QueryResult struct {
	IDs       []string
	Documents []string
	Metadatas []ChunkMetadata
}

// VectorStore defines the persistent semantic index capability. Embedding
// computation and similarity ranking happen inside the store.
type VectorStore interface {
	// UpsertChunks writes chunk records to the store. The three slices are
	// index-aligned and must have equal length.
	UpsertChunks(ctx context.Context, ids []string, texts []string, metadatas []ChunkMetadata) error

	// Query returns up to limit chunks ranked by embedding similarity.
	Query(ctx context.Context, query string, limit int) (*QueryResult, error)
}
