package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tieubaoca/second-brain-be/database"
	"github.com/tieubaoca/second-brain-be/repository"
	"github.com/tieubaoca/second-brain-be/types"
)

// DefaultTopK is how many chunks a query retrieves.
const DefaultTopK = 3

// BrainService is the retrieval-augmented answering core: it indexes incoming
// document text into the vector store and answers questions from the indexed
// chunks, streaming from the primary model with a local fallback.
type BrainService struct {
	vectorDB     database.VectorStore
	primary      PrimaryAI  // nil when no API key is configured
	local        LocalAI    // nil when the local model is unavailable
	chunker      *Chunker
	documentRepo repository.DocumentRepo // optional ingest registry
}

func NewBrainService(
	vectorDB database.VectorStore,
	primary PrimaryAI,
	local LocalAI,
	chunker *Chunker,
	documentRepo repository.DocumentRepo,
) *BrainService {
	return &BrainService{
		vectorDB:     vectorDB,
		primary:      primary,
		local:        local,
		chunker:      chunker,
		documentRepo: documentRepo,
	}
}

// AddDocument chunks text and writes the chunks to the vector store. Every
// chunk gets its own id, an incrementing chunk index and its own copy of the
// document metadata. A document yielding zero chunks is not an error, there
// is simply nothing to index.
func (s *BrainService) AddDocument(ctx context.Context, text string, meta types.DocumentMetadata) error {
	if meta.CreatedAt == "" {
		meta.CreatedAt = time.Now().Format(time.RFC3339)
	}

	chunks := s.chunker.Chunk(text)
	if len(chunks) == 0 {
		log.Println("Warning: no valid chunks found to ingest, skipping", meta.Source)
		return nil
	}

	ids := make([]string, len(chunks))
	metadatas := make([]database.ChunkMetadata, len(chunks))
	for i := range chunks {
		ids[i] = uuid.New().String()
		metadatas[i] = database.ChunkMetadata{
			Source:     meta.Source,
			Type:       meta.Type,
			CreatedAt:  meta.CreatedAt,
			ChunkIndex: i,
		}
	}

	if err := s.vectorDB.UpsertChunks(ctx, ids, chunks, metadatas); err != nil {
		return fmt.Errorf("failed to index document %q: %w", meta.Source, err)
	}

	// Registry failures must not fail the ingestion itself.
	if s.documentRepo != nil {
		record := &types.DocumentRecord{
			Source:     meta.Source,
			Type:       meta.Type,
			CreatedAt:  meta.CreatedAt,
			ChunkCount: len(chunks),
			IngestedAt: time.Now().Unix(),
		}
		if err := s.documentRepo.CreateDocument(ctx, record); err != nil {
			log.Printf("Warning: failed to record ingest of %q: %v", meta.Source, err)
		}
	}

	return nil
}

// Retrieve runs the similarity search and formats the hits into the
// citation-annotated context block, one line per chunk:
//
//	- [YYYY-MM-DD] (source): chunk text
//
// An empty result set yields an empty context string.
func (s *BrainService) Retrieve(ctx context.Context, query string, k int) (string, []types.RetrievalResult, error) {
	res, err := s.vectorDB.Query(ctx, query, k)
	if err != nil {
		return "", nil, fmt.Errorf("retrieval failed: %w", err)
	}

	var b strings.Builder
	results := make([]types.RetrievalResult, 0, len(res.Documents))
	for i, doc := range res.Documents {
		meta := res.Metadatas[i]

		timestamp := meta.CreatedAt
		if timestamp == "" {
			timestamp = "Unknown"
		}
		if len(timestamp) > 10 {
			timestamp = timestamp[:10]
		}
		source := meta.Source
		if source == "" {
			source = "Unknown"
		}

		fmt.Fprintf(&b, "- [%s] (%s): %s\n", timestamp, source, doc)
		results = append(results, types.RetrievalResult{
			Text:      doc,
			Source:    source,
			CreatedAt: timestamp,
		})
	}
	return b.String(), results, nil
}

// Query answers a question from the indexed documents. The context string and
// structured results are returned eagerly so callers can show provenance
// right away; the answer itself arrives lazily on the fragment channel.
// Generation failures never surface here, they degrade inside the stream;
// only a failed retrieval returns an error.
func (s *BrainService) Query(ctx context.Context, userQuery string) (<-chan string, string, []types.RetrievalResult, error) {
	contextStr, results, err := s.Retrieve(ctx, userQuery, DefaultTopK)
	if err != nil {
		return nil, "", nil, err
	}

	prompt := BuildPrompt(contextStr, userQuery, time.Now().Format("2006-01-02"))
	fragments := s.Generate(ctx, prompt, contextStr, userQuery)
	return fragments, contextStr, results, nil
}
