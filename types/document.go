package types

const (
	DocumentTypePDF   = "pdf"
	DocumentTypeWeb   = "web"
	DocumentTypeAudio = "audio"
)

// DocumentMetadata describes a unit of ingested content. The raw text itself is
// transient; only the chunks derived from it are persisted.
type DocumentMetadata struct {
	Source    string `json:"source"`
	Type      string `json:"type"`
	CreatedAt string `json:"created_at,omitempty"` // ISO-8601, stamped at ingestion if absent
}

// RetrievalResult is one retrieved chunk with its provenance, ordered most
// relevant first. It only lives for the duration of a query-answer cycle.
type RetrievalResult struct {
	Text      string `json:"text"`
	Source    string `json:"source"`
	CreatedAt string `json:"created_at"`
}

// DocumentRecord is the ingest registry entry kept per document.
type DocumentRecord struct {
	ID         string `json:"id" bson:"_id,omitempty"`
	Source     string `json:"source" bson:"source"`
	Type       string `json:"type" bson:"type"`
	CreatedAt  string `json:"created_at" bson:"created_at"`
	ChunkCount int    `json:"chunk_count" bson:"chunk_count"`
	IngestedAt int64  `json:"ingested_at" bson:"ingested_at"`
}

// ChunkerConfig contains configuration options for text chunking
type ChunkerConfig struct {
	MaxChunkSize int // Maximum size for text chunks
	OverlapSize  int // Size of overlap between chunks
}

func ValidDocumentType(t string) bool {
	switch t {
	case DocumentTypePDF, DocumentTypeWeb, DocumentTypeAudio:
		return true
	}
	return false
}
