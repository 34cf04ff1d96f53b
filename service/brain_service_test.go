package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tieubaoca/second-brain-be/database"
	"github.com/tieubaoca/second-brain-be/types"
)

// memoryVectorStore is a test double: it stores chunks in insertion order and
// answers queries with the first chunks whose text shares a word with the
// query, then pads with the rest up to the limit.
type memoryVectorStore struct {
	mu        sync.Mutex
	ids       []string
	texts     []string
	metadatas []database.ChunkMetadata
	queryErr  error
}

func (m *memoryVectorStore) UpsertChunks(ctx context.Context, ids []string, texts []string, metadatas []database.ChunkMetadata) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ids = append(m.ids, ids...)
	m.texts = append(m.texts, texts...)
	m.metadatas = append(m.metadatas, metadatas...)
	return nil
}

func (m *memoryVectorStore) Query(ctx context.Context, query string, limit int) (*database.QueryResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.queryErr != nil {
		return nil, m.queryErr
	}

	queryWords := wordSet(query)
	res := &database.QueryResult{}
	add := func(i int) {
		res.IDs = append(res.IDs, m.ids[i])
		res.Documents = append(res.Documents, m.texts[i])
		res.Metadatas = append(res.Metadatas, m.metadatas[i])
	}
	seen := make(map[int]bool)
	for i, text := range m.texts {
		if len(res.IDs) >= limit {
			break
		}
		for word := range wordSet(text) {
			if queryWords[word] {
				add(i)
				seen[i] = true
				break
			}
		}
	}
	for i := range m.texts {
		if len(res.IDs) >= limit {
			break
		}
		if !seen[i] {
			add(i)
		}
	}
	return res, nil
}

func TestAddDocumentEmptyTextIsNoop(t *testing.T) {
	store := &memoryVectorStore{}
	brain := NewBrainService(store, nil, nil, NewChunker(DefaultChunkerConfig), nil)

	require.NoError(t, brain.AddDocument(context.Background(), "", types.DocumentMetadata{Source: "a.txt", Type: types.DocumentTypePDF}))
	require.NoError(t, brain.AddDocument(context.Background(), "   ", types.DocumentMetadata{Source: "a.txt", Type: types.DocumentTypePDF}))

	assert.Empty(t, store.ids)
}

func TestAddDocumentAssignsChunkMetadata(t *testing.T) {
	store := &memoryVectorStore{}
	chunker := NewChunker(types.ChunkerConfig{MaxChunkSize: 40, OverlapSize: 0})
	brain := NewBrainService(store, nil, nil, chunker, nil)

	text := "First paragraph with enough words.\n\nSecond paragraph with enough words."
	err := brain.AddDocument(context.Background(), text, types.DocumentMetadata{
		Source: "notes.txt",
		Type:   types.DocumentTypeWeb,
	})
	require.NoError(t, err)

	require.Len(t, store.ids, 2)
	assert.NotEqual(t, store.ids[0], store.ids[1], "chunk ids must be unique")

	for i, meta := range store.metadatas {
		assert.Equal(t, "notes.txt", meta.Source)
		assert.Equal(t, types.DocumentTypeWeb, meta.Type)
		assert.Equal(t, i, meta.ChunkIndex)
		assert.NotEmpty(t, meta.CreatedAt, "created_at must be stamped when absent")
	}
	// One timestamp for the whole document.
	assert.Equal(t, store.metadatas[0].CreatedAt, store.metadatas[1].CreatedAt)
}

func TestAddDocumentKeepsProvidedCreatedAt(t *testing.T) {
	store := &memoryVectorStore{}
	brain := NewBrainService(store, nil, nil, NewChunker(DefaultChunkerConfig), nil)

	err := brain.AddDocument(context.Background(), "Some document text.", types.DocumentMetadata{
		Source:    "a.txt",
		Type:      types.DocumentTypePDF,
		CreatedAt: "2024-06-01T12:00:00Z",
	})
	require.NoError(t, err)

	require.Len(t, store.metadatas, 1)
	assert.Equal(t, "2024-06-01T12:00:00Z", store.metadatas[0].CreatedAt)
}

func TestRetrieveFormatsContext(t *testing.T) {
	store := &memoryVectorStore{
		ids:   []string{"id-1", "id-2"},
		texts: []string{"Paris is the capital of France.", "Berlin is the capital of Germany."},
		metadatas: []database.ChunkMetadata{
			{Source: "geo.txt", Type: types.DocumentTypePDF, CreatedAt: "2024-01-15T09:30:00Z"},
			{Source: "", Type: types.DocumentTypePDF, CreatedAt: ""},
		},
	}
	brain := NewBrainService(store, nil, nil, NewChunker(DefaultChunkerConfig), nil)

	contextStr, results, err := brain.Retrieve(context.Background(), "capital", 3)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(contextStr, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "- [2024-01-15] (geo.txt): Paris is the capital of France.", lines[0])
	assert.Equal(t, "- [Unknown] (Unknown): Berlin is the capital of Germany.", lines[1])

	require.Len(t, results, 2)
	assert.Equal(t, "geo.txt", results[0].Source)
	assert.Equal(t, "2024-01-15", results[0].CreatedAt)
	assert.Equal(t, "Unknown", results[1].CreatedAt)
}

func TestRetrieveEmptyStore(t *testing.T) {
	brain := NewBrainService(&memoryVectorStore{}, nil, nil, NewChunker(DefaultChunkerConfig), nil)

	contextStr, results, err := brain.Retrieve(context.Background(), "anything", 3)
	require.NoError(t, err)
	assert.Empty(t, contextStr)
	assert.Empty(t, results)
}

func TestRetrieveRespectsLimit(t *testing.T) {
	store := &memoryVectorStore{}
	brain := NewBrainService(store, nil, nil, NewChunker(DefaultChunkerConfig), nil)
	for i := 0; i < 5; i++ {
		require.NoError(t, brain.AddDocument(context.Background(), "capital cities everywhere", types.DocumentMetadata{
			Source: "s.txt",
			Type:   types.DocumentTypeWeb,
		}))
	}

	_, results, err := brain.Retrieve(context.Background(), "capital", 3)
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestQueryRetrievalErrorPropagates(t *testing.T) {
	store := &memoryVectorStore{queryErr: errors.New("store unreachable")}
	brain := NewBrainService(store, nil, nil, NewChunker(DefaultChunkerConfig), nil)

	_, _, _, err := brain.Query(context.Background(), "question")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "retrieval failed")
}

// End-to-end: ingest a small document, query it back, and follow the
// missing-credential generation path.
func TestIngestAndQueryScenario(t *testing.T) {
	store := &memoryVectorStore{}
	brain := NewBrainService(store, nil, nil, NewChunker(DefaultChunkerConfig), nil)

	err := brain.AddDocument(context.Background(),
		"Paris is the capital of France.\n\nIt has a population of over 2 million.",
		types.DocumentMetadata{Source: "geo.txt", Type: types.DocumentTypePDF})
	require.NoError(t, err)
	require.Len(t, store.texts, 1, "both sentences fit one chunk")

	fragments, contextStr, results, err := brain.Query(context.Background(), "What is the capital of France?")
	require.NoError(t, err)

	assert.Contains(t, contextStr, "(geo.txt)")
	assert.Contains(t, contextStr, "Paris is the capital of France.")
	require.Len(t, results, 1)

	var answer []string
	for fragment := range fragments {
		answer = append(answer, fragment)
	}
	require.Len(t, answer, 1)
	assert.True(t, strings.HasPrefix(answer[0], "**⚠️ API Key Missing."), "got %q", answer[0])
}
