package database

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/go-openapi/strfmt"
	"github.com/tieubaoca/second-brain-be/config"
	"github.com/weaviate/weaviate-go-client/v4/weaviate"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/auth"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"
)

const BATCH_SIZE = 200

var (
	CHUNK_CLASS        = "MemoryChunk"
	CHUNK_CLASS_OBJECT = &models.Class{
		Class: CHUNK_CLASS,
		Properties: []*models.Property{
			{Name: "content", DataType: []string{"text"}},
			{Name: "source", DataType: []string{"text"}},
			{Name: "docType", DataType: []string{"text"}},
			{Name: "createdAt", DataType: []string{"text"}},
			{Name: "chunkIndex", DataType: []string{"int"}},
		},
		VectorIndexType: "hnsw",
	}
)

// WeaviateStore implements VectorStore on a Weaviate instance. Vectorization
// is delegated to the configured server-side text2vec module, so this layer
// never computes embeddings itself.
type WeaviateStore struct {
	client *weaviate.Client
}

func NewWeaviateStore(config config.WeaviateStoreConfig) (*WeaviateStore, error) {
	var scheme string
	if strings.Contains(config.Host, "https") {
		scheme = "https"
	} else {
		scheme = "http"
	}
	host := strings.TrimPrefix(config.Host, scheme+"://")
	cfg := weaviate.Config{
		Host:   host,
		Scheme: scheme,
	}
	if config.APIKey != "" {
		cfg.AuthConfig = auth.ApiKey{
			Value: config.APIKey,
		}
		cfg.Headers = map[string]string{
			"X-Weaviate-Api-Key":     config.APIKey,
			"X-Weaviate-Cluster-Url": fmt.Sprintf("%s://%s", scheme, host),
		}
	}
	CHUNK_CLASS_OBJECT.Vectorizer = config.Text2Vec
	CHUNK_CLASS_OBJECT.ModuleConfig = config.ModuleConfig
	client, err := weaviate.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create weaviate client: %v", err)
	}

	schema, err := client.Schema().Getter().Do(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to get schema: %v", err)
	}

	hasChunkClass := false
	for _, class := range schema.Classes {
		if class.Class == CHUNK_CLASS {
			hasChunkClass = true
			break
		}
	}
	// Create MemoryChunk class if it doesn't exist
	if !hasChunkClass {
		err = client.Schema().ClassCreator().WithClass(CHUNK_CLASS_OBJECT).Do(context.Background())
		if err != nil {
			return nil, fmt.Errorf("failed to create MemoryChunk class: %v", err)
		}
	}
	return &WeaviateStore{
		client: client,
	}, nil
}

func (s *WeaviateStore) ReInit() error {
	err := s.client.Schema().ClassDeleter().WithClassName(CHUNK_CLASS).Do(context.Background())
	if err != nil {
		return fmt.Errorf("failed to delete MemoryChunk class: %v", err)
	}

	err = s.client.Schema().ClassCreator().WithClass(CHUNK_CLASS_OBJECT).Do(context.Background())
	if err != nil {
		return fmt.Errorf("failed to create MemoryChunk class: %v", err)
	}
	return nil
}

func (s *WeaviateStore) UpsertChunks(ctx context.Context, ids []string, texts []string, metadatas []ChunkMetadata) error {
	if len(ids) != len(texts) || len(ids) != len(metadatas) {
		return fmt.Errorf("mismatched slice lengths: %d ids, %d texts, %d metadatas", len(ids), len(texts), len(metadatas))
	}

	total := len(ids)
	for i := 0; i < total; i += BATCH_SIZE {
		end := i + BATCH_SIZE
		if end > total {
			end = total
		}

		batcher := s.client.Batch().ObjectsBatcher()

		for j := i; j < end; j++ {
			properties := map[string]interface{}{
				"content":    texts[j],
				"source":     metadatas[j].Source,
				"docType":    metadatas[j].Type,
				"createdAt":  metadatas[j].CreatedAt,
				"chunkIndex": metadatas[j].ChunkIndex,
			}
			batcher = batcher.WithObjects(&models.Object{
				ID:         strfmt.UUID(ids[j]),
				Class:      CHUNK_CLASS,
				Properties: properties,
			})
		}

		if _, err := batcher.Do(ctx); err != nil {
			return fmt.Errorf("failed to insert batch %d-%d: %v", i, end, err)
		}

		log.Printf("Inserted batch %d-%d of %d chunks", i, end, total)
	}

	return nil
}

func (s *WeaviateStore) Query(ctx context.Context, query string, limit int) (*QueryResult, error) {
	fields := []graphql.Field{
		{Name: "content"},
		{Name: "source"},
		{Name: "docType"},
		{Name: "createdAt"},
		{Name: "chunkIndex"},
		{Name: "_additional", Fields: []graphql.Field{{Name: "distance"}, {Name: "id"}}},
	}

	nearText := s.client.GraphQL().NearTextArgBuilder().
		WithConcepts([]string{query})

	getBuilder := s.client.GraphQL().Get().
		WithClassName(CHUNK_CLASS).
		WithFields(fields...).
		WithNearText(nearText)
	if limit > 0 {
		getBuilder = getBuilder.WithLimit(limit)
	}

	result, err := getBuilder.Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("similarity search failed: %v", err)
	}
	if result.Errors != nil {
		return nil, fmt.Errorf("similarity search failed: %v", result.Errors[0].Message)
	}

	out := &QueryResult{}
	get, ok := result.Data["Get"].(map[string]interface{})
	if !ok {
		return out, nil
	}
	if data, ok := get[CHUNK_CLASS].([]interface{}); ok {
		for _, item := range data {
			chunk, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			meta := ChunkMetadata{
				Source:    asString(chunk["source"]),
				Type:      asString(chunk["docType"]),
				CreatedAt: asString(chunk["createdAt"]),
			}
			if idx, ok := chunk["chunkIndex"].(float64); ok {
				meta.ChunkIndex = int(idx)
			}

			id := ""
			if additional, ok := chunk["_additional"].(map[string]interface{}); ok {
				id = asString(additional["id"])
			}

			out.IDs = append(out.IDs, id)
			out.Documents = append(out.Documents, asString(chunk["content"]))
			out.Metadatas = append(out.Metadatas, meta)
		}
	}
	return out, nil
}

func asString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func NewOllamaModuleConfig(apiEndpoint, embedModel string) map[string]interface{} {
	return map[string]interface{}{
		"text2vec-ollama": map[string]interface{}{ // Configure the Ollama embedding integration
			"apiEndpoint": apiEndpoint, // Allow Weaviate from within a Docker container to contact your Ollama instance
			"model":       embedModel,  // The model to use
		},
	}
}
