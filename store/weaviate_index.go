package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/lawai/lawai-be/types"
	"github.com/weaviate/weaviate-go-client/v4/weaviate"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/auth"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"
)

const weaviateBatchSize = 200

// WeaviateConfig carries the connection settings for a remote index.
type WeaviateConfig struct {
	Host   string
	APIKey string
	Class  string
}

// weaviateClassObject describes one legal section or clause as stored in
// Weaviate. Vectors are supplied by the index command, not a vectorizer
// module, so query and document embeddings always come from the same model.
func weaviateClassObject(class string) *models.Class {
	return &models.Class{
		Class: class,
		Properties: []*models.Property{
			{Name: "docId", DataType: []string{"text"}},
			{Name: "text", DataType: []string{"text"}},
			{Name: "section", DataType: []string{"text"}},
			{Name: "title", DataType: []string{"text"}},
			{Name: "law", DataType: []string{"text"}},
			{Name: "category", DataType: []string{"text"}},
		},
		Vectorizer:      "none",
		VectorIndexType: "hnsw",
	}
}

// WeaviateIndex implements VectorIndex against a remote Weaviate class.
type WeaviateIndex struct {
	client *weaviate.Client
	class  string
}

func NewWeaviateIndex(cfg WeaviateConfig) (*WeaviateIndex, error) {
	var scheme string
	if strings.Contains(cfg.Host, "https") {
		scheme = "https"
	} else {
		scheme = "http"
	}
	host := strings.TrimPrefix(cfg.Host, scheme+"://")
	clientCfg := weaviate.Config{
		Host:   host,
		Scheme: scheme,
	}
	if cfg.APIKey != "" {
		clientCfg.AuthConfig = auth.ApiKey{Value: cfg.APIKey}
	}
	client, err := weaviate.NewClient(clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create weaviate client: %w", err)
	}
	class := cfg.Class
	if class == "" {
		class = "LegalSection"
	}
	return &WeaviateIndex{client: client, class: class}, nil
}

// EnsureClass creates the class if it does not exist yet. With reset it
// drops any existing class first.
func (s *WeaviateIndex) EnsureClass(ctx context.Context, reset bool) error {
	if reset {
		// Deleting a missing class is not an error worth surfacing here.
		s.client.Schema().ClassDeleter().WithClassName(s.class).Do(ctx)
	}
	schema, err := s.client.Schema().Getter().Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to get schema: %w", err)
	}
	for _, class := range schema.Classes {
		if class.Class == s.class {
			return nil
		}
	}
	if err := s.client.Schema().ClassCreator().WithClass(weaviateClassObject(s.class)).Do(ctx); err != nil {
		return fmt.Errorf("failed to create class %s: %w", s.class, err)
	}
	return nil
}

// BatchInsert stores documents with their vectors in batches.
func (s *WeaviateIndex) BatchInsert(ctx context.Context, docs []types.Document, vectors [][]float32) error {
	if len(docs) != len(vectors) {
		return fmt.Errorf("documents and vectors length mismatch: %d != %d", len(docs), len(vectors))
	}
	total := len(docs)
	for i := 0; i < total; i += weaviateBatchSize {
		end := i + weaviateBatchSize
		if end > total {
			end = total
		}
		batcher := s.client.Batch().ObjectsBatcher()
		for j := i; j < end; j++ {
			batcher = batcher.WithObjects(&models.Object{
				Class:      s.class,
				Properties: documentProperties(docs[j]),
				Vector:     Normalize(vectors[j]),
			})
		}
		if _, err := batcher.Do(ctx); err != nil {
			return fmt.Errorf("failed to insert batch %d-%d: %w", i, end, err)
		}
	}
	return nil
}

// Search runs a nearVector query and maps certainty to the similarity score.
func (s *WeaviateIndex) Search(ctx context.Context, query []float32, k int) ([]Match, error) {
	count, err := s.count(ctx)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrNotLoaded
	}

	nearVector := s.client.GraphQL().NearVectorArgBuilder().
		WithVector(Normalize(query))
	result, err := s.client.GraphQL().Get().
		WithClassName(s.class).
		WithFields(
			graphql.Field{Name: "docId"},
			graphql.Field{Name: "_additional", Fields: []graphql.Field{{Name: "certainty"}}},
		).
		WithNearVector(nearVector).
		WithLimit(k).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("weaviate search failed: %w", err)
	}
	if result.Errors != nil {
		return nil, fmt.Errorf("weaviate search failed: %v", result.Errors[0].Message)
	}

	var matches []Match
	if data, ok := result.Data["Get"].(map[string]interface{})[s.class].([]interface{}); ok {
		for _, item := range data {
			obj, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			match := Match{}
			if id, ok := obj["docId"].(string); ok {
				match.ID = id
			}
			if additional, ok := obj["_additional"].(map[string]interface{}); ok {
				if certainty, ok := additional["certainty"].(float64); ok {
					match.Score = float32(certainty)
				}
			}
			matches = append(matches, match)
		}
	}
	return matches, nil
}

// Add is not supported on the remote backend; ingestion goes through
// BatchInsert from the index command.
func (s *WeaviateIndex) Add(id string, vector []float32) error {
	return fmt.Errorf("weaviate index %s: incremental add must go through BatchInsert", s.class)
}

func (s *WeaviateIndex) Len() int {
	count, err := s.count(context.Background())
	if err != nil {
		return 0
	}
	return count
}

// FetchDocuments pulls every stored document so a weaviate-backed domain can
// serve the same index/store contract as the memory backend.
func (s *WeaviateIndex) FetchDocuments(ctx context.Context, limit int) ([]types.Document, error) {
	result, err := s.client.GraphQL().Get().
		WithClassName(s.class).
		WithFields(
			graphql.Field{Name: "docId"},
			graphql.Field{Name: "text"},
			graphql.Field{Name: "section"},
			graphql.Field{Name: "title"},
			graphql.Field{Name: "law"},
			graphql.Field{Name: "category"},
		).
		WithLimit(limit).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch documents: %w", err)
	}
	if result.Errors != nil {
		return nil, fmt.Errorf("failed to fetch documents: %v", result.Errors[0].Message)
	}

	var docs []types.Document
	if data, ok := result.Data["Get"].(map[string]interface{})[s.class].([]interface{}); ok {
		for _, item := range data {
			obj, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			docs = append(docs, documentFromProperties(obj))
		}
	}
	return docs, nil
}

func (s *WeaviateIndex) count(ctx context.Context) (int, error) {
	result, err := s.client.GraphQL().Aggregate().
		WithClassName(s.class).
		WithFields(graphql.Field{Name: "meta", Fields: []graphql.Field{{Name: "count"}}}).
		Do(ctx)
	if err != nil {
		return 0, fmt.Errorf("weaviate aggregate failed: %w", err)
	}
	if result.Errors != nil {
		return 0, fmt.Errorf("weaviate aggregate failed: %v", result.Errors[0].Message)
	}
	if data, ok := result.Data["Aggregate"].(map[string]interface{})[s.class].([]interface{}); ok && len(data) > 0 {
		if obj, ok := data[0].(map[string]interface{}); ok {
			if meta, ok := obj["meta"].(map[string]interface{}); ok {
				if count, ok := meta["count"].(float64); ok {
					return int(count), nil
				}
			}
		}
	}
	return 0, nil
}

func documentProperties(doc types.Document) map[string]interface{} {
	return map[string]interface{}{
		"docId":    doc.ID,
		"text":     doc.Text,
		"section":  doc.Metadata[types.MetaSection],
		"title":    doc.Metadata[types.MetaTitle],
		"law":      doc.Metadata[types.MetaLaw],
		"category": doc.Metadata[types.MetaCategory],
	}
}

func documentFromProperties(obj map[string]interface{}) types.Document {
	str := func(key string) string {
		if v, ok := obj[key].(string); ok {
			return v
		}
		return ""
	}
	metadata := make(map[string]string)
	for _, key := range []string{types.MetaSection, types.MetaTitle, types.MetaLaw, types.MetaCategory} {
		if v := str(key); v != "" {
			metadata[key] = v
		}
	}
	return types.Document{
		ID:       str("docId"),
		Text:     str("text"),
		Metadata: metadata,
	}
}

// LoadWeaviateDomain builds a weaviate-backed domain: the documents are
// mirrored into an in-memory store at load time so a resolved domain always
// exposes a consistent index/store pair.
func LoadWeaviateDomain(ctx context.Context, name string, aliases []string, cfg WeaviateConfig) (*Domain, error) {
	index, err := NewWeaviateIndex(cfg)
	if err != nil {
		return nil, err
	}
	docs, err := index.FetchDocuments(ctx, 10000)
	if err != nil {
		return nil, err
	}
	return &Domain{
		Name:    name,
		Aliases: aliases,
		Index:   index,
		Docs:    NewDocumentStore(docs),
	}, nil
}
