/*
Copyright © 2025 lawai
*/
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/lawai/lawai-be/config"
	"github.com/lawai/lawai-be/service"
	"github.com/lawai/lawai-be/store"
	"github.com/lawai/lawai-be/types"
	"github.com/spf13/cobra"
)

const embedBatchSize = 100

// buildIndexCmd represents the build-index command
var buildIndexCmd = &cobra.Command{
	Use:   "build-index",
	Short: "Build a domain's vector snapshot from a corpus file",
	Long: `Reads a corpus file (a JSON array of {id, text, metadata} records),
embeds every record, and writes the domain snapshot consumed by the server.
For a weaviate-backed domain the records are pushed to the remote class
instead of a local snapshot file.`,
	Run: func(cmd *cobra.Command, args []string) {
		domainName, _ := cmd.Flags().GetString("domain")
		corpusPath, _ := cmd.Flags().GetString("corpus")
		reset, _ := cmd.Flags().GetBool("reset")

		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		var domainCfg *config.DomainConfig
		for i := range cfg.Domains {
			if cfg.Domains[i].Name == domainName {
				domainCfg = &cfg.Domains[i]
				break
			}
		}
		if domainCfg == nil {
			log.Fatalf("Domain %q is not configured", domainName)
		}

		docs, err := readCorpus(corpusPath)
		if err != nil {
			log.Fatalf("Failed to read corpus: %v", err)
		}
		log.Printf("Loaded %d corpus records from %s", len(docs), corpusPath)

		embedder := service.NewOpenAIService(cfg.AIEndpoint, cfg.OpenAIAPIKey, cfg.Model, cfg.EmbeddingModel)
		vectors, err := embedAll(context.Background(), embedder, docs)
		if err != nil {
			log.Fatalf("Failed to embed corpus: %v", err)
		}

		switch domainCfg.BackendOrDefault() {
		case config.BackendWeaviate:
			index, err := store.NewWeaviateIndex(store.WeaviateConfig{
				Host:   cfg.Weaviate.Host,
				APIKey: cfg.Weaviate.APIKey,
				Class:  cfg.Weaviate.Class,
			})
			if err != nil {
				log.Fatalf("Failed to create weaviate client: %v", err)
			}
			if err := index.EnsureClass(context.Background(), reset); err != nil {
				log.Fatalf("Failed to ensure weaviate class: %v", err)
			}
			if err := index.BatchInsert(context.Background(), docs, vectors); err != nil {
				log.Fatalf("Failed to insert documents: %v", err)
			}
			log.Printf("Inserted %d documents into weaviate class", len(docs))

		default:
			snap := &store.Snapshot{Dimension: len(vectors[0])}
			for i, doc := range docs {
				snap.Records = append(snap.Records, store.SnapshotRecord{
					ID:       doc.ID,
					Text:     doc.Text,
					Metadata: doc.Metadata,
					Vector:   store.Normalize(vectors[i]),
				})
			}
			if err := store.WriteSnapshot(domainCfg.Path, snap); err != nil {
				log.Fatalf("Failed to write snapshot: %v", err)
			}
			log.Printf("Wrote snapshot with %d records to %s", len(docs), domainCfg.Path)
		}
	},
}

func readCorpus(path string) ([]types.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var docs []types.Document
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("failed to parse corpus file: %w", err)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("corpus file %s contains no records", path)
	}
	for i, doc := range docs {
		if doc.ID == "" || doc.Text == "" {
			return nil, fmt.Errorf("corpus record %d is missing id or text", i)
		}
	}
	return docs, nil
}

func embedAll(ctx context.Context, embedder service.EmbeddingProvider, docs []types.Document) ([][]float32, error) {
	vectors := make([][]float32, 0, len(docs))
	for i := 0; i < len(docs); i += embedBatchSize {
		end := i + embedBatchSize
		if end > len(docs) {
			end = len(docs)
		}
		texts := make([]string, 0, end-i)
		for _, doc := range docs[i:end] {
			texts = append(texts, doc.Text)
		}
		batch, err := embedder.Embed(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("failed to embed batch %d-%d: %w", i, end, err)
		}
		vectors = append(vectors, batch...)
		log.Printf("Embedded batch %d-%d of %d records", i, end, len(docs))
	}
	return vectors, nil
}

func init() {
	rootCmd.AddCommand(buildIndexCmd)

	buildIndexCmd.Flags().StringP("domain", "d", "", "Name of the configured domain to build")
	buildIndexCmd.Flags().StringP("corpus", "c", "", "Path to the corpus JSON file")
	buildIndexCmd.Flags().BoolP("reset", "r", false, "Drop the existing weaviate class first")
	buildIndexCmd.MarkFlagRequired("domain")
	buildIndexCmd.MarkFlagRequired("corpus")
}
