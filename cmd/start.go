/*
Copyright © 2025 lawai
*/
package cmd

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/lawai/lawai-be/config"
	"github.com/lawai/lawai-be/handler"
	"github.com/lawai/lawai-be/logger"
	"github.com/lawai/lawai-be/repository"
	"github.com/lawai/lawai-be/service"
	"github.com/lawai/lawai-be/store"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the legal assistant server",
	Long:  `Loads every configured domain and serves the query API.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		zlog := logger.New(cfg.Development)
		defer zlog.Sync()

		router := store.NewRouter()
		for _, dc := range cfg.Domains {
			dc := dc
			var loader store.DomainLoader
			switch dc.BackendOrDefault() {
			case config.BackendWeaviate:
				loader = func() (*store.Domain, error) {
					return store.LoadWeaviateDomain(context.Background(), dc.Name, dc.Aliases, store.WeaviateConfig{
						Host:   cfg.Weaviate.Host,
						APIKey: cfg.Weaviate.APIKey,
						Class:  cfg.Weaviate.Class,
					})
				}
			default:
				loader = func() (*store.Domain, error) {
					return store.LoadDomain(dc.Name, dc.Aliases, dc.Path)
				}
			}
			if err := router.Register(dc.Name, dc.Aliases, loader); err != nil {
				zlog.Fatalw("failed to register domain", "domain", dc.Name, "error", err)
			}
		}
		if err := router.LoadAll(); err != nil {
			zlog.Fatalw("failed to load domains", "error", err)
		}
		zlog.Infow("domains loaded", "count", len(router.Domains()))

		model, embedder := buildModel(cfg, zlog)
		model = service.WithRetry(model, service.RetryPolicy{
			MaxAttempts: cfg.RetryAttempts,
			Backoff:     cfg.RetryBackoff,
		})

		defaultDomains := router.Names()
		if cfg.DefaultDomain != "" {
			defaultDomains = []string{cfg.DefaultDomain}
		}

		pipeline := service.NewPipeline(
			service.NewReformulator(model, zlog),
			service.NewRetriever(router, embedder, cfg.TopK, cfg.RetrievalTimeout, zlog),
			service.NewGenerator(model, cfg.FallbackAnswer, cfg.GenerationTimeout, zlog),
			defaultDomains,
			zlog,
		)

		var chatRepo repository.ChatRepo
		if cfg.MongoURI != "" {
			client, err := mongo.Connect(options.Client().ApplyURI(cfg.MongoURI))
			if err != nil {
				zlog.Fatalw("failed to connect to MongoDB", "error", err)
			}
			chatRepo = repository.NewChatRepo(client.Database("lawai"))
			zlog.Info("chat transcript persistence enabled")
		}

		corsHandler := handler.NewCorsHandler(cfg.AllowOrigin)
		queryHandler := handler.NewQueryHandler(pipeline, chatRepo, zlog)
		healthHandler := handler.NewHealthHandler(router)
		reloadHandler := handler.NewReloadHandler(router, zlog)
		wsService := service.NewWebSocketService(pipeline, zlog)

		if !cfg.Development {
			gin.SetMode(gin.ReleaseMode)
		}
		engine := gin.Default()
		engine.Use(corsHandler.CorsMiddleware)

		apiV1 := engine.Group("/api/v1")
		{
			apiV1.GET("/health", healthHandler.HandleHealth)
			apiV1.GET("/domains", healthHandler.HandleDomains)
			apiV1.POST("/query", queryHandler.HandleQuery)
			apiV1.POST("/query-stream", queryHandler.HandleQueryStream)
			apiV1.POST("/reload", reloadHandler.HandleReload)
			apiV1.GET("/ws", func(c *gin.Context) {
				wsService.HandleQuery(c.Writer, c.Request)
			})
		}

		zlog.Infow("starting server", "port", cfg.Port)
		if err := engine.Run(":" + cfg.Port); err != nil {
			zlog.Fatalw("server error", "error", err)
		}
	},
}

// buildModel picks the configured language model provider. The embedding
// provider is always OpenAI-compatible; it must match the model that built
// the snapshots.
func buildModel(cfg *config.Config, zlog *zap.SugaredLogger) (service.LanguageModel, service.EmbeddingProvider) {
	openaiSvc := service.NewOpenAIService(cfg.AIEndpoint, cfg.OpenAIAPIKey, cfg.Model, cfg.EmbeddingModel)
	switch cfg.AIProvider {
	case config.ProviderGemini:
		gemini, err := service.NewGeminiService(cfg.GeminiAPIKeys, cfg.Model)
		if err != nil {
			zlog.Fatalw("failed to create Gemini client", "error", err)
		}
		return gemini, openaiSvc
	default:
		return openaiSvc, openaiSvc
	}
}

func init() {
	rootCmd.AddCommand(startCmd)
}
