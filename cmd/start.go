/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/tieubaoca/second-brain-be/config"
	"github.com/tieubaoca/second-brain-be/database"
	"github.com/tieubaoca/second-brain-be/handler"
	"github.com/tieubaoca/second-brain-be/repository"
	"github.com/tieubaoca/second-brain-be/service"
	"github.com/tieubaoca/second-brain-be/types"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the Second Brain API server",
	Long:  `Starts the server exposing document ingestion, search and question answering`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		weaviateDb, err := database.NewWeaviateStore(cfg.WeaviateStoreConfig)
		if err != nil {
			log.Fatalf("Failed to connect to Weaviate database: %v", err)
		}

		// Primary tier is optional: without a key, queries degrade to a
		// notice carrying the raw context instead of failing.
		var primary service.PrimaryAI
		if len(cfg.GoogleAPIKeys) > 0 {
			geminiService, err := service.NewGeminiService(cfg.GoogleAPIKeys, cfg.GeminiModel)
			if err != nil {
				log.Printf("Warning: failed to initialize Gemini client: %v", err)
			} else {
				primary = geminiService
			}
		} else {
			log.Println("Warning: GOOGLE_API_KEY not found.")
		}

		// The local tier is probed once at startup; if the server is not
		// reachable it stays unavailable for the process lifetime.
		var local service.LocalAI
		if cfg.LocalAIEndpoint != "" {
			localService := service.NewLocalAIService(cfg.LocalAIEndpoint, "", cfg.LocalAIModel)
			pingCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := localService.Ping(pingCtx); err != nil {
				log.Printf("Warning: could not reach local model at %s: %v", cfg.LocalAIEndpoint, err)
			} else {
				log.Println("Local fallback model is available")
				local = localService
			}
			cancel()
		}

		// Document registry is optional as well
		var documentRepo repository.DocumentRepo
		if cfg.MongoURI != "" {
			mongoCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			mongoClient, err := database.NewMongoClient(mongoCtx, cfg.MongoURI)
			cancel()
			if err != nil {
				log.Printf("Warning: document registry unavailable: %v", err)
			} else {
				documentRepo = repository.NewDocumentRepo(mongoClient.Database("second_brain").Collection("documents"))
			}
		}

		chunker := service.NewChunker(types.ChunkerConfig{
			MaxChunkSize: cfg.ChunkSize,
			OverlapSize:  cfg.ChunkOverlap,
		})
		brain := service.NewBrainService(weaviateDb, primary, local, chunker, documentRepo)

		// Initialize handlers
		corsHandler := handler.NewCorsHandler()
		askHandler := handler.NewAskHandler(brain)
		documentHandler := handler.NewDocumentHandler(brain, documentRepo)
		searchHandler := handler.NewSearchHandler(brain)
		wsService := service.NewWebSocketService(brain)

		// Setup Gin router
		router := gin.Default()

		// Apply global middleware
		router.Use(corsHandler.CorsMiddleware)

		apiV1 := router.Group("/api/v1")
		{
			apiV1.POST("/ask", askHandler.HandleAsk)
			apiV1.POST("/documents", documentHandler.HandleIngest)
			apiV1.GET("/documents", documentHandler.HandleListDocuments)
			apiV1.GET("/documents/search", searchHandler.HandleSearch)
		}

		router.GET("/ws/ask", func(c *gin.Context) {
			wsService.HandleAsk(c.Writer, c.Request)
		})
		router.GET("/health", func(c *gin.Context) {
			c.String(200, "OK")
		})

		log.Printf("Starting server on port %s...\n", cfg.Port)
		if err := router.Run(":" + cfg.Port); err != nil {
			log.Fatal("Server error:", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
	startCmd.Flags().StringP("config", "c", "config/config.yaml", "config file")
}
