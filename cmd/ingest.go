/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"context"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/tieubaoca/second-brain-be/config"
	"github.com/tieubaoca/second-brain-be/database"
	"github.com/tieubaoca/second-brain-be/service"
	"github.com/tieubaoca/second-brain-be/types"
	"github.com/tieubaoca/second-brain-be/utils"
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Index a plain-text file into the Second Brain",
	Long: `Reads a plain-text file (already extracted from its original PDF, web page
or audio source), chunks it and writes the chunks to the vector store. The
original file is archived with a timestamp suffix.`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		filePath, _ := cmd.Flags().GetString("file")
		source, _ := cmd.Flags().GetString("source")
		docType, _ := cmd.Flags().GetString("type")
		createdAt, _ := cmd.Flags().GetString("created-at")

		if filePath == "" {
			log.Fatal("--file is required")
		}
		if !types.ValidDocumentType(docType) {
			log.Fatalf("invalid document type %q, must be one of pdf, web, audio", docType)
		}

		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		text, err := os.ReadFile(filePath)
		if err != nil {
			log.Fatalf("Failed to read file: %v", err)
		}

		weaviateDb, err := database.NewWeaviateStore(cfg.WeaviateStoreConfig)
		if err != nil {
			log.Fatalf("Failed to connect to Weaviate database: %v", err)
		}

		chunker := service.NewChunker(types.ChunkerConfig{
			MaxChunkSize: cfg.ChunkSize,
			OverlapSize:  cfg.ChunkOverlap,
		})
		brain := service.NewBrainService(weaviateDb, nil, nil, chunker, nil)

		if source == "" {
			source = filePath
		}
		err = brain.AddDocument(context.Background(), string(text), types.DocumentMetadata{
			Source:    source,
			Type:      docType,
			CreatedAt: createdAt,
		})
		if err != nil {
			log.Fatalf("Failed to ingest document: %v", err)
		}

		archived, err := utils.ArchiveFile(filePath, cfg.ArchiveDir)
		if err != nil {
			log.Printf("Warning: failed to archive %s: %v", filePath, err)
		} else {
			log.Println("Archived ingested file to", archived)
		}

		log.Println("Ingested", source)
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().StringP("config", "c", "config/config.yaml", "config file")
	ingestCmd.Flags().StringP("file", "f", "", "Path to the plain-text file to ingest")
	ingestCmd.Flags().StringP("source", "s", "", "Source identifier (defaults to the file path)")
	ingestCmd.Flags().StringP("type", "t", types.DocumentTypePDF, "Document type: pdf, web or audio")
	ingestCmd.Flags().String("created-at", "", "ISO-8601 creation timestamp (defaults to now)")
}
