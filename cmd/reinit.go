/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/tieubaoca/second-brain-be/config"
	"github.com/tieubaoca/second-brain-be/database"
)

// reinitCmd represents the reinit command
var reinitCmd = &cobra.Command{
	Use:   "reinit",
	Short: "Drop and recreate the vector store schema",
	Long:  `Deletes the MemoryChunk class and all indexed chunks, then recreates the schema.`,
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

		if err := weaviateDb.ReInit(); err != nil {
			log.Fatalf("Failed to reinitialize vector store: %v", err)
		}
		log.Println("Vector store schema recreated")
	},
}

func init() {
	rootCmd.AddCommand(reinitCmd)
	reinitCmd.Flags().StringP("config", "c", "config/config.yaml", "config file")
}
