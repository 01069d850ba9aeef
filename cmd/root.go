package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lumina",
	Short: "A personal photo gallery with AI captioning and hybrid search",
	Long: `Lumina ingests photos, fingerprints them against the existing gallery,
captions them with a vision model, and makes them searchable through a
hybrid of full-text and semantic retrieval.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}
