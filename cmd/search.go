package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mvillareal/lumina/internal/gallery"
	"github.com/mvillareal/lumina/internal/web/middleware"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>...",
	Short: "Search the gallery",
	Long: `Search the gallery with hybrid full-text and semantic retrieval.

An empty query lists the whole gallery, newest first.

Example:
  lumina search red car at night
  lumina search --full-text-weight 2 birthday cake`,
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().Float64("full-text-weight", -1, "Lexical signal weight (negative for default)")
	searchCmd.Flags().Float64("semantic-weight", -1, "Semantic signal weight (negative for default)")
	searchCmd.Flags().String("owner", middleware.DefaultOwner, "Gallery owner to search")
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	owner := mustGetString(cmd, "owner")

	req := gallery.SearchRequest{Query: query}
	if w := mustGetFloat64(cmd, "full-text-weight"); w >= 0 {
		req.FullTextWeight = &w
	}
	if w := mustGetFloat64(cmd, "semantic-weight"); w >= 0 {
		req.SemanticWeight = &w
	}

	log := logrus.New()
	log.SetOutput(io.Discard)

	svc, cleanup, err := buildService(log)
	if err != nil {
		return err
	}
	defer cleanup()

	resp, err := svc.Search(context.Background(), owner, req)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if resp.Count == 0 {
		fmt.Println("No matching photos.")
		return nil
	}

	if resp.SearchType == "hybrid" {
		fmt.Printf("%d match(es) for %q (weights: full-text %.2f, semantic %.2f)\n\n",
			resp.Count, resp.Query, resp.Weights.FullText, resp.Weights.Semantic)
	} else {
		fmt.Printf("%d photo(s)\n\n", resp.Count)
	}

	for i, result := range resp.Results {
		photo := result.Photo
		if resp.SearchType == "hybrid" {
			fmt.Printf("%2d. %s  (score %.4f)\n", i+1, photo.FileName, result.Score)
		} else {
			fmt.Printf("%2d. %s\n", i+1, photo.FileName)
		}
		fmt.Printf("    %s\n", photo.Literal)
		if len(photo.Tags) > 0 {
			fmt.Printf("    tags: %s\n", strings.Join(photo.Tags, ", "))
		}
		fmt.Printf("    id: %s\n", photo.ID)
	}
	return nil
}
