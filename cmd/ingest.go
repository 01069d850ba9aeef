package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mvillareal/lumina/internal/gallery"
	"github.com/mvillareal/lumina/internal/web/middleware"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <folder-path> [folder-path...]",
	Short: "Ingest photos from local folders",
	Long: `Ingest photos from one or more folders into the gallery.

Each photo is fingerprinted against the existing gallery, captioned with
the vision model, embedded, and stored. Near-duplicates are skipped.

By default, only files in the specified folders are ingested (non-recursive).
Use -r to search recursively in subdirectories.
Supported formats: jpg, jpeg, png, gif, heic, webp, bmp

Example:
  lumina ingest /path/to/photos
  lumina ingest -r --note "summer 2025" /path/to/photos`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	ingestCmd.Flags().BoolP("recursive", "r", false, "Search for photos recursively in subdirectories")
	ingestCmd.Flags().String("note", "", "Manual note to attach to every ingested photo")
	ingestCmd.Flags().String("owner", middleware.DefaultOwner, "Gallery owner to ingest into")
}

// isImageFile checks if a file has a supported image extension
func isImageFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	supported := map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".gif":  true,
		".heic": true,
		".webp": true,
		".bmp":  true,
	}
	return supported[ext]
}

// collectImageFiles gathers image paths from the given folders.
func collectImageFiles(folderPaths []string, recursive bool) ([]string, error) {
	var filePaths []string
	for _, folderPath := range folderPaths {
		info, err := os.Stat(folderPath)
		if err != nil {
			return nil, fmt.Errorf("cannot access folder %s: %w", folderPath, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", folderPath)
		}

		if recursive {
			err := filepath.WalkDir(folderPath, func(path string, d os.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if !d.IsDir() && isImageFile(d.Name()) {
					filePaths = append(filePaths, path)
				}
				return nil
			})
			if err != nil {
				return nil, fmt.Errorf("cannot walk folder %s: %w", folderPath, err)
			}
		} else {
			entries, err := os.ReadDir(folderPath)
			if err != nil {
				return nil, fmt.Errorf("cannot read folder %s: %w", folderPath, err)
			}
			for _, entry := range entries {
				if entry.IsDir() {
					continue
				}
				if isImageFile(entry.Name()) {
					filePaths = append(filePaths, filepath.Join(folderPath, entry.Name()))
				}
			}
		}
	}
	return filePaths, nil
}

func newIngestBar(total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription("Ingesting"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("photos"),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

func runIngest(cmd *cobra.Command, args []string) error {
	recursive := mustGetBool(cmd, "recursive")
	note := mustGetString(cmd, "note")
	owner := mustGetString(cmd, "owner")

	filePaths, err := collectImageFiles(args, recursive)
	if err != nil {
		return err
	}
	if len(filePaths) == 0 {
		fmt.Println("No image files found in the specified folders.")
		return nil
	}

	fmt.Printf("Found %d image(s) to ingest from %d folder(s)\n", len(filePaths), len(args))

	// The progress bar owns stdout, so keep the service quiet.
	log := logrus.New()
	log.SetOutput(io.Discard)

	svc, cleanup, err := buildService(log)
	if err != nil {
		return err
	}
	defer cleanup()

	bar := newIngestBar(len(filePaths))
	ctx := context.Background()

	var (
		ingested   int
		duplicates []string
		failures   []string
	)
	for _, filePath := range filePaths {
		fileName := filepath.Base(filePath)

		data, err := os.ReadFile(filePath)
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", fileName, err))
			bar.Add(1)
			continue
		}

		_, err = svc.Ingest(ctx, owner, gallery.UploadInput{
			FileName:   fileName,
			Data:       data,
			ManualNote: note,
		})
		if err != nil {
			var dup *gallery.DuplicateError
			if errors.As(err, &dup) {
				duplicates = append(duplicates, fmt.Sprintf("%s: %v", fileName, dup))
			} else {
				failures = append(failures, fmt.Sprintf("%s: %v", fileName, err))
			}
			bar.Add(1)
			continue
		}
		ingested++
		bar.Add(1)
	}
	fmt.Println()

	for _, msg := range duplicates {
		fmt.Printf("Skipped: %s\n", msg)
	}
	for _, msg := range failures {
		fmt.Printf("Failed: %s\n", msg)
	}

	fmt.Printf("\nIngested %d, skipped %d duplicate(s), %d failure(s)\n",
		ingested, len(duplicates), len(failures))

	if ingested == 0 && len(failures) > 0 {
		return fmt.Errorf("no photos were ingested successfully")
	}
	return nil
}
