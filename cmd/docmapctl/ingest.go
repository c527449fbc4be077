package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docmap/internal/app"
	"github.com/dgallion1/docmap/internal/config"
	"github.com/dgallion1/docmap/internal/pipeline"
	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <blob_url|blob_name|path>",
	Short: "Build and store the knowledge map of a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	url, name := docArg(args[0])
	res, err := a.Ingestor.Ingest(cmd.Context(), pipeline.IngestRequest{BlobURL: url, BlobName: name})
	if err != nil {
		return err
	}
	return outputJSON(cmd.OutOrStdout(), res)
}

func openApp(ctx context.Context) (*app.App, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return app.New(ctx, cfg, newLogger(), app.WithLocalFiles())
}

// docArg interprets a document argument as a URL, an existing local file or
// a blob name, in that order.
func docArg(arg string) (url, name string) {
	if strings.Contains(arg, "://") {
		return arg, ""
	}
	if _, err := os.Stat(arg); err == nil {
		if abs, err := filepath.Abs(arg); err == nil {
			return "file://" + filepath.ToSlash(abs), ""
		}
	}
	return "", arg
}
