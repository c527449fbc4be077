package main

import (
	"strings"

	"github.com/dgallion1/docmap/internal/pipeline"
	"github.com/spf13/cobra"
)

var queryCmd = &cobra.Command{
	Use:   "query <blob_url|blob_name|path> <question...>",
	Short: "Answer a question about an ingested document",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	url, name := docArg(args[0])
	answer, err := a.Engine.Answer(cmd.Context(), pipeline.QueryRequest{
		Query:    strings.Join(args[1:], " "),
		BlobURL:  url,
		BlobName: name,
	})
	if err != nil {
		return err
	}
	return outputJSON(cmd.OutOrStdout(), answer)
}
