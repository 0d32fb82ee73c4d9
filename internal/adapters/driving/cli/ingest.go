package cli

import (
	"errors"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ferrule-labs/quaero/internal/connectors/filesystem"
	"github.com/ferrule-labs/quaero/internal/core/domain"
)

var (
	ingestURL   string
	ingestText  string
	ingestTitle string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file]",
	Short: "Add content to the knowledge base",
	Long: `Ingest adds content to the knowledge base. Give it a text file,
a URL via --url, or raw text via --text. The content is chunked,
embedded and stored in the local vector index.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestURL, "url", "", "ingest the readable content of a web page")
	ingestCmd.Flags().StringVar(&ingestText, "text", "", "ingest raw text directly")
	ingestCmd.Flags().StringVar(&ingestTitle, "title", "", "title for the ingested source")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	sources := 0
	if len(args) > 0 {
		sources++
	}
	if ingestURL != "" {
		sources++
	}
	if ingestText != "" {
		sources++
	}
	if sources != 1 {
		return errors.New("provide exactly one of a file path, --url or --text")
	}

	if err := initServices(true); err != nil {
		return err
	}
	if ingestService == nil {
		return errors.New("ingest service not initialized")
	}

	ctx := cmd.Context()

	if ingestURL != "" {
		chunks, err := ingestService.IngestURL(ctx, ingestURL)
		if err != nil {
			return err
		}
		cmd.Printf("Ingested %s (%d chunks)\n", ingestURL, chunks)
		return nil
	}

	if ingestText != "" {
		title := ingestTitle
		if title == "" {
			title = "pasted text"
		}
		ref := domain.SourceRef{
			ID:    uuid.NewString(),
			Kind:  domain.SourceKindDocument,
			Title: title,
		}
		chunks, err := ingestService.Ingest(ctx, ingestText, ref)
		if err != nil {
			return err
		}
		cmd.Printf("Ingested %q (%d chunks)\n", title, chunks)
		return nil
	}

	text, ref, err := filesystem.ReadFile(args[0])
	if err != nil {
		return err
	}
	if ingestTitle != "" {
		ref.Title = ingestTitle
	}
	chunks, err := ingestService.Ingest(ctx, text, ref)
	if err != nil {
		return err
	}
	cmd.Printf("Ingested %s (%d chunks)\n", ref.Title, chunks)
	return nil
}

// ingestPath is the shared file-ingest entry used by watch mode.
func ingestPath(cmd *cobra.Command, path string) error {
	text, ref, err := filesystem.ReadFile(path)
	if err != nil {
		return err
	}
	chunks, err := ingestService.Ingest(cmd.Context(), text, ref)
	if err != nil {
		return err
	}
	cmd.Printf("Ingested %s (%d chunks)\n", ref.Title, chunks)
	return nil
}
