package cli

import (
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show knowledge base statistics",
	Long: `Stats reports the size of the vector index, the number of ingested
sources and the call counters of the embedding and generation clients.`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output statistics as JSON")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	if err := initServices(false); err != nil {
		return err
	}
	if adminService == nil {
		return errors.New("admin service not initialized")
	}

	stats, err := adminService.Stats(cmd.Context())
	if err != nil {
		return err
	}

	if statsJSON {
		return printJSON(cmd, stats)
	}

	cmd.Println("Knowledge base")
	cmd.Printf("  Entries:     %d\n", stats.Index.Entries)
	cmd.Printf("  Dimensions:  %d\n", stats.Index.Dimensions)
	cmd.Printf("  Sources:     %d\n", stats.Sources)
	cmd.Printf("  Index file:  %s\n", stats.Index.Path)
	if !stats.Index.LastPersisted.IsZero() {
		cmd.Printf("  Persisted:   %s\n", stats.Index.LastPersisted.Format("2006-01-02 15:04:05"))
	}
	cmd.Println("Embedding client")
	cmd.Printf("  Calls: %d  Retries: %d  Consecutive failures: %d\n",
		stats.Embedding.Calls, stats.Embedding.Retries, stats.Embedding.ConsecutiveFailures)
	cmd.Println("Generation client")
	cmd.Printf("  Calls: %d  Retries: %d  Consecutive failures: %d\n",
		stats.Generation.Calls, stats.Generation.Retries, stats.Generation.ConsecutiveFailures)
	return nil
}

// printJSON writes v to the command's output as indented JSON.
func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	cmd.Println(string(data))
	return nil
}
