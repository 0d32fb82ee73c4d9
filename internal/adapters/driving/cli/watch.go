package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ferrule-labs/quaero/internal/connectors/filesystem"
	"github.com/ferrule-labs/quaero/internal/logger"
)

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Watch a directory and ingest text files as they appear",
	Long: `Watch monitors a directory and ingests every text file that is
created or modified in it. Writes are debounced, so a file is only
ingested once it has settled. Stop with Ctrl-C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if err := initServices(true); err != nil {
		return err
	}
	if ingestService == nil {
		return errors.New("ingest service not initialized")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher := filesystem.NewWatcher(args[0], func(path string) {
		if err := ingestPath(cmd, path); err != nil {
			logger.Warn("Ingesting %s failed: %v", path, err)
		}
	})

	cmd.Printf("Watching %s (Ctrl-C to stop)\n", args[0])

	if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
