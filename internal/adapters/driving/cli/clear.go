package cli

import (
	"bufio"
	"errors"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var clearYes bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete everything from the knowledge base",
	Long: `Clear removes all entries from the vector index and the source
registry. The deletion is permanent; without --yes it asks for
confirmation first.`,
	Args: cobra.NoArgs,
	RunE: runClear,
}

func init() {
	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "skip the confirmation prompt")
	rootCmd.AddCommand(clearCmd)
}

func runClear(cmd *cobra.Command, _ []string) error {
	if err := initServices(false); err != nil {
		return err
	}
	if adminService == nil {
		return errors.New("admin service not initialized")
	}

	if !clearYes {
		ok, err := confirmClear(cmd)
		if err != nil {
			return err
		}
		if !ok {
			cmd.Println("Aborted.")
			return nil
		}
	}

	if err := adminService.Clear(cmd.Context()); err != nil {
		return err
	}
	cmd.Println("Knowledge base cleared.")
	return nil
}

// confirmClear asks for confirmation on stdin. Without a terminal the
// prompt cannot be answered, so it refuses rather than assuming yes.
func confirmClear(cmd *cobra.Command) (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, errors.New("refusing to clear without confirmation; pass --yes to proceed")
	}

	cmd.Print("This permanently deletes the entire knowledge base. Continue? [y/N] ")

	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil {
		return false, err
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
