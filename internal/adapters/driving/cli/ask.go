package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
)

var askJSON bool

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question over the knowledge base",
	Long: `Ask retrieves the most relevant chunks from the knowledge base,
builds a grounded prompt and returns the model's answer together
with citations of the sources used.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if err := initServices(true); err != nil {
		return err
	}
	if answerService == nil {
		return errors.New("answer service not initialized")
	}

	question := strings.Join(args, " ")

	answer, err := answerService.Ask(cmd.Context(), question)
	if err != nil {
		return err
	}

	if askJSON {
		return printJSON(cmd, answer)
	}

	cmd.Println(answer.Text)

	if len(answer.Citations) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		for _, c := range answer.Citations {
			cmd.Printf("  - %s (%.3f)\n", c.Source.Title, c.Score)
		}
	}
	return nil
}
