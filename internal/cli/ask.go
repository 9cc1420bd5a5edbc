package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

// NewAskCmd creates the ask command, which answers a single natural-language prompt.
func NewAskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <prompt>",
		Short: "Answer a single question",
		Long: `Answers one natural-language question. Recognized questions:

  What is the balance for client <id> in year <yyyy>?
  Show transactions for client <id> in year <yyyy>
  Show all transactions related to <category>
  Client reports for <category>
  What is the average transaction? (also "mean transaction amount",
  "typical transaction value")`,
		Example: `  finquery ask "What is the balance for client C001 in year 2023?"
  finquery ask show all transactions related to rent`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := newSession(cmd)
			if err != nil {
				return err
			}
			return sess.ask(cmd.Context(), strings.Join(args, " "))
		},
	}
}
