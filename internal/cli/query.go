package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rshade/finquery/internal/router"
)

// queryFlags holds the client/year selection shared by balance and transactions.
type queryFlags struct {
	client string
	year   string
}

func (f *queryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.client, "client", "", "client ID (required)")
	cmd.Flags().StringVar(&f.year, "year", "", "four-digit year (required)")
	_ = cmd.MarkFlagRequired("client")
	_ = cmd.MarkFlagRequired("year")
}

// NewBalanceCmd creates the balance command.
func NewBalanceCmd() *cobra.Command {
	var flags queryFlags

	cmd := &cobra.Command{
		Use:     "balance",
		Short:   "Show a client's account balance for a year",
		Example: `  finquery balance --client C001 --year 2023`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := newSession(cmd)
			if err != nil {
				return err
			}
			resp := router.Response{
				Intent: router.Intent{Kind: router.IntentBalance, ClientID: flags.client, Year: flags.year},
			}
			res, qErr := sess.engine.QueryClientBalance(flags.client, flags.year)
			if qErr == nil {
				resp.Balance = &res
			}
			return sess.renderer.Response(resp, qErr)
		},
	}
	flags.register(cmd)
	return cmd
}

// NewTransactionsCmd creates the transactions command.
func NewTransactionsCmd() *cobra.Command {
	var flags queryFlags

	cmd := &cobra.Command{
		Use:     "transactions",
		Short:   "List a client's transactions for a year",
		Example: `  finquery transactions --client C001 --year 2023 --output json`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := newSession(cmd)
			if err != nil {
				return err
			}
			resp := router.Response{
				Intent: router.Intent{Kind: router.IntentTransactions, ClientID: flags.client, Year: flags.year},
			}
			res, qErr := sess.engine.QueryTransactions(flags.client, flags.year)
			if qErr == nil {
				resp.Transactions = &res
			}
			return sess.renderer.Response(resp, qErr)
		},
	}
	flags.register(cmd)
	return cmd
}

// NewCategoryCmd creates the category command. Matching is a case-insensitive
// substring test on transaction descriptions.
func NewCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "category <text>",
		Short:   "List every transaction whose description contains text",
		Example: `  finquery category "office supplies"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			category := strings.ToLower(strings.TrimSpace(strings.Join(args, " ")))
			if category == "" {
				return errors.New("category cannot be empty")
			}

			sess, err := newSession(cmd)
			if err != nil {
				return err
			}
			res := sess.engine.QueryCategoryReports(category)
			return sess.renderer.Response(router.Response{
				Intent:   router.Intent{Kind: router.IntentCategory, Category: category},
				Category: &res,
			}, nil)
		},
	}
}

// NewAverageCmd creates the average command.
func NewAverageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "average",
		Short: "Show the mean amount per transaction description",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := newSession(cmd)
			if err != nil {
				return err
			}
			res := sess.engine.QueryAverageTransaction()
			return sess.renderer.Response(router.Response{
				Intent:  router.Intent{Kind: router.IntentAverage},
				Average: &res,
			}, nil)
		},
	}
}
