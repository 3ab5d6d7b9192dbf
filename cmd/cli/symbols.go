package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/datashield/datashield-go/internal/session"
)

var symbolsCmd = &cobra.Command{
	Use:     "symbols",
	Aliases: []string{"ls"},
	Short:   "List the symbols of every R session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *session.Session) error {
			return printSymbols(ctx, cmd, s)
		})
	},
}

var removeSymbolCmd = &cobra.Command{
	Use:   "rm SYMBOL",
	Short: "Remove a symbol from every R session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *session.Session) error {
			if err := s.RemoveSymbol(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("Symbol %s removed", args[0])))
			return nil
		})
	},
}

func printSymbols(ctx context.Context, cmd *cobra.Command, s *session.Session) error {
	symbols, err := s.Symbols(ctx)
	if err != nil {
		return err
	}
	printList(cmd.OutOrStdout(), "SYMBOL", symbols)
	return nil
}

func init() {
	rootCmd.AddCommand(symbolsCmd, removeSymbolCmd)
}
