package cli

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/datashield/datashield-go/internal/models"
	"github.com/datashield/datashield-go/internal/session"
)

var assignCmd = &cobra.Command{
	Use:   "assign",
	Short: "Assign a table, a resource or an R expression to a symbol",
	Long: `Assign a value to a symbol in every R session. The symbols only live as long
as the connections: use --save to keep them in a workspace and --restore to
get them back.`,
}

var assignTableCmd = &cobra.Command{
	Use:   "table SYMBOL TABLE",
	Short: "Assign a table to a symbol",
	Long: `Assign a table to a symbol. The table name can be overridden for some
servers with --server, e.g. --server server2=CNSIM.CNSIM2. Servers with no
table name are skipped.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		table := optionalArg(args, 1)
		tables, _ := cmd.Flags().GetStringToString("server")
		variables, _ := cmd.Flags().GetStringSlice("variables")
		missings, _ := cmd.Flags().GetBool("missings")
		identifiers, _ := cmd.Flags().GetString("identifiers")
		idName, _ := cmd.Flags().GetString("id-name")

		opts := models.TableOptions{
			Variables:   variables,
			Missings:    missings,
			Identifiers: identifiers,
			IDName:      idName,
		}

		return withSession(cmd, func(ctx context.Context, s *session.Session) error {
			if err := s.AssignTable(ctx, args[0], table, tables, opts, isAsync(cmd)); err != nil {
				return err
			}
			return printSymbols(ctx, cmd, s)
		})
	},
}

var assignResourceCmd = &cobra.Command{
	Use:   "resource SYMBOL RESOURCE",
	Short: "Assign a resource to a symbol",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		resource := optionalArg(args, 1)
		resources, _ := cmd.Flags().GetStringToString("server")

		return withSession(cmd, func(ctx context.Context, s *session.Session) error {
			if err := s.AssignResource(ctx, args[0], resource, resources, isAsync(cmd)); err != nil {
				return err
			}
			return printSymbols(ctx, cmd, s)
		})
	},
}

var assignExprCmd = &cobra.Command{
	Use:   "expr SYMBOL EXPR",
	Short: "Assign the result of an R expression to a symbol",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *session.Session) error {
			if err := s.AssignExpr(ctx, args[0], args[1], isAsync(cmd)); err != nil {
				return err
			}
			return printSymbols(ctx, cmd, s)
		})
	},
}

var aggregateCmd = &cobra.Command{
	Use:   "aggregate EXPR",
	Short: "Evaluate an aggregating R expression on every server",
	Long: `Evaluate an aggregating R expression on every server and print the result
of each one. Tables can be assigned first with --table SYMBOL=TABLE.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tables, _ := cmd.Flags().GetStringToString("table")

		return withSession(cmd, func(ctx context.Context, s *session.Session) error {
			for _, symbol := range slices.Sorted(maps.Keys(tables)) {
				if err := s.AssignTable(ctx, symbol, tables[symbol], nil, models.TableOptions{}, isAsync(cmd)); err != nil {
					return fmt.Errorf("failed to assign %s: %w", symbol, err)
				}
			}

			values, err := s.Aggregate(ctx, args[0], isAsync(cmd))
			if len(values) > 0 {
				printValues(cmd.OutOrStdout(), values)
			}
			return err
		})
	},
}

func optionalArg(args []string, i int) string {
	if len(args) > i {
		return args[i]
	}
	return ""
}

func init() {
	assignTableCmd.Flags().StringToString("server", nil, "Table name for a given server (SERVER=TABLE)")
	assignTableCmd.Flags().StringSlice("variables", nil, "Variables to keep, all when empty")
	assignTableCmd.Flags().Bool("missings", false, "Keep the missing values")
	assignTableCmd.Flags().String("identifiers", "", "Identifiers mapping name")
	assignTableCmd.Flags().String("id-name", "", "Name of the column holding the entity identifiers")

	assignResourceCmd.Flags().StringToString("server", nil, "Resource name for a given server (SERVER=RESOURCE)")

	aggregateCmd.Flags().StringToString("table", nil, "Table to assign to a symbol first (SYMBOL=TABLE)")

	assignCmd.AddCommand(assignTableCmd, assignResourceCmd, assignExprCmd)
	rootCmd.AddCommand(assignCmd, aggregateCmd)
}
