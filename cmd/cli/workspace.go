package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/datashield/datashield-go/internal/session"
)

var workspaceCmd = &cobra.Command{
	Use:   "workspace",
	Short: "Save, restore or remove the R session workspaces",
	Long: `Workspaces are saved on every server under the name "{server}:{name}",
so that the same name can be used on all of them.`,
}

var workspaceSaveCmd = &cobra.Command{
	Use:   "save NAME",
	Short: "Save the R sessions in a workspace",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *session.Session) error {
			if err := s.SaveWorkspace(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("Workspace %s saved", args[0])))
			return nil
		})
	},
}

var workspaceRestoreCmd = &cobra.Command{
	Use:   "restore NAME",
	Short: "Restore a workspace in the R sessions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *session.Session) error {
			if err := s.RestoreWorkspace(ctx, args[0]); err != nil {
				return err
			}
			symbols, err := s.Symbols(ctx)
			if err != nil {
				return err
			}
			printList(cmd.OutOrStdout(), "SYMBOL", symbols)
			return nil
		})
	},
}

var workspaceRemoveCmd = &cobra.Command{
	Use:     "rm NAME",
	Aliases: []string{"remove"},
	Short:   "Remove a workspace",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *session.Session) error {
			if err := s.RemoveWorkspace(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("Workspace %s removed", args[0])))
			return nil
		})
	},
}

func init() {
	workspaceCmd.AddCommand(workspaceSaveCmd, workspaceRestoreCmd, workspaceRemoveCmd)
	rootCmd.AddCommand(workspaceCmd)
}
