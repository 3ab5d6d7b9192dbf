package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/datashield/datashield-go/internal/common"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	// no configuration is needed to print the version
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "datashield %s\n", common.GetBuildInfo())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
