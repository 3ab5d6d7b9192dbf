package cli

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/datashield/datashield-go/internal/config"
)

// Global configuration instance
var cfg *config.Config

// loadConfig loads the configuration based on the --config flag or default locations
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configFile, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}

	return config.Load(configFile)
}

func preRunConfigE(cmd *cobra.Command, _ []string) error {
	var err error
	cfg, err = loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// check if verbose flag is set
	verbose, err := cmd.Flags().GetBool("verbose")
	if err == nil && verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if cmd.Flags().Changed("fail-safe") {
		cfg.Session.FailSafe, _ = cmd.Flags().GetBool("fail-safe")
	}

	logrus.WithFields(logrus.Fields{
		"files":   cfg.Files(),
		"servers": cfg.ServerNames(),
	}).Debugln("Configuration loaded")

	return nil
}

var rootCmd = &cobra.Command{
	Use:   "datashield",
	Short: "DataSHIELD client - run privacy preserving analyses on several data repositories",
	Long: `datashield opens a connection to every configured data repository,
starts the remote R sessions and runs the same DataSHIELD commands on all
of them, reporting the errors server by server.

Servers are read from ~/.config/datashield/config.yaml and
./.datashield/config.yaml, or from the file given with --config:

  servers:
    - name: server1
      url: https://opal-demo.obiba.org
      user: dsuser
      password: P@ssw0rd
    - name: server2
      url: https://opal.example.org
      token: your-access-token-here`,
	PersistentPreRunE: preRunConfigE,
	SilenceUsage:      true,
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Config file (default is $HOME/.config/datashield/config.yaml and ./.datashield/config.yaml)")
	rootCmd.PersistentFlags().Bool("fail-safe", false, "Keep going when a server cannot be reached")
	rootCmd.PersistentFlags().Bool("async", true, "Submit the commands asynchronously when the servers support it")
	rootCmd.PersistentFlags().String("restore", "", "Workspace to restore the R sessions from")
	rootCmd.PersistentFlags().String("save", "", "Workspace to save the R sessions to before disconnecting")
	rootCmd.PersistentFlags().Bool("prompt", false, "Prompt for the passwords missing from the configuration")
	rootCmd.PersistentFlags().Bool("events", false, "Print the events logged during the run before exiting")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
