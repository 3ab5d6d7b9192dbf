package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/datashield/datashield-go/internal/config"
	"github.com/datashield/datashield-go/internal/drivers"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and save the configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the merged configuration, secrets masked",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := cfg.Redacted().Marshal()
		if err != nil {
			return fmt.Errorf("failed to marshal configuration: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var configServersCmd = &cobra.Command{
	Use:   "servers",
	Short: "List the configured servers",
	RunE: func(cmd *cobra.Command, args []string) error {
		t := newTable("NAME", "URL", "AUTH", "PROFILE", "DRIVER")
		for _, server := range cfg.Servers {
			auth := "user " + server.User
			if server.UsesToken() {
				auth = "token"
			}
			driver := server.Driver
			if _, err := drivers.Get(server.Driver); err != nil {
				driver = warningStyle.Render(driver + " (not registered)")
			}
			t.Row(server.Name, server.URL, auth, server.Profile, driver)
		}
		fmt.Fprintln(cmd.OutOrStdout(), t.Render())
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the configuration files that were read",
	Run: func(cmd *cobra.Command, args []string) {
		w := cmd.OutOrStdout()
		files := cfg.Files()
		if len(files) == 0 {
			fmt.Fprintln(w, infoStyle.Render("No configuration file found, looked for:"))
			fmt.Fprintln(w, "  "+config.UserConfigPath())
			fmt.Fprintln(w, "  "+config.ProjectConfigPath)
			return
		}
		for _, file := range files {
			fmt.Fprintln(w, file)
		}
	},
}

var configSaveCmd = &cobra.Command{
	Use:   "save [PATH]",
	Short: "Write the merged configuration to a file",
	Long: `Write the merged configuration, secrets included, to a file.
Defaults to the configuration file of the working directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.ProjectConfigPath
		if len(args) > 0 {
			path = args[0]
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return fmt.Errorf("failed to create configuration directory: %w", err)
		}
		if err := cfg.Save(path); err != nil {
			return fmt.Errorf("failed to save configuration: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Configuration saved to "+path))
		return nil
	},
}

var driversCmd = &cobra.Command{
	Use:   "drivers",
	Short: "List the registered drivers",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range drivers.Names() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configServersCmd, configPathCmd, configSaveCmd)
	rootCmd.AddCommand(configCmd, driversCmd)
}
