package cli

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

// promptPasswords asks for the password of every server configured with
// a user but no password, when --prompt is set.
func promptPasswords(cmd *cobra.Command) error {
	prompt, _ := cmd.Flags().GetBool("prompt")
	if !prompt {
		return nil
	}

	var fields []huh.Field
	for i := range cfg.Servers {
		server := &cfg.Servers[i]
		if len(server.User) == 0 || len(server.Password) > 0 || len(server.Token) > 0 {
			continue
		}
		fields = append(fields, huh.NewInput().
			Title(fmt.Sprintf("Password of %s on %s", server.User, server.Name)).
			Description(server.URL).
			EchoMode(huh.EchoModePassword).
			Value(&server.Password))
	}

	if len(fields) == 0 {
		return nil
	}

	form := huh.NewForm(huh.NewGroup(fields...))
	if err := form.Run(); err != nil {
		return fmt.Errorf("password prompt cancelled: %w", err)
	}
	return nil
}
