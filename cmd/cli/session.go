package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/datashield/datashield-go/internal/common"
	"github.com/datashield/datashield-go/internal/session"
)

type sessionFunc func(ctx context.Context, s *session.Session) error

// withSession opens the configured servers, runs fn and closes the
// connections, saving the workspace given with --save.
func withSession(cmd *cobra.Command, fn sessionFunc) (err error) {
	ctx, cleanup := common.WithInterrupt(cmd.Context())
	defer cleanup()
	defer printEvents(cmd)

	if err := promptPasswords(cmd); err != nil {
		return err
	}

	if len(cfg.Servers) == 0 {
		return fmt.Errorf("no server configured, see datashield --help")
	}

	s, err := cfg.NewSession()
	if err != nil {
		return err
	}

	restore, _ := cmd.Flags().GetString("restore")
	if err := s.Open(ctx, restore, cfg.Session.FailSafe); err != nil {
		return fmt.Errorf("failed to open session: %w", err)
	}
	printErrors(cmd, s.Errors())

	logrus.WithFields(logrus.Fields{
		"session": s.ID(),
		"servers": s.ConnectionNames(),
	}).Debugln("Session opened")

	defer func() {
		save, _ := cmd.Flags().GetString("save")
		// the connections are closed even after an interrupt
		closeErr := s.Close(context.WithoutCancel(ctx), save)
		if closeErr != nil {
			logrus.WithError(closeErr).Warnln("Failed to close some connections")
		}
		err = errors.Join(err, closeErr)
	}()

	err = fn(ctx, s)
	if errors.Is(err, session.ErrBatchFailed) {
		printErrors(cmd, s.Errors())
	}
	return err
}

func isAsync(cmd *cobra.Command) bool {
	async, err := cmd.Flags().GetBool("async")
	return err != nil || async
}
