package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/datashield/datashield-go/internal/models"
	"github.com/datashield/datashield-go/internal/session"
)

type sessionsReadyMsg struct {
	sessions map[string]models.RemoteSession
	elapsed  time.Duration
}

type sessionsErrorMsg struct {
	err error
}

type sessionsModel struct {
	ctx      context.Context
	cancel   context.CancelFunc
	session  *session.Session
	servers  []string
	spinner  spinner.Model
	started  time.Time
	sessions map[string]models.RemoteSession
	elapsed  time.Duration
	err      error
	quitting bool
}

func newSessionsModel(ctx context.Context, s *session.Session) sessionsModel {
	ctx, cancel := context.WithCancel(ctx)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#3b82f6"))

	return sessionsModel{
		ctx:     ctx,
		cancel:  cancel,
		session: s,
		servers: s.ConnectionNames(),
		spinner: sp,
		started: time.Now(),
	}
}

func (m sessionsModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m sessionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			m.cancel()
			return m, tea.Quit
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case sessionsReadyMsg:
		m.sessions = msg.sessions
		m.elapsed = msg.elapsed
		return m, tea.Quit

	case sessionsErrorMsg:
		m.err = msg.err
		return m, tea.Quit
	}

	return m, nil
}

func (m sessionsModel) View() string {
	if m.quitting {
		return ""
	}
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %s", m.err.Error())) + "\n"
	}
	if m.sessions == nil {
		return fmt.Sprintf("\n %s Starting R sessions on %s...\n\n",
			m.spinner.View(), strings.Join(m.servers, ", "))
	}
	return renderSessions(m.servers, m.sessions, m.elapsed)
}

func renderSessions(servers []string, sessions map[string]models.RemoteSession, elapsed time.Duration) string {
	var content strings.Builder

	content.WriteString(titleStyle.Render("R sessions"))
	content.WriteString("\n")

	t := newTable("SERVER", "STATE", "MESSAGE")
	for _, server := range servers {
		rs, ok := sessions[server]
		if !ok {
			t.Row(server, failedBadgeStyle.Render("EXCLUDED"), "")
			continue
		}
		t.Row(server, sessionBadge(rs), rs.LastMessage())
	}
	content.WriteString(t.Render())
	content.WriteString("\n")
	content.WriteString(mutedStyle.Render(fmt.Sprintf("Ready in %s", elapsed.Round(time.Millisecond))))
	content.WriteString("\n")

	return content.String()
}

func sessionBadge(rs models.RemoteSession) string {
	switch {
	case rs.IsFailed():
		return failedBadgeStyle.Render("FAILED")
	case rs.IsTerminated():
		return failedBadgeStyle.Render("TERMINATED")
	case rs.IsPending():
		return pendingBadgeStyle.Render("PENDING")
	default:
		return startedBadgeStyle.Render("STARTED")
	}
}

// runSessionsTUI starts the R sessions behind a spinner.
func runSessionsTUI(ctx context.Context, s *session.Session) error {
	model := newSessionsModel(ctx, s)
	defer model.cancel()

	program := tea.NewProgram(model)

	done := make(chan struct{})
	go func() {
		defer close(done)
		sessions, err := s.EnsureSessions(model.ctx)
		if err != nil {
			program.Send(sessionsErrorMsg{err: err})
			return
		}
		program.Send(sessionsReadyMsg{sessions: sessions, elapsed: time.Since(model.started)})
	}()

	finalModel, err := program.Run()

	// the session must not be closed while still in use
	model.cancel()
	<-done

	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	final, ok := finalModel.(sessionsModel)
	if !ok {
		return fmt.Errorf("unexpected model type returned from TUI")
	}
	if final.quitting {
		return context.Canceled
	}
	return final.err
}

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Start the R sessions and show their state",
	RunE: func(cmd *cobra.Command, args []string) error {
		plain, _ := cmd.Flags().GetBool("plain")

		return withSession(cmd, func(ctx context.Context, s *session.Session) error {
			if !plain {
				return runSessionsTUI(ctx, s)
			}

			servers := s.ConnectionNames()
			started := time.Now()
			sessions, err := s.EnsureSessions(ctx)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), renderSessions(servers, sessions, time.Since(started)))
			return nil
		})
	},
}

func init() {
	sessionsCmd.Flags().Bool("plain", false, "Print the session states without the interactive display")
	rootCmd.AddCommand(sessionsCmd)
}
