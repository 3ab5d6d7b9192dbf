package cli

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/datashield/datashield-go/internal/config"
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(tableBorderStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			return tableCellStyle
		})
}

// sortedServers returns the keys of a per server result, sorted.
func sortedServers[T any](values map[string]T) []string {
	return slices.Sorted(maps.Keys(values))
}

// printList renders one row per server and item, a dash for servers with
// no item.
func printList(w io.Writer, header string, values map[string][]string) {
	t := newTable("SERVER", header)
	for _, server := range sortedServers(values) {
		items := values[server]
		if len(items) == 0 {
			t.Row(server, mutedStyle.Render("-"))
			continue
		}
		for _, item := range items {
			t.Row(server, item)
		}
	}
	fmt.Fprintln(w, t.Render())
}

func printFlags(w io.Writer, header string, values map[string]bool) {
	t := newTable("SERVER", header)
	for _, server := range sortedServers(values) {
		t.Row(server, yesNo(values[server]))
	}
	fmt.Fprintln(w, t.Render())
}

func printValues(w io.Writer, values map[string]any) {
	t := newTable("SERVER", "VALUE")
	for _, server := range sortedServers(values) {
		t.Row(server, fmt.Sprint(values[server]))
	}
	fmt.Fprintln(w, t.Render())
}

// printErrors renders the per server errors of the last command, if any.
func printErrors(cmd *cobra.Command, errs map[string]error) {
	if len(errs) == 0 {
		return
	}
	w := cmd.ErrOrStderr()
	fmt.Fprintln(w, errorStyle.Render("Some servers reported errors"))
	for _, server := range sortedServers(errs) {
		fmt.Fprintf(w, "  %s: %v\n", headerStyle.Render(server), errs[server])
	}
}

// printEvents prints the events logged during the run when --events is
// set, grouped per server.
func printEvents(cmd *cobra.Command) {
	show, _ := cmd.Flags().GetBool("events")
	if !show || cfg == nil || cfg.Events() == nil {
		return
	}
	printEventLog(cmd.ErrOrStderr(), cfg.Events())
}

func printEventLog(w io.Writer, events *config.EventLog) {
	grouped := events.ByServer()
	if len(grouped) == 0 {
		fmt.Fprintln(w, infoStyle.Render("No event was logged"))
		return
	}
	fmt.Fprintln(w, warningStyle.Render(fmt.Sprintf("Run %s events", events.RunID())))
	if dropped := events.Dropped(); dropped > 0 {
		fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("  %d older events dropped", dropped)))
	}
	for _, server := range slices.Sorted(maps.Keys(grouped)) {
		title := server
		if title == "" {
			title = "session"
		}
		fmt.Fprintln(w, headerStyle.Render(title))
		for _, event := range grouped[server] {
			var fields []string
			for _, key := range slices.Sorted(maps.Keys(event.Data)) {
				if key == "server" {
					continue
				}
				fields = append(fields, fmt.Sprintf("%s=%v", key, event.Data[key]))
			}
			fmt.Fprintf(w, "  %s %-7s %s %s\n",
				event.Time.Format("15:04:05"),
				strings.ToUpper(event.Level.String()),
				event.Message,
				mutedStyle.Render(strings.Join(fields, " ")))
		}
	}
}

func yesNo(value bool) string {
	if value {
		return successStyle.Render("yes")
	}
	return mutedStyle.Render("no")
}
