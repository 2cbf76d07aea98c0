package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jmerkel/nodepad/pkg/session"
)

// pickSession runs the interactive session picker and prints the chosen
// session's ID.
func (c *CLI) pickSession(cmd *cobra.Command, sessions []*session.Session) error {
	p := tea.NewProgram(newPickerModel(sessions))
	m, err := p.Run()
	if err != nil {
		return err
	}
	if picked := m.(pickerModel).selected; picked != nil {
		fmt.Fprintln(cmd.OutOrStdout(), picked.ID)
	}
	return nil
}

// pickerModel is the bubbletea model behind session list --interactive.
type pickerModel struct {
	sessions []*session.Session
	cursor   int
	selected *session.Session
}

func newPickerModel(sessions []*session.Session) pickerModel {
	return pickerModel{sessions: sessions}
}

func (m pickerModel) Init() tea.Cmd {
	return nil
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.sessions)-1 {
				m.cursor++
			}
		case "enter":
			m.selected = m.sessions[m.cursor]
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m pickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Saved sessions"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("↑/↓ navigate · enter select · q quit"))
	b.WriteString("\n\n")

	for i, sess := range m.sessions {
		name := sess.Name
		if name == "" {
			name = "(unnamed)"
		}
		line := fmt.Sprintf("%s  %-24s  %s", shortID(sess.ID), name, formatRelativeTime(sess.UpdatedAt))
		if i == m.cursor {
			b.WriteString(StyleValue.Render("▸ " + line))
		} else {
			b.WriteString(StyleDim.Render("  " + line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("[%d/%d]", m.cursor+1, len(m.sessions))))
	b.WriteString("\n")
	return b.String()
}

// formatRelativeTime renders a timestamp as a friendly age.
func formatRelativeTime(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
