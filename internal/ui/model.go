// Package ui carries small bubbletea widgets shared by the interactive modes.
package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/vodhound/vodhound/style"
)

// notificationLifetime is how long a transient notice stays on screen.
const notificationLifetime = 3 * time.Second

// Model renders one transient notification line over an existing view.
type Model struct {
	message string
}

// ClearNotificationMsg resets the notification state.
type ClearNotificationMsg struct{}

// Notify returns a tea.Cmd that raises a transient notification.
func Notify(message string) tea.Cmd {
	return func() tea.Msg {
		return message
	}
}

// ClearNotification schedules the notification teardown.
func ClearNotification() tea.Cmd {
	return tea.Tick(notificationLifetime, func(time.Time) tea.Msg {
		return ClearNotificationMsg{}
	})
}

// Update consumes notification messages. A plain string raises a notice,
// ClearNotificationMsg removes it.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case string:
		m.message = msg
		return ClearNotification()
	case ClearNotificationMsg:
		m.message = ""
	}

	return nil
}

// View attaches the active notification to the last line of content.
func (m *Model) View(content string) string {
	if m.message == "" {
		return content
	}

	lines := strings.Split(content, "\n")
	lines[len(lines)-1] += "  " + style.Faint(m.message)
	return strings.Join(lines, "\n")
}
