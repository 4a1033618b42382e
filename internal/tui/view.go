package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the current state of the application
func (m Model) View() string {
	if m.loading {
		return m.renderLoading()
	}

	if m.err != nil {
		return m.renderError()
	}

	var content string
	switch m.currentScene {
	case ScenePricing:
		content = m.pricingModel.View()
	case SceneRegimes:
		content = m.regimesModel.View()
	case SceneHelp:
		content = m.renderHelp()
	default:
		content = "Unknown scene"
	}

	return m.renderApp(content)
}

// renderApp wraps content with title bar, status bar, and main container
func (m Model) renderApp(content string) string {
	titleBar := m.renderTitleBar()
	statusBar := m.renderStatusBar()

	contentHeight := m.height - 4 // title (2) + status (1) + padding (1)

	contentContainer := lipgloss.NewStyle().
		Height(max(contentHeight, 0)).
		Render(content)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		titleBar,
		contentContainer,
		statusBar,
	)
}

// renderTitleBar renders the application title and breadcrumb
func (m Model) renderTitleBar() string {
	title := TitleStyle.Render("AXIS - Simples Nacional & Pricing")

	breadcrumb := m.currentScene.String()
	if m.config != nil && m.config.Client.Name != "" {
		breadcrumb = fmt.Sprintf("%s / %s", m.config.Client.Name, breadcrumb)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		SubtitleStyle.Render(breadcrumb),
	)
}

// renderStatusBar renders the bottom status bar with keyboard shortcuts
func (m Model) renderStatusBar() string {
	shortcuts := []string{
		formatShortcut("p", "price"),
		formatShortcut("r", "annexes"),
		formatShortcut("?", "help"),
		formatShortcut("esc", "back"),
		formatShortcut("q", "quit"),
	}

	statusText := strings.Join(shortcuts, " • ")

	if m.configPath != "" && m.config != nil {
		configName := SubtitleStyle.Render(m.configPath)
		width := m.width - lipgloss.Width(statusText) - 4
		statusText = statusText + strings.Repeat(" ", max(0, width)) + configName
	}

	return StatusBarStyle.Width(m.width).Render(statusText)
}

// formatShortcut formats a keyboard shortcut with key and description
func formatShortcut(key, desc string) string {
	return StatusKeyStyle.Render(key) + " " + desc
}

// renderLoading renders the loading message
func (m Model) renderLoading() string {
	message := m.loadingMessage
	if message == "" {
		message = "Loading " + m.configPath + "..."
	}

	return m.renderApp(BorderStyle.Render("⠋ " + message))
}

// renderError renders an error message
func (m Model) renderError() string {
	content := ErrorStyle.Render(
		fmt.Sprintf("Error: %s\n\nPress any key to continue...", m.err),
	)
	return m.renderApp(content)
}

// renderHelp renders the help screen
func (m Model) renderHelp() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Minimum price calculator"))
	b.WriteString("\n\n")

	sections := []struct {
		title string
		keys  [][2]string
	}{
		{"NAVIGATION", [][2]string{
			{"p", "price calculator"},
			{"r", "compare the minimum price across annexes"},
			{"?", "this help"},
			{"esc", "back"},
			{"q/ctrl+c", "quit"},
		}},
		{"CALCULATOR", [][2]string{
			{"tab/↓", "next field"},
			{"shift+tab/↑", "previous field"},
			{"[ ]", "switch annex"},
			{"f", "apply Factor R (Anexo III or V)"},
			{"enter", "calculate"},
		}},
	}

	keyStyle := HelpKeyStyle.Width(14)
	for _, s := range sections {
		b.WriteString(SubtitleStyle.Render(s.title))
		b.WriteString("\n")
		for _, k := range s.keys {
			b.WriteString("  " + keyStyle.Render(k[0]) + HelpDescStyle.Render(k[1]) + "\n")
		}
		b.WriteString("\n")
	}
	b.WriteString(HelpDescStyle.Render("Amounts accept 1234.56 or 1.234,56. The fee is a percentage."))

	return BorderStyle.Render(b.String())
}
