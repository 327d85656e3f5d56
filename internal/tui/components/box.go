package components

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/altuslabsxyz/jobwatch/internal/tui"
)

// BoxModel represents a bordered box with title, content and an optional
// muted footer
type BoxModel struct {
	Title   string
	Content string
	Footer  string
	Width   int
	style   lipgloss.Style
}

// NewBoxModel creates a standard info box
func NewBoxModel(title, content string) BoxModel {
	return BoxModel{
		Title:   title,
		Content: content,
		Width:   60,
		style:   tui.BoxStyle,
	}
}

// NewErrorBoxModel creates an error-styled box
func NewErrorBoxModel(title, content string) BoxModel {
	return BoxModel{
		Title:   title,
		Content: content,
		Width:   60,
		style:   tui.ErrorBoxStyle,
	}
}

// NewSuccessBoxModel creates a success-styled box
func NewSuccessBoxModel(title, content string) BoxModel {
	return BoxModel{
		Title:   title,
		Content: content,
		Width:   60,
		style:   tui.SuccessBoxStyle,
	}
}

// Init implements tea.Model
func (m BoxModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m BoxModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.Width = wsm.Width - 4
		if m.Width < 40 {
			m.Width = 40
		}
	}
	return m, nil
}

// View implements tea.Model
func (m BoxModel) View() string {
	// Build title line
	titleLine := ""
	if m.Title != "" {
		titleStyle := lipgloss.NewStyle().Bold(true)
		titleLine = titleStyle.Render(m.Title)
	}

	// Apply box style with width
	boxStyle := m.style.Width(m.Width)

	body := m.Content
	if titleLine != "" {
		body = titleLine + "\n" + body
	}
	if m.Footer != "" {
		body += "\n" + tui.MutedStyle.Render(m.Footer)
	}
	return boxStyle.Render(body)
}

// SetContent updates the box content
func (m *BoxModel) SetContent(content string) {
	m.Content = content
}

// SetFooter updates the box footer
func (m *BoxModel) SetFooter(footer string) {
	m.Footer = footer
}
