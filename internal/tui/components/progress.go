package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/altuslabsxyz/jobwatch/internal/tui"
)

// ProgressModel wraps bubbles progress with a label and a 0-100 percentage
type ProgressModel struct {
	progress progress.Model
	Label    string
	Percent  float64
	Width    int
	Decimals int // digits shown after the decimal point
}

// NewProgressModel creates a new progress bar
func NewProgressModel(label string, percent float64) ProgressModel {
	p := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(30),
		progress.WithoutPercentage(),
	)
	return ProgressModel{
		progress: p,
		Label:    label,
		Percent:  percent,
		Width:    50,
	}
}

// Init implements tea.Model
func (m ProgressModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width - 10
		if m.Width < 30 {
			m.Width = 30
		}
		barWidth := m.Width - len(m.Label) - 12
		if barWidth < 10 {
			barWidth = 10
		}
		m.progress.Width = barWidth
	case progress.FrameMsg:
		pm, cmd := m.progress.Update(msg)
		m.progress = pm.(progress.Model)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model
func (m ProgressModel) View() string {
	var b strings.Builder

	if m.Label != "" {
		labelStyle := lipgloss.NewStyle().Foreground(tui.ColorInfo)
		b.WriteString(labelStyle.Render(m.Label))
		b.WriteString("  ")
	}

	b.WriteString(m.progress.ViewAs(m.Fraction()))
	b.WriteString(fmt.Sprintf("  %5.*f%%", m.Decimals, m.clamped()))

	return b.String()
}

// Fraction returns current progress as 0.0-1.0
func (m ProgressModel) Fraction() float64 {
	return m.clamped() / 100
}

// SetPercent updates current progress
func (m *ProgressModel) SetPercent(percent float64) {
	m.Percent = percent
}

func (m ProgressModel) clamped() float64 {
	switch {
	case m.Percent < 0 || m.Percent != m.Percent:
		return 0
	case m.Percent > 100:
		return 100
	default:
		return m.Percent
	}
}
