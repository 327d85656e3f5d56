package components

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/altuslabsxyz/jobwatch/internal/tui"
)

// StepStatus represents the status of a step
type StepStatus int

const (
	StepPending StepStatus = iota
	StepRunning
	StepCompleted
	StepFailed
)

// Step represents a single stage of a job
type Step struct {
	Name     string
	Status   StepStatus
	Detail   string
	Percent  int            // progress within the step, shown while running or failed
	Progress *ProgressModel // optional embedded progress
}

// StepListModel manages a list of steps
type StepListModel struct {
	Steps   []Step
	spinner SpinnerModel
}

// NewStepListModel creates a step list with the given names, all pending
func NewStepListModel(names ...string) StepListModel {
	m := StepListModel{
		Steps:   []Step{},
		spinner: NewSpinnerModel(""),
	}
	for _, name := range names {
		m.AddStep(name)
	}
	return m
}

// AddStep adds a new pending step
func (m *StepListModel) AddStep(name string) {
	m.Steps = append(m.Steps, Step{
		Name:   name,
		Status: StepPending,
	})
}

// SetStatus updates the status of a step by index
func (m *StepListModel) SetStatus(index int, status StepStatus) {
	if index >= 0 && index < len(m.Steps) {
		m.Steps[index].Status = status
	}
}

// SetDetail updates the detail of a step by index
func (m *StepListModel) SetDetail(index int, detail string) {
	if index >= 0 && index < len(m.Steps) {
		m.Steps[index].Detail = detail
	}
}

// SetPercent updates the within-step percentage of a step by index
func (m *StepListModel) SetPercent(index int, percent int) {
	if index >= 0 && index < len(m.Steps) {
		m.Steps[index].Percent = percent
	}
}

// SetProgress attaches a progress model to a step
func (m *StepListModel) SetProgress(index int, progress *ProgressModel) {
	if index >= 0 && index < len(m.Steps) {
		m.Steps[index].Progress = progress
	}
}

// FindStepByName returns the index of a step by name, or -1 if not found
func (m *StepListModel) FindStepByName(name string) int {
	for i, step := range m.Steps {
		if step.Name == name {
			return i
		}
	}
	return -1
}

// Init implements tea.Model
func (m StepListModel) Init() tea.Cmd {
	return m.spinner.Init()
}

// Update implements tea.Model
func (m StepListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	spinnerModel, cmd := m.spinner.Update(msg)
	m.spinner = spinnerModel.(SpinnerModel)
	return m, cmd
}

// View implements tea.Model
func (m StepListModel) View() string {
	var b strings.Builder

	for i, step := range m.Steps {
		b.WriteString(m.renderStep(i, step))
		b.WriteString("\n")
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func (m StepListModel) renderStep(index int, step Step) string {
	var prefix string
	var style lipgloss.Style

	switch step.Status {
	case StepPending:
		prefix = tui.IconPending + " "
		style = tui.MutedStyle
	case StepRunning:
		prefix = m.spinner.Frame() + " "
		style = lipgloss.NewStyle().Foreground(tui.ColorInfo)
	case StepCompleted:
		prefix = tui.SuccessStyle.String()
		style = lipgloss.NewStyle().Foreground(tui.ColorSuccess)
	case StepFailed:
		prefix = tui.ErrorStyle.String()
		style = lipgloss.NewStyle().Foreground(tui.ColorError)
	}

	counter := tui.MutedStyle.Render(fmt.Sprintf("[%d/%d] ", index+1, len(m.Steps)))
	name := style.Render(step.Name)

	percent := ""
	if step.Status == StepRunning || step.Status == StepFailed {
		percent = style.Render(fmt.Sprintf(" %d%%", step.Percent))
	}

	// Add detail if present
	detail := ""
	if step.Detail != "" {
		detail = tui.MutedStyle.Render(fmt.Sprintf(" (%s)", step.Detail))
	}

	// Add progress if present and running
	progress := ""
	if step.Status == StepRunning && step.Progress != nil {
		progress = "\n    " + step.Progress.View()
	}

	return prefix + counter + name + percent + detail + progress
}
