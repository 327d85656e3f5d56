package tui

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

// RenderTo writes a single frame of the model to w.
func RenderTo(w io.Writer, model tea.Model) error {
	_, err := fmt.Fprintln(w, model.View())
	return err
}

// NewInlineProgram creates a program that callers feed with Send. SIGINT is
// delivered to the model as a key press instead of killing the process.
func NewInlineProgram(model tea.Model, out io.Writer) *tea.Program {
	return tea.NewProgram(model, tea.WithOutput(out), tea.WithoutSignalHandler())
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
