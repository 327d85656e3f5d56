package output

import (
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
)

// ErrCancelled is returned when the user interrupts a prompt.
var ErrCancelled = errors.New("cancelled by user")

const enterJobIDOption = "[Enter another job ID]"

// Prompter abstracts interactive prompts so commands can be tested without a
// terminal.
type Prompter interface {
	// SelectFromList displays a list and returns the selected index.
	SelectFromList(label string, items []string) (int, string, error)
	// InputText prompts for text, re-asking until validate accepts it.
	InputText(label string, validate func(string) error) (string, error)
	// Confirm asks a yes/no question.
	Confirm(label string) (bool, error)
}

// PromptuiPrompter implements Prompter with promptui.
type PromptuiPrompter struct{}

// NewPrompter creates the promptui-backed prompter.
func NewPrompter() *PromptuiPrompter {
	return &PromptuiPrompter{}
}

// SelectFromList implements Prompter.
func (p *PromptuiPrompter) SelectFromList(label string, items []string) (int, string, error) {
	templates := &promptui.SelectTemplates{
		Active:   "▸ {{ . | cyan }}",
		Inactive: "  {{ . }}",
		Selected: "✓ {{ . | green }}",
	}

	prompt := promptui.Select{
		Label:     label,
		Items:     items,
		Size:      10,
		Templates: templates,
	}

	idx, value, err := prompt.Run()
	if err != nil {
		return -1, "", handleInterrupt(err)
	}
	return idx, value, nil
}

// InputText implements Prompter.
func (p *PromptuiPrompter) InputText(label string, validate func(string) error) (string, error) {
	prompt := promptui.Prompt{
		Label:    label,
		Validate: validate,
	}

	result, err := prompt.Run()
	if err != nil {
		return "", handleInterrupt(err)
	}
	return strings.TrimSpace(result), nil
}

// Confirm implements Prompter.
func (p *PromptuiPrompter) Confirm(label string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}

	_, err := prompt.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, handleInterrupt(err)
	}
	return true, nil
}

// PromptJobID asks for the job to watch. Recently watched jobs are offered
// first when available.
func PromptJobID(p Prompter, recent []string) (string, error) {
	if len(recent) > 0 {
		items := append(append([]string{}, recent...), enterJobIDOption)
		idx, _, err := p.SelectFromList("Select a job to watch", items)
		if err != nil {
			return "", err
		}
		if idx < len(recent) {
			return recent[idx], nil
		}
	}
	return p.InputText("Job ID", ValidateJobID)
}

// ValidateJobID rejects empty or whitespace-containing job IDs.
func ValidateJobID(input string) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return fmt.Errorf("job ID cannot be empty")
	}
	if strings.ContainsAny(input, " \t/") {
		return fmt.Errorf("job ID cannot contain spaces or slashes")
	}
	if len(input) > 128 {
		return fmt.Errorf("job ID too long")
	}
	return nil
}

func handleInterrupt(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
		return ErrCancelled
	}
	return err
}
