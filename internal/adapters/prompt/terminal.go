// Package prompt provides Prompter adapters: a terminal implementation
// backed by huh forms and an automated implementation that resolves
// every question from its default.
package prompt

import (
	"errors"

	"github.com/charmbracelet/huh"

	"github.com/meferspb/erpnext-debian13-install/internal/ports"
)

// TerminalPrompter poses questions on the terminal.
type TerminalPrompter struct{}

// NewTerminalPrompter creates a new TerminalPrompter.
func NewTerminalPrompter() *TerminalPrompter {
	return &TerminalPrompter{}
}

// Confirm asks a yes/no question with the given default.
func (p *TerminalPrompter) Confirm(title string, def bool) (bool, error) {
	answer := def
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(title).
			Affirmative("Yes").
			Negative("No").
			Value(&answer),
	))
	if err := form.Run(); err != nil {
		return false, mapErr(err)
	}
	return answer, nil
}

// Input asks for a free-text value. huh re-runs the validator until the
// input passes, which gives the retry-until-valid behavior for
// interactive fields.
func (p *TerminalPrompter) Input(title, def string, validate func(string) error) (string, error) {
	value := def
	field := huh.NewInput().
		Title(title).
		Placeholder(def).
		Value(&value)
	if validate != nil {
		field = field.Validate(validate)
	}
	if err := huh.NewForm(huh.NewGroup(field)).Run(); err != nil {
		return "", mapErr(err)
	}
	return value, nil
}

// Password asks for a value without echoing it.
func (p *TerminalPrompter) Password(title string) (string, error) {
	var value string
	field := huh.NewInput().
		Title(title).
		EchoMode(huh.EchoModePassword).
		Value(&value)
	if err := huh.NewForm(huh.NewGroup(field)).Run(); err != nil {
		return "", mapErr(err)
	}
	return value, nil
}

// Select asks the operator to pick one of the options.
func (p *TerminalPrompter) Select(title string, options []ports.SelectOption) (string, error) {
	opts := make([]huh.Option[string], 0, len(options))
	for _, o := range options {
		opts = append(opts, huh.NewOption(o.Label, o.Key))
	}

	var choice string
	field := huh.NewSelect[string]().
		Title(title).
		Options(opts...).
		Value(&choice)
	if err := huh.NewForm(huh.NewGroup(field)).Run(); err != nil {
		return "", mapErr(err)
	}
	return choice, nil
}

func mapErr(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return ports.ErrAborted
	}
	return err
}

// Ensure TerminalPrompter implements ports.Prompter.
var _ ports.Prompter = (*TerminalPrompter)(nil)
