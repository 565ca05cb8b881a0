package prompt

import (
	"github.com/meferspb/erpnext-debian13-install/internal/ports"
)

// AutoPrompter resolves every question from its default without reading
// any input stream. Automated and quick runs use it end-to-end, so they
// can never block on a terminal.
type AutoPrompter struct{}

// NewAutoPrompter creates a new AutoPrompter.
func NewAutoPrompter() *AutoPrompter {
	return &AutoPrompter{}
}

// Confirm resolves to the default answer.
func (p *AutoPrompter) Confirm(_ string, def bool) (bool, error) {
	return def, nil
}

// Input resolves to the default value. The validator is not applied
// here; non-interactive fallback for invalid defaults is handled by the
// validation layer so a bad configured value degrades to a warning
// instead of blocking the run.
func (p *AutoPrompter) Input(_, def string, _ func(string) error) (string, error) {
	return def, nil
}

// Password resolves to empty, which callers treat as "generate one".
func (p *AutoPrompter) Password(_ string) (string, error) {
	return "", nil
}

// Select resolves to the first option.
func (p *AutoPrompter) Select(_ string, options []ports.SelectOption) (string, error) {
	if len(options) == 0 {
		return "", nil
	}
	return options[0].Key, nil
}

// Ensure AutoPrompter implements ports.Prompter.
var _ ports.Prompter = (*AutoPrompter)(nil)
