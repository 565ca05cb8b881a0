package mocks

import (
	"sync"

	"github.com/meferspb/erpnext-debian13-install/internal/ports"
)

// PrompterCall records one question posed to the mock.
type PrompterCall struct {
	Method string
	Title  string
}

// Prompter is a scripted test double for ports.Prompter. Answers are
// consumed in order per method; when a queue is empty the default is
// returned.
type Prompter struct {
	mu        sync.Mutex
	confirms  []bool
	inputs    []string
	passwords []string
	selects   []string
	calls     []PrompterCall
}

// NewPrompter creates an empty scripted prompter.
func NewPrompter() *Prompter {
	return &Prompter{}
}

// QueueConfirm scripts answers for Confirm.
func (p *Prompter) QueueConfirm(answers ...bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.confirms = append(p.confirms, answers...)
}

// QueueInput scripts answers for Input.
func (p *Prompter) QueueInput(answers ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.inputs = append(p.inputs, answers...)
}

// QueuePassword scripts answers for Password.
func (p *Prompter) QueuePassword(answers ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.passwords = append(p.passwords, answers...)
}

// QueueSelect scripts answers for Select.
func (p *Prompter) QueueSelect(answers ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.selects = append(p.selects, answers...)
}

// Confirm returns the next scripted answer or the default.
func (p *Prompter) Confirm(title string, def bool) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, PrompterCall{Method: "confirm", Title: title})
	if len(p.confirms) == 0 {
		return def, nil
	}
	answer := p.confirms[0]
	p.confirms = p.confirms[1:]
	return answer, nil
}

// Input returns the next scripted answer that passes validation, or
// the default. Invalid scripted answers are retried like an operator
// typing again.
func (p *Prompter) Input(title, def string, validate func(string) error) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, PrompterCall{Method: "input", Title: title})
	for len(p.inputs) > 0 {
		answer := p.inputs[0]
		p.inputs = p.inputs[1:]
		if validate == nil || validate(answer) == nil {
			return answer, nil
		}
	}
	return def, nil
}

// Password returns the next scripted answer or empty.
func (p *Prompter) Password(title string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, PrompterCall{Method: "password", Title: title})
	if len(p.passwords) == 0 {
		return "", nil
	}
	answer := p.passwords[0]
	p.passwords = p.passwords[1:]
	return answer, nil
}

// Select returns the next scripted answer or the first option.
func (p *Prompter) Select(title string, options []ports.SelectOption) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, PrompterCall{Method: "select", Title: title})
	if len(p.selects) == 0 {
		if len(options) == 0 {
			return "", nil
		}
		return options[0].Key, nil
	}
	answer := p.selects[0]
	p.selects = p.selects[1:]
	return answer, nil
}

// Calls returns every question posed so far.
func (p *Prompter) Calls() []PrompterCall {
	p.mu.Lock()
	defer p.mu.Unlock()
	calls := make([]PrompterCall, len(p.calls))
	copy(calls, p.calls)
	return calls
}

// Ensure Prompter implements ports.Prompter.
var _ ports.Prompter = (*Prompter)(nil)
