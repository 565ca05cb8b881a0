package ports

import "errors"

// ErrAborted is returned when the operator cancels a prompt, aborting
// the whole run.
var ErrAborted = errors.New("aborted by operator")

// Prompter poses questions to the operator. The terminal implementation
// blocks on input; the automated implementation resolves every question
// from its default without ever reading an input stream.
type Prompter interface {
	// Confirm asks a yes/no question. def is the answer used when the
	// operator just accepts, and the answer automated mode resolves to.
	Confirm(title string, def bool) (bool, error)

	// Input asks for a free-text value. validate is re-applied until the
	// input passes or the operator aborts; automated mode returns def.
	Input(title, def string, validate func(string) error) (string, error)

	// Password asks for a value without echoing it.
	Password(title string) (string, error)

	// Select asks the operator to pick one of the options, by key.
	Select(title string, options []SelectOption) (string, error)
}

// SelectOption is a single menu entry.
type SelectOption struct {
	Key   string
	Label string
}
