package step

// Meta carries the static identity of a step. Provider step types embed
// it so they only implement Precheck and Apply.
type Meta struct {
	StepID          ID
	StepKind        Kind
	StepTitle       string
	IsFatal         bool
	AcceptByDefault bool
}

// NewMeta builds step metadata with a default-yes gate.
func NewMeta(id string, kind Kind, title string, fatal bool) Meta {
	return Meta{
		StepID:          MustNewID(id),
		StepKind:        kind,
		StepTitle:       title,
		IsFatal:         fatal,
		AcceptByDefault: true,
	}
}

// WithDefaultDecline returns a copy whose interactive gate defaults to no.
func (m Meta) WithDefaultDecline() Meta {
	m.AcceptByDefault = false
	return m
}

// ID returns the step identifier.
func (m Meta) ID() ID {
	return m.StepID
}

// Kind returns the step kind.
func (m Meta) Kind() Kind {
	return m.StepKind
}

// Title returns the human-readable step name.
func (m Meta) Title() string {
	return m.StepTitle
}

// Fatal reports whether a failure halts the run.
func (m Meta) Fatal() bool {
	return m.IsFatal
}

// DefaultAccept returns the gate's default answer.
func (m Meta) DefaultAccept() bool {
	return m.AcceptByDefault
}
