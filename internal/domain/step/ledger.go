package step

import (
	"time"
)

// LedgerEntry records one completed step.
type LedgerEntry struct {
	ID   ID
	Kind Kind
	At   time.Time
}

// Ledger is the in-memory, append-only record of steps completed during
// the current run. It is not durable: a re-run re-derives "already
// done" from step prechecks, not from a persisted ledger.
type Ledger struct {
	entries []LedgerEntry
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// Append records a completed step.
func (l *Ledger) Append(id ID, kind Kind) {
	l.entries = append(l.entries, LedgerEntry{ID: id, Kind: kind, At: time.Now()})
}

// Entries returns the completed entries in completion order.
func (l *Ledger) Entries() []LedgerEntry {
	out := make([]LedgerEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Reversed returns the completed entries newest-first, the order
// rollback unwinds them in.
func (l *Ledger) Reversed() []LedgerEntry {
	out := make([]LedgerEntry, len(l.entries))
	for i, e := range l.entries {
		out[len(l.entries)-1-i] = e
	}
	return out
}

// Len returns the number of completed steps.
func (l *Ledger) Len() int {
	return len(l.entries)
}
