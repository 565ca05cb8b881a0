package secret

import (
	"fmt"
	"strings"
	"time"
)

// SummaryEntry is one credential listed in the human-readable summary.
type SummaryEntry struct {
	Label string
	Value string
}

// WriteSummary writes the plaintext credential summary (owner-only)
// that operators retrieve generated passwords from after the run.
func (s *Store) WriteSummary(domain string, entries []SummaryEntry) error {
	var b strings.Builder
	fmt.Fprintf(&b, "ERPNext installation credentials\n")
	fmt.Fprintf(&b, "Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(&b, "Site: %s\n\n", domain)
	for _, e := range entries {
		fmt.Fprintf(&b, "%s: %s\n", e.Label, e.Value)
	}
	return s.Persist("credentials.txt", strings.TrimRight(b.String(), "\n"))
}
