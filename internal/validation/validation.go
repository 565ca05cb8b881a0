// Package validation provides field validators and the pre-flight host
// checks that run before any step.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Common validation errors.
var (
	ErrEmptyInput     = errors.New("input cannot be empty")
	ErrInvalidDomain  = errors.New("invalid domain name")
	ErrInvalidAccount = errors.New("invalid account name")
)

var (
	// labelRegex matches one DNS label: alphanumeric, hyphens inside only.
	labelRegex = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)

	// tldRegex matches a conventional top-level domain.
	tldRegex = regexp.MustCompile(`^[a-z]{2,}$`)

	// accountRegex matches a conservative Linux account name.
	accountRegex = regexp.MustCompile(`^[a-z_][a-z0-9_-]{0,31}$`)
)

// ValidateDomain accepts either a conventional label.label...tld form
// or a single-label .local form. A bare label without a TLD is
// rejected.
func ValidateDomain(domain string) error {
	d := strings.ToLower(strings.TrimSpace(domain))
	if d == "" {
		return ErrEmptyInput
	}
	if len(d) > 253 {
		return fmt.Errorf("%w: %q is too long", ErrInvalidDomain, domain)
	}

	labels := strings.Split(d, ".")
	if len(labels) < 2 {
		return fmt.Errorf("%w: %q has no top-level domain (use name.local for a local site)", ErrInvalidDomain, domain)
	}

	for _, label := range labels {
		if !labelRegex.MatchString(label) {
			return fmt.Errorf("%w: label %q in %q", ErrInvalidDomain, label, domain)
		}
	}

	tld := labels[len(labels)-1]
	if tld != "local" && !tldRegex.MatchString(tld) {
		return fmt.Errorf("%w: top-level domain %q in %q", ErrInvalidDomain, tld, domain)
	}

	return nil
}

// ValidateAccountName validates a service account name.
func ValidateAccountName(name string) error {
	if name == "" {
		return ErrEmptyInput
	}
	if !accountRegex.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidAccount, name)
	}
	return nil
}

// DomainOrDefault returns domain when valid, otherwise falls back to
// def. Used on non-interactive paths where invalid configured input
// degrades to a warning instead of failing the run. The returned bool
// reports whether the fallback was taken.
func DomainOrDefault(domain, def string) (string, bool) {
	if err := ValidateDomain(domain); err != nil {
		return def, true
	}
	return domain, false
}
