package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDomain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		domain  string
		wantErr error
	}{
		{
			name:   "conventional domain",
			domain: "erp.company.com",
		},
		{
			name:   "two labels",
			domain: "example.org",
		},
		{
			name:   "local site",
			domain: "erp.local",
		},
		{
			name:   "deep subdomain",
			domain: "erp.internal.company.co",
		},
		{
			name:   "hyphen inside label",
			domain: "my-erp.company.com",
		},
		{
			name:   "uppercase normalized",
			domain: "ERP.Company.COM",
		},
		{
			name:   "surrounding whitespace trimmed",
			domain: "  erp.local  ",
		},
		{
			name:    "empty",
			domain:  "",
			wantErr: ErrEmptyInput,
		},
		{
			name:    "bare label without tld",
			domain:  "erp",
			wantErr: ErrInvalidDomain,
		},
		{
			name:    "label starts with hyphen",
			domain:  "-bad-.com",
			wantErr: ErrInvalidDomain,
		},
		{
			name:    "label ends with hyphen",
			domain:  "bad-.company.com",
			wantErr: ErrInvalidDomain,
		},
		{
			name:    "empty label",
			domain:  "erp..com",
			wantErr: ErrInvalidDomain,
		},
		{
			name:    "numeric tld",
			domain:  "erp.123",
			wantErr: ErrInvalidDomain,
		},
		{
			name:    "single-letter tld",
			domain:  "erp.c",
			wantErr: ErrInvalidDomain,
		},
		{
			name:    "overlong domain",
			domain:  strings.Repeat("a", 250) + ".com",
			wantErr: ErrInvalidDomain,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateDomain(tt.domain)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateAccountName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		account string
		wantErr error
	}{
		{name: "simple", account: "frappe"},
		{name: "with digits", account: "erp2"},
		{name: "underscore prefix", account: "_svc"},
		{name: "with hyphen", account: "erp-next"},
		{name: "empty", account: "", wantErr: ErrEmptyInput},
		{name: "leading digit", account: "2erp", wantErr: ErrInvalidAccount},
		{name: "uppercase", account: "Frappe", wantErr: ErrInvalidAccount},
		{name: "too long", account: strings.Repeat("a", 33), wantErr: ErrInvalidAccount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateAccountName(tt.account)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestDomainOrDefault(t *testing.T) {
	t.Parallel()

	domain, fellBack := DomainOrDefault("erp.company.com", "erp.local")
	assert.Equal(t, "erp.company.com", domain)
	assert.False(t, fellBack)

	domain, fellBack = DomainOrDefault("not a domain", "erp.local")
	assert.Equal(t, "erp.local", domain)
	assert.True(t, fellBack)
}
