// Package invoice holds the BOLT11 payment request value type. Invoices are
// opaque here: only their outer shape is checked, their fields never decoded.
package invoice

import (
	"errors"
	"regexp"
	"strings"
)

var ErrInvalidShape = errors.New("invalid invoice shape")

// Canonical BOLT11 prefix: ln + network tag + alphanumeric body.
var shape = regexp.MustCompile(`(?i)^ln(bc|tb|tbs|bcrt)[a-z0-9]+$`)

// Invoice is a BOLT11-encoded payment request.
type Invoice string

func (i Invoice) String() string { return string(i) }

// Normalize strips surrounding whitespace and a leading lightning: scheme.
func Normalize(raw string) string {
	raw = strings.TrimSpace(raw)
	if len(raw) >= 10 && strings.EqualFold(raw[:10], "lightning:") {
		raw = raw[10:]
	}
	return raw
}

// Parse normalizes raw and validates it matches the BOLT11 shape.
func Parse(raw string) (Invoice, error) {
	normalized := Normalize(raw)
	if !shape.MatchString(normalized) {
		return "", ErrInvalidShape
	}
	return Invoice(normalized), nil
}
