// Package issuers defines the invoice issuance strategy used by the gateway.
// Exactly one implementation is selected at startup; the gateway never
// re-decides per request.
package issuers

import (
	"context"
	"errors"

	"citadel.sx/zapgate/invoice"
)

// ErrUnavailable marks a terminal issuance failure caused by the upstream:
// network errors, malformed responses, missing fields. The caller may retry
// the whole donation with a fresh attempt; issuers never retry internally.
var ErrUnavailable = errors.New("upstream unavailable")

type (
	Request struct {
		// Amount of the invoice in satoshis
		AmountSats int64
		// Free-text note from the donor. May be truncated to fit
		Memo string
		// Correlation suffix appended to the memo, e.g. " donation:<id>".
		// Never truncated
		Suffix string
	}
)

// Issuer produces a BOLT11 invoice for a donation request.
type Issuer interface {
	Issue(ctx context.Context, req Request) (invoice.Invoice, error)
}
