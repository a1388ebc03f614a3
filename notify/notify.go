// Package notify delivers the downstream side-effect fired when a donation
// is correlated with a received payment.
package notify

import (
	"context"

	"github.com/google/uuid"
)

type (
	// Receipt describes a settled donation for downstream consumers.
	Receipt struct {
		// Identifier of the donation
		DonationId uuid.UUID `json:"donationId"`
		// Amount of the donation in satoshis
		AmountSats int64 `json:"amountSats"`
		// Free-text note from the donor
		Memo string `json:"memo,omitempty"`
		// Display fields captured when the donation was created
		Metadata map[string]string `json:"metadata,omitempty"`
	}
)

// Notifier fires the downstream notification for a settled donation.
type Notifier interface {
	Notify(ctx context.Context, receipt Receipt) error
}
