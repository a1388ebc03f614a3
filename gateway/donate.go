package gateway

import (
	"context"
	"errors"
	"fmt"

	"citadel.sx/zapgate/invoice"
	"citadel.sx/zapgate/issuers"
	"github.com/google/uuid"
)

var ErrInvalidAmount = errors.New("donation amount must be positive")

type (
	// DonationRequest is immutable once submitted.
	DonationRequest struct {
		// Amount of the donation in satoshis
		AmountSats int64
		// Free-text note from the donor
		MemoNote string
		// Opaque display fields, used only for the downstream notification
		Metadata map[string]string
	}
	Donation struct {
		// Identifier of the donation
		Id uuid.UUID
		// Invoice the payer settles out-of-band
		Invoice invoice.Invoice
	}
)

// CorrelationSuffix is the memo tag a payment notification is matched on.
func CorrelationSuffix(id uuid.UUID) string {
	return " donation:" + id.String()
}

// Donate issues an invoice for the request and registers the pending entry
// before returning, so a payment notification racing the HTTP response can
// still be correlated.
func (c *Controller) Donate(ctx context.Context, req DonationRequest) (donation Donation, err error) {
	if req.AmountSats <= 0 {
		return donation, fmt.Errorf("%w: got %d sats", ErrInvalidAmount, req.AmountSats)
	}

	id := uuid.New()
	inv, err := c.issuer.Issue(ctx, issuers.Request{
		AmountSats: req.AmountSats,
		Memo:       req.MemoNote,
		Suffix:     CorrelationSuffix(id),
	})
	if err != nil {
		return donation, fmt.Errorf("failed to issue invoice: %w", err)
	}

	err = c.store.Put(PendingDonation{
		Id:         id,
		Invoice:    inv,
		AmountSats: req.AmountSats,
		Memo:       req.MemoNote,
		Metadata:   req.Metadata,
	})
	if err != nil {
		return donation, fmt.Errorf("failed to register pending donation: %w", err)
	}

	return Donation{Id: id, Invoice: inv}, nil
}
