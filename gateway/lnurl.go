package gateway

import (
	"context"
	"errors"
	"fmt"

	"citadel.sx/zapgate/issuers"
	"citadel.sx/zapgate/lnurl"
	"github.com/google/uuid"
)

type LnurlDonation struct {
	// Identifier of the donation
	Id uuid.UUID
	// Lnurl is the bech32 lnurl string the payer's wallet resolves itself
	Lnurl string
}

// DonateLnurl builds a bech32 lnurl wrapping the payee's pay callback with
// the amount and comment baked in, for wallets that prefer to fetch the
// invoice themselves. The engine never sees the resulting invoice, so the
// pending entry correlates on the memo key alone.
func (c *Controller) DonateLnurl(ctx context.Context, req DonationRequest) (donation LnurlDonation, err error) {
	if req.AmountSats <= 0 {
		return donation, fmt.Errorf("%w: got %d sats", ErrInvalidAmount, req.AmountSats)
	}

	params, err := c.resolver.ResolveAddress(ctx, c.address)
	if err != nil {
		if errors.Is(err, lnurl.ErrMalformedAddress) {
			return donation, err
		}
		return donation, fmt.Errorf("%w: %s", issuers.ErrUnavailable, err)
	}

	msats := lnurl.MsatFromSat(req.AmountSats)
	err = params.CheckAmount(msats)
	if err != nil {
		return donation, err
	}

	id := uuid.New()
	comment := lnurl.TrimComment(req.MemoNote, CorrelationSuffix(id), params.CommentAllowed)
	callback, err := lnurl.CallbackURL(params.Callback, msats, comment)
	if err != nil {
		return donation, err
	}

	encoded, err := lnurl.EncodeURL(callback)
	if err != nil {
		return donation, fmt.Errorf("failed to encode lnurl: %w", err)
	}

	err = c.store.Put(PendingDonation{
		Id:         id,
		AmountSats: req.AmountSats,
		Memo:       req.MemoNote,
		Metadata:   req.Metadata,
	})
	if err != nil {
		return donation, fmt.Errorf("failed to register pending donation: %w", err)
	}

	return LnurlDonation{Id: id, Lnurl: encoded}, nil
}
