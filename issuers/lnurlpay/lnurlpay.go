// Package lnurlpay issues invoices by negotiating LNURL-pay against the
// payee's lightning address: well-known lookup, amount validation, then the
// invoice callback. Parameters are fetched fresh on every issuance.
package lnurlpay

import (
	"context"
	"fmt"

	"citadel.sx/zapgate/invoice"
	"citadel.sx/zapgate/issuers"
	"citadel.sx/zapgate/lnurl"
)

type Config struct {
	// Lightning address of the payee, name@domain
	Address string
	// Client for LNURL endpoints. Defaults to lnurl.NewClient defaults.
	Client *lnurl.Client
}

type Issuer struct {
	address string
	client  *lnurl.Client
}

var _ issuers.Issuer = (*Issuer)(nil)

func New(config Config) (i *Issuer) {
	i = &Issuer{
		address: config.Address,
		client:  config.Client,
	}
	if i.client == nil {
		i.client = lnurl.NewClient(lnurl.ClientConfig{})
	}
	return i
}

// Issue negotiates a fresh invoice through the payee's LNURL-pay endpoint.
// The memo travels as the comment parameter when the payee allows comments,
// truncated to the allowed length with the correlation suffix kept intact.
func (i *Issuer) Issue(ctx context.Context, req issuers.Request) (inv invoice.Invoice, err error) {
	params, err := i.client.ResolveAddress(ctx, i.address)
	if err != nil {
		return "", fmt.Errorf("%w: %s", issuers.ErrUnavailable, err)
	}

	msats := lnurl.MsatFromSat(req.AmountSats)
	err = params.CheckAmount(msats)
	if err != nil {
		return "", err
	}

	comment := lnurl.TrimComment(req.Memo, req.Suffix, params.CommentAllowed)
	pr, err := i.client.FetchInvoice(ctx, params.Callback, msats, comment)
	if err != nil {
		return "", fmt.Errorf("%w: %s", issuers.ErrUnavailable, err)
	}

	inv, err = invoice.Parse(pr)
	if err != nil {
		return "", fmt.Errorf("callback returned %q: %w", pr, err)
	}
	return inv, nil
}
