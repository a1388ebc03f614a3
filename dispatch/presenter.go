package dispatch

import (
	"context"
	"fmt"

	"citadel.sx/zapgate/invoice"
)

type State string

const (
	StateIdle           State = "idle"
	StateInvoiceReady   State = "invoice-ready"
	StateWalletSelected State = "wallet-selected"
	StateClosed         State = "closed"
)

// LnurlFetch performs the secondary invoice-acquisition round trip for
// lnurl-preferring wallets, reusing the original amount and memo.
type LnurlFetch func(ctx context.Context, amountSats int64, memo string) (lnurl string, err error)

// Presenter drives the payer-facing wallet selection flow. Single-threaded
// cooperative state, no concurrent invocation expected; re-entrant selection
// while a fetch is pending is ignored.
type Presenter struct {
	state    State
	invoice  invoice.Invoice
	amount   int64
	memo     string
	fetch    LnurlFetch
	fetching bool
	// Status is the user-visible message of the last failure
	Status string
}

func NewPresenter(fetch LnurlFetch) (p *Presenter) {
	return &Presenter{state: StateIdle, fetch: fetch}
}

func (p *Presenter) State() State { return p.state }

// SetInvoice moves the presenter to invoice-ready for the given donation.
func (p *Presenter) SetInvoice(inv invoice.Invoice, amountSats int64, memo string) {
	p.invoice = inv
	p.amount = amountSats
	p.memo = memo
	p.state = StateInvoiceReady
	p.Status = ""
}

// Select dispatches the invoice to the named wallet. Lnurl-preferring
// wallets trigger the secondary fetch on demand; a failed fetch returns to
// invoice-ready with a status message, never silently to idle.
func (p *Presenter) Select(ctx context.Context, walletKey string) (uri string, ok bool) {
	if p.fetching {
		return "", false
	}
	if p.state != StateInvoiceReady {
		p.Status = "no invoice ready yet"
		return "", false
	}

	wallet, exists := Wallets[walletKey]
	if !exists {
		p.Status = fmt.Sprintf("unknown wallet %q", walletKey)
		return "", false
	}

	p.state = StateWalletSelected
	if !wallet.NeedsLnurl {
		return wallet.Link(p.invoice), true
	}

	p.fetching = true
	lnurl, err := p.fetch(ctx, p.amount, p.memo)
	p.fetching = false
	if err != nil {
		p.state = StateInvoiceReady
		p.Status = fmt.Sprintf("could not prepare %s: %s", wallet.Name, err)
		return "", false
	}
	return "lightning:" + lnurl, true
}

// Close ends the flow.
func (p *Presenter) Close() {
	p.state = StateClosed
	p.invoice = ""
	p.Status = ""
}
