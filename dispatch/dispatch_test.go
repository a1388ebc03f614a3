package dispatch_test

import (
	"context"
	"errors"
	"testing"

	"citadel.sx/zapgate/dispatch"
	"citadel.sx/zapgate/invoice"
	"github.com/stretchr/testify/assert"
)

const testInvoice = invoice.Invoice("lnbc210n1validbody")

func Test_Links(t *testing.T) {
	t.Parallel()
	assertions := assert.New(t)

	links := dispatch.Links(testInvoice)
	assertions.Equal("lightning:lnbc210n1validbody", links["default"])
	assertions.Equal("bluewallet:lightning:lnbc210n1validbody", links["bluewallet"])
	assertions.Equal("breez:?invoice=lnbc210n1validbody", links["breez"])
	assertions.NotContains(links, "walletofsatoshi", "lnurl-preferring wallets have no direct link")
}

func Test_Presenter_DirectDispatch(t *testing.T) {
	t.Parallel()
	assertions := assert.New(t)

	p := dispatch.NewPresenter(nil)
	assertions.Equal(dispatch.StateIdle, p.State())

	// Selecting before any invoice is ready is a visible no-op.
	_, ok := p.Select(context.Background(), "default")
	assertions.False(ok)
	assertions.NotEmpty(p.Status)

	p.SetInvoice(testInvoice, 21, "thanks")
	assertions.Equal(dispatch.StateInvoiceReady, p.State())
	assertions.Empty(p.Status)

	uri, ok := p.Select(context.Background(), "zeus")
	assertions.True(ok, "direct dispatch failed: %s", p.Status)
	assertions.Equal("zeusln:lightning:lnbc210n1validbody", uri)
	assertions.Equal(dispatch.StateWalletSelected, p.State())

	p.Close()
	assertions.Equal(dispatch.StateClosed, p.State())
}

func Test_Presenter_UnknownWallet(t *testing.T) {
	t.Parallel()
	assertions := assert.New(t)

	p := dispatch.NewPresenter(nil)
	p.SetInvoice(testInvoice, 21, "")

	_, ok := p.Select(context.Background(), "nonesuch")
	assertions.False(ok)
	assertions.Contains(p.Status, "nonesuch")
}

func Test_Presenter_LnurlWallet(t *testing.T) {
	t.Parallel()
	assertions := assert.New(t)

	var gotAmount int64
	var gotMemo string
	fetch := func(ctx context.Context, amountSats int64, memo string) (string, error) {
		gotAmount = amountSats
		gotMemo = memo
		return "lnurl1fresh", nil
	}

	p := dispatch.NewPresenter(fetch)
	p.SetInvoice(testInvoice, 21, "thanks")

	uri, ok := p.Select(context.Background(), "walletofsatoshi")
	assertions.True(ok, "lnurl dispatch failed: %s", p.Status)
	assertions.Equal("lightning:lnurl1fresh", uri)
	assertions.Equal(int64(21), gotAmount, "secondary fetch reuses the original amount")
	assertions.Equal("thanks", gotMemo, "secondary fetch reuses the original memo")
}

func Test_Presenter_LnurlFetchFailure(t *testing.T) {
	t.Parallel()
	assertions := assert.New(t)

	fetch := func(ctx context.Context, amountSats int64, memo string) (string, error) {
		return "", errors.New("endpoint offline")
	}

	p := dispatch.NewPresenter(fetch)
	p.SetInvoice(testInvoice, 21, "")

	_, ok := p.Select(context.Background(), "walletofsatoshi")
	assertions.False(ok)
	assertions.Equal(dispatch.StateInvoiceReady, p.State(), "failed fetch returns to invoice-ready, never idle")
	assertions.Contains(p.Status, "endpoint offline")

	// The flow can recover with a direct wallet.
	uri, ok := p.Select(context.Background(), "default")
	assertions.True(ok)
	assertions.Equal("lightning:lnbc210n1validbody", uri)
}
