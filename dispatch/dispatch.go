// Package dispatch hands a confirmed invoice to the payer's wallet of
// choice. Wallet quirks live in a flat table: most take a lightning: URI,
// some wrap the invoice in their own scheme, and a few only accept an lnurl
// and need a second acquisition round trip on demand.
package dispatch

import (
	"net/url"

	"citadel.sx/zapgate/invoice"
)

type (
	// LinkBuilder turns an invoice into a wallet-openable URI.
	LinkBuilder func(inv invoice.Invoice) (uri string)

	Wallet struct {
		// Name shown to the payer
		Name string
		// Link builds the deep link. Nil when NeedsLnurl
		Link LinkBuilder
		// NeedsLnurl wallets ignore BOLT11 deep links and require a
		// freshly fetched lnurl instead
		NeedsLnurl bool
	}
)

// DefaultLink is the plain lightning: URI accepted by most wallets.
func DefaultLink(inv invoice.Invoice) (uri string) {
	return "lightning:" + inv.String()
}

func schemeLink(scheme string) LinkBuilder {
	return func(inv invoice.Invoice) (uri string) {
		return scheme + "lightning:" + inv.String()
	}
}

func queryLink(prefix string) LinkBuilder {
	return func(inv invoice.Invoice) (uri string) {
		return prefix + url.QueryEscape(inv.String())
	}
}

// Wallets maps a wallet key to its transport quirk. Adding a wallet means
// adding a row here, nothing else.
var Wallets = map[string]Wallet{
	"default":         {Name: "Lightning wallet", Link: DefaultLink},
	"bluewallet":      {Name: "BlueWallet", Link: schemeLink("bluewallet:")},
	"zeus":            {Name: "Zeus", Link: schemeLink("zeusln:")},
	"breez":           {Name: "Breez", Link: queryLink("breez:?invoice=")},
	"walletofsatoshi": {Name: "Wallet of Satoshi", NeedsLnurl: true},
}

// Links builds every directly dispatchable deep link for an invoice.
func Links(inv invoice.Invoice) (links map[string]string) {
	links = make(map[string]string, len(Wallets))
	for key, wallet := range Wallets {
		if wallet.NeedsLnurl {
			continue
		}
		links[key] = wallet.Link(inv)
	}
	return links
}
