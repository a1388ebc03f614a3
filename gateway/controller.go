// Package gateway turns donation requests into Lightning invoices and
// correlates later payment notifications back to them. It holds no funds and
// keeps no durable state: the pending table is the only shared resource.
package gateway

import (
	"time"

	"citadel.sx/zapgate/issuers"
	"citadel.sx/zapgate/lnurl"
	"citadel.sx/zapgate/notify"
)

type Controller struct {
	issuer     issuers.Issuer
	notifier   notify.Notifier
	resolver   *lnurl.Client
	address    string
	store      *Store
	extractors []Extractor
}

type Config struct {
	// Issuer strategy producing BOLT11 invoices. Chosen once at startup
	Issuer issuers.Issuer
	// Notifier fired once per correlated donation
	Notifier notify.Notifier
	// Resolver for LNURL-pay endpoints, used by the donation-lnurl flow
	Resolver *lnurl.Client
	// Address of the payee, name@domain, for the donation-lnurl flow
	Address string
	// Timeout until an unclaimed pending donation expires.
	// Defaults to DefaultTimeout
	Timeout time.Duration
	// Extractors resolving a correlation key from a payment notification.
	// Defaults to memo key with invoice fallback
	Extractors []Extractor
}

func New(config Config) (ctrl Controller) {
	ctrl.issuer = config.Issuer
	ctrl.notifier = config.Notifier
	ctrl.resolver = config.Resolver
	ctrl.address = config.Address
	ctrl.store = NewStore(config.Timeout)
	ctrl.extractors = config.Extractors
	if ctrl.extractors == nil {
		ctrl.extractors = []Extractor{MemoKey, InvoiceKey}
	}
	if ctrl.resolver == nil {
		ctrl.resolver = lnurl.NewClient(lnurl.ClientConfig{})
	}
	return ctrl
}

// Store exposes the pending table for sweeping and tests.
func (c *Controller) Store() *Store {
	return c.store
}
