package gateway

import (
	"context"
	"errors"
	"log"
	"regexp"
	"strings"

	"citadel.sx/zapgate/invoice"
	"citadel.sx/zapgate/notify"
	"github.com/google/uuid"
)

type (
	// PaymentNotification is the transient event a payment provider posts
	// to the webhook. Not persisted.
	PaymentNotification struct {
		// Type of the event as named by the provider
		Type string
		// Memo text attached to the settled invoice
		Memo string
		// Invoice the provider says was settled, when its payload has one
		Invoice string
	}

	// CorrelationKey is a resolved lookup into the pending table: either a
	// donation id recovered from the memo or the invoice string itself.
	CorrelationKey struct {
		DonationId uuid.UUID
		Invoice    invoice.Invoice
	}

	// Extractor recovers a correlation key from a notification. Providers
	// shape their payloads differently, so extraction is a strategy list
	// tried in order.
	Extractor func(n PaymentNotification) (key CorrelationKey, ok bool)
)

var memoKeyPattern = regexp.MustCompile(`(?i)donation:([a-f0-9-]+)`)

// MemoKey matches the donation tag inside the notification's memo text.
func MemoKey(n PaymentNotification) (key CorrelationKey, ok bool) {
	match := memoKeyPattern.FindStringSubmatch(n.Memo)
	if match == nil {
		return key, false
	}
	id, err := uuid.Parse(match[1])
	if err != nil {
		return key, false
	}
	return CorrelationKey{DonationId: id}, true
}

// InvoiceKey falls back to the notification's own invoice field.
func InvoiceKey(n PaymentNotification) (key CorrelationKey, ok bool) {
	if n.Invoice == "" {
		return key, false
	}
	return CorrelationKey{Invoice: invoice.Invoice(invoice.Normalize(n.Invoice))}, true
}

// isReceived filters for events that mean money arrived. Everything else,
// sends included, is ignored.
func isReceived(eventType string) bool {
	switch strings.ToLower(eventType) {
	case "receive", "received", "payment.received", "invoice.paid":
		return true
	}
	return false
}

// HandleNotification maps a payment notification back to the donation that
// caused it and fires the downstream notification once. It never reports
// failure: webhook delivery is at-least-once, so an unknown, already
// consumed or expired key is acknowledged silently and internal errors are
// logged and swallowed.
func (c *Controller) HandleNotification(ctx context.Context, n PaymentNotification) {
	if !isReceived(n.Type) {
		return
	}

	pending, found := c.correlate(n)
	if !found {
		return
	}

	err := c.notifier.Notify(ctx, notify.Receipt{
		DonationId: pending.Id,
		AmountSats: pending.AmountSats,
		Memo:       pending.Memo,
		Metadata:   pending.Metadata,
	})
	if err != nil {
		log.Println("ERROR|NOTIFY|DONATION", pending.Id, err)
	}
}

func (c *Controller) correlate(n PaymentNotification) (pending PendingDonation, found bool) {
	for _, extract := range c.extractors {
		key, ok := extract(n)
		if !ok {
			continue
		}

		var err error
		if key.DonationId != uuid.Nil {
			pending, err = c.store.TakeById(key.DonationId)
		} else {
			pending, err = c.store.TakeByInvoice(key.Invoice)
		}
		switch {
		case err == nil:
			return pending, true
		case errors.Is(err, ErrNotFound):
			continue
		default:
			log.Println("ERROR|CORRELATE|PAYMENT", err)
			continue
		}
	}
	return pending, false
}
