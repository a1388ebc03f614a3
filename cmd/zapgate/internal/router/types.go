package router

import (
	"errors"
	"net/http"

	"citadel.sx/zapgate/dispatch"
	"citadel.sx/zapgate/gateway"
	"citadel.sx/zapgate/invoice"
	"citadel.sx/zapgate/issuers"
	"citadel.sx/zapgate/lnurl"
	"github.com/google/uuid"
)

type Error struct {
	Message string `json:"message"`
}

type DonationRequest struct {
	AmountSats int64             `json:"amountSats"`
	MemoNote   string            `json:"memoNote,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

func RequestToGateway(src *DonationRequest) (out gateway.DonationRequest) {
	return gateway.DonationRequest{
		AmountSats: src.AmountSats,
		MemoNote:   src.MemoNote,
		Metadata:   src.Metadata,
	}
}

type Donation struct {
	DonationId uuid.UUID `json:"donationId"`
	Invoice    string    `json:"invoice"`
	// Per-wallet deep links for the invoice
	Links map[string]string `json:"links"`
}

func DonationFromGateway(src *gateway.Donation) (out Donation) {
	return Donation{
		DonationId: src.Id,
		Invoice:    src.Invoice.String(),
		Links:      dispatch.Links(src.Invoice),
	}
}

type LnurlDonation struct {
	DonationId uuid.UUID `json:"donationId"`
	Lnurl      string    `json:"lnurl"`
}

func LnurlDonationFromGateway(src *gateway.LnurlDonation) (out LnurlDonation) {
	return LnurlDonation{
		DonationId: src.Id,
		Lnurl:      src.Lnurl,
	}
}

// PaymentEvent is the provider payload posted to the webhook. Field names
// vary between providers; unknown shapes simply correlate to nothing.
type PaymentEvent struct {
	Type    string `json:"type"`
	Memo    string `json:"memo"`
	Invoice string `json:"invoice,omitempty"`
}

func EventToGateway(src *PaymentEvent) (out gateway.PaymentNotification) {
	return gateway.PaymentNotification{
		Type:    src.Type,
		Memo:    src.Memo,
		Invoice: src.Invoice,
	}
}

// StatusFor maps engine errors to HTTP statuses: user-correctable amounts
// to 400, upstream misbehavior to 502, configuration faults to 500.
func StatusFor(err error) (status int) {
	switch {
	case errors.Is(err, gateway.ErrInvalidAmount),
		errors.Is(err, lnurl.ErrInvalidAmount),
		errors.Is(err, lnurl.ErrBelowMinimum),
		errors.Is(err, lnurl.ErrAboveMaximum):
		return http.StatusBadRequest
	case errors.Is(err, issuers.ErrUnavailable),
		errors.Is(err, invoice.ErrInvalidShape):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
