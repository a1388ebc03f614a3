package lnurl

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrBelowMinimum  = errors.New("amount below minimum")
	ErrAboveMaximum  = errors.New("amount above maximum")
)

// PayParams is the payee metadata served by an LNURL-pay well-known endpoint.
// Amount bounds are expressed in millisatoshis. Fetched fresh per donation,
// never cached, since the payee can change them at any time.
type PayParams struct {
	Callback       string `json:"callback"`
	MinSendable    int64  `json:"minSendable"`
	MaxSendable    int64  `json:"maxSendable"`
	CommentAllowed int64  `json:"commentAllowed"`
}

// MsatFromSat converts whole satoshis to millisatoshis.
func MsatFromSat(sats int64) int64 {
	return sats * 1000
}

// CheckAmount validates a requested amount against the sendable bounds.
// Bound violations carry the sat-denominated bound so callers can show it.
func (p *PayParams) CheckAmount(msats int64) error {
	if msats <= 0 {
		return fmt.Errorf("%w: %d msats", ErrInvalidAmount, msats)
	}
	if msats < p.MinSendable {
		return fmt.Errorf("%w: minimum is %d sats", ErrBelowMinimum, p.MinSendable/1000)
	}
	if msats > p.MaxSendable {
		return fmt.Errorf("%w: maximum is %d sats", ErrAboveMaximum, p.MaxSendable/1000)
	}
	return nil
}

// TrimComment fits note+suffix into max characters by truncating the note only.
// The suffix carries the correlation key and is never cut. A non-positive max
// means the payee accepts no comment at all.
func TrimComment(note, suffix string, max int64) string {
	if max <= 0 {
		return ""
	}
	if int64(len(suffix)) >= max {
		// The correlation suffix is never cut, even when it alone overflows.
		return suffix
	}
	room := max - int64(len(suffix))
	if int64(len(note)) > room {
		cut := int(room)
		// Back off to a rune boundary so a multi-byte note is never split
		// into invalid UTF-8.
		for cut > 0 && !utf8.RuneStart(note[cut]) {
			cut--
		}
		note = note[:cut]
	}
	return note + suffix
}

// SplitAddress breaks a name@domain lightning address into its parts.
func SplitAddress(address string) (name, domain string, err error) {
	parts := strings.SplitN(address, "@", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%w: %q", ErrMalformedAddress, address)
	}
	return parts[0], parts[1], nil
}
