// Package mock implements the issuers.Issuer interface for testing purposes.
package mock

import (
	"context"
	"fmt"
	"sync"

	"citadel.sx/zapgate/invoice"
	"citadel.sx/zapgate/issuers"
)

type Config struct {
	// Invoice returned on every issue. Defaults to a generated lnbc string
	Invoice string
	// Err returned instead of an invoice when set
	Err error
}

// Mock records every request and answers with a canned invoice or error.
type Mock struct {
	mu       sync.Mutex
	invoice  string
	err      error
	requests []issuers.Request
	counter  int
}

var _ issuers.Issuer = (*Mock)(nil)

func New(config Config) (m *Mock) {
	return &Mock{
		invoice: config.Invoice,
		err:     config.Err,
	}
}

func (m *Mock) Issue(ctx context.Context, req issuers.Request) (inv invoice.Invoice, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)
	if m.err != nil {
		return "", m.err
	}

	raw := m.invoice
	if raw == "" {
		m.counter++
		raw = fmt.Sprintf("lnbc%dn1mockinvoice%d", req.AmountSats*10, m.counter)
	}
	return invoice.Parse(raw)
}

// Requests returns a copy of every request seen so far.
func (m *Mock) Requests() (requests []issuers.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	requests = make([]issuers.Request, len(m.requests))
	copy(requests, m.requests)
	return requests
}
