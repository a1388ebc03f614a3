// Package mock implements the notify.Notifier interface for testing purposes.
package mock

import (
	"context"
	"sync"

	"citadel.sx/zapgate/notify"
)

// Mock records every receipt it is asked to deliver.
type Mock struct {
	mu       sync.Mutex
	err      error
	receipts []notify.Receipt
}

var _ notify.Notifier = (*Mock)(nil)

func New(err error) (m *Mock) {
	return &Mock{err: err}
}

func (m *Mock) Notify(ctx context.Context, receipt notify.Receipt) (err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.receipts = append(m.receipts, receipt)
	return m.err
}

// Receipts returns a copy of every receipt delivered so far.
func (m *Mock) Receipts() (receipts []notify.Receipt) {
	m.mu.Lock()
	defer m.mu.Unlock()
	receipts = make([]notify.Receipt, len(m.receipts))
	copy(receipts, m.receipts)
	return receipts
}
