package gateway

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"citadel.sx/zapgate/invoice"
	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("pending donation not found")
	// ErrDuplicateInvoice means two live donations claim the same invoice
	// string. Invoices are generated per request so this is a logic error,
	// never something to overwrite silently.
	ErrDuplicateInvoice = errors.New("duplicate invoice for pending donation")
)

// DefaultTimeout until an unclaimed pending donation expires.
const DefaultTimeout = 30 * time.Minute

// PendingDonation correlates an issued invoice with the context needed to
// act on its payment. Owned exclusively by the Store.
type PendingDonation struct {
	// Identifier of the donation
	Id uuid.UUID
	// Invoice issued for it. Empty in the lnurl flow, where the payee's
	// server issues the invoice and correlation runs on the memo key only
	Invoice invoice.Invoice
	// Amount of the donation in satoshis
	AmountSats int64
	// Free-text note from the donor
	Memo string
	// Display fields for the downstream notification
	Metadata map[string]string
	// Creation time of the entry
	CreatedAt time.Time
	// Expiration time of the entry
	ExpiresAt time.Time
}

// Store is the at-most-once correlation table between invoices and pending
// donations. The lock guards only map mutation, never network calls. Expiry
// is enforced on every read so correctness never depends on sweep timing.
type Store struct {
	mu        sync.Mutex
	timeout   time.Duration
	now       func() time.Time
	byId      map[uuid.UUID]PendingDonation
	byInvoice map[invoice.Invoice]uuid.UUID
}

func NewStore(timeout time.Duration) (s *Store) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Store{
		timeout:   timeout,
		now:       time.Now,
		byId:      make(map[uuid.UUID]PendingDonation),
		byInvoice: make(map[invoice.Invoice]uuid.UUID),
	}
}

// Put registers a pending donation, stamping CreatedAt and ExpiresAt.
func (s *Store) Put(p PendingDonation) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, exists := s.byId[p.Id]
	if exists {
		return fmt.Errorf("donation %s already pending", p.Id)
	}
	if p.Invoice != "" {
		_, exists = s.byInvoice[p.Invoice]
		if exists {
			return ErrDuplicateInvoice
		}
	}

	p.CreatedAt = s.now()
	p.ExpiresAt = p.CreatedAt.Add(s.timeout)
	s.byId[p.Id] = p
	if p.Invoice != "" {
		s.byInvoice[p.Invoice] = p.Id
	}
	return nil
}

// TakeById atomically removes and returns the entry when present and live.
func (s *Store) TakeById(id uuid.UUID) (p PendingDonation, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.take(id)
}

// TakeByInvoice atomically removes and returns the entry issued for the
// invoice. Concurrent calls for the same invoice succeed at most once.
func (s *Store) TakeByInvoice(inv invoice.Invoice) (p PendingDonation, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, exists := s.byInvoice[inv]
	if !exists {
		return p, ErrNotFound
	}
	return s.take(id)
}

func (s *Store) take(id uuid.UUID) (p PendingDonation, err error) {
	p, exists := s.byId[id]
	if !exists {
		return p, ErrNotFound
	}
	s.remove(p)
	if s.now().After(p.ExpiresAt) {
		return PendingDonation{}, ErrNotFound
	}
	return p, nil
}

func (s *Store) remove(p PendingDonation) {
	delete(s.byId, p.Id)
	if p.Invoice != "" {
		delete(s.byInvoice, p.Invoice)
	}
}

// Sweep drops expired entries for memory hygiene. Reads already treat
// expired entries as absent, so sweeping is optional.
func (s *Store) Sweep() (removed int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for _, p := range s.byId {
		if now.After(p.ExpiresAt) {
			s.remove(p)
			removed++
		}
	}
	return removed
}

// Len reports the number of entries, expired or not.
func (s *Store) Len() (n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byId)
}
