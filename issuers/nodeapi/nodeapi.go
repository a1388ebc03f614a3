// Package nodeapi issues invoices through an authenticated node REST API.
// The payee's BTC-denominated wallet id is resolved once and cached since
// it never changes for a given account.
package nodeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"citadel.sx/zapgate/invoice"
	"citadel.sx/zapgate/issuers"
)

const DefaultTimeout = 30 * time.Second

type Config struct {
	// Base URL of the node API, e.g. https://api.example.com
	Url string
	// API key sent as X-API-KEY on every request. Optional when the
	// http.Client transport already authenticates (digest auth).
	ApiKey string
	// Client to use for requests. Defaults to one with DefaultTimeout.
	Client *http.Client
}

type Issuer struct {
	url    string
	apiKey string
	http   *http.Client

	mu       sync.Mutex
	walletId string
}

var _ issuers.Issuer = (*Issuer)(nil)

func New(config Config) (i *Issuer) {
	i = &Issuer{
		url:    config.Url,
		apiKey: config.ApiKey,
		http:   config.Client,
	}
	if i.http == nil {
		i.http = &http.Client{Timeout: DefaultTimeout}
	}
	return i
}

type wallet struct {
	Id       string `json:"id"`
	Currency string `json:"walletCurrency"`
}

// btcWalletId returns the cached BTC wallet id, resolving it on first use.
// The mutex guards only the cache, never the network round trip, so
// concurrent first issuances don't queue behind each other's lookups.
func (i *Issuer) btcWalletId(ctx context.Context) (id string, err error) {
	i.mu.Lock()
	id = i.walletId
	i.mu.Unlock()
	if id != "" {
		return id, nil
	}

	body, err := i.do(ctx, http.MethodGet, "/wallets", nil)
	if err != nil {
		return "", fmt.Errorf("failed to list wallets: %w", err)
	}

	var wallets []wallet
	err = json.Unmarshal(body, &wallets)
	if err != nil {
		return "", fmt.Errorf("%w: failed to decode wallets: %s", issuers.ErrUnavailable, err)
	}
	for _, w := range wallets {
		if w.Currency == "BTC" {
			i.mu.Lock()
			i.walletId = w.Id
			i.mu.Unlock()
			return w.Id, nil
		}
	}
	return "", fmt.Errorf("%w: no BTC wallet on account", issuers.ErrUnavailable)
}

// Issue creates an invoice on the node for the requested amount and memo.
func (i *Issuer) Issue(ctx context.Context, req issuers.Request) (inv invoice.Invoice, err error) {
	walletId, err := i.btcWalletId(ctx)
	if err != nil {
		return "", err
	}

	payload, _ := json.Marshal(map[string]any{
		"walletId":   walletId,
		"amountSats": req.AmountSats,
		"memo":       req.Memo + req.Suffix,
	})
	body, err := i.do(ctx, http.MethodPost, "/invoices", payload)
	if err != nil {
		return "", fmt.Errorf("failed to create invoice: %w", err)
	}

	var result struct {
		Invoice        string `json:"invoice"`
		PaymentRequest string `json:"paymentRequest"`
	}
	err = json.Unmarshal(body, &result)
	if err != nil {
		return "", fmt.Errorf("%w: failed to decode invoice response: %s", issuers.ErrUnavailable, err)
	}

	raw := result.Invoice
	if raw == "" {
		raw = result.PaymentRequest
	}
	inv, err = invoice.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("node returned %q: %w", raw, err)
	}
	return inv, nil
}

func (i *Issuer) do(ctx context.Context, method, path string, payload []byte) (body []byte, err error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, i.url+path, reader)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if i.apiKey != "" {
		req.Header.Set("X-API-KEY", i.apiKey)
	}

	resp, err := i.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", issuers.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %s", issuers.ErrUnavailable, err)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: status %d: %s", issuers.ErrUnavailable, resp.StatusCode, body)
	}
	return body, nil
}
