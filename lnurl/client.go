package lnurl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

var ErrMalformedAddress = errors.New("malformed lightning address")

const DefaultTimeout = 15 * time.Second

// Client talks to LNURL-pay endpoints: the well-known lookup and the
// invoice callback. Every call has a bounded timeout.
type Client struct {
	http *http.Client
}

type ClientConfig struct {
	// Client to use for requests. Defaults to one with DefaultTimeout.
	Client *http.Client
}

func NewClient(config ClientConfig) (c *Client) {
	c = &Client{http: config.Client}
	if c.http == nil {
		c.http = &http.Client{Timeout: DefaultTimeout}
	}
	return c
}

// WellKnownURL derives the LNURL-pay lookup URL from a name@domain address.
func WellKnownURL(address string) (string, error) {
	name, domain, err := SplitAddress(address)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("https://%s/.well-known/lnurlp/%s", domain, name), nil
}

// ResolveAddress fetches the pay parameters for a lightning address.
func (c *Client) ResolveAddress(ctx context.Context, address string) (params PayParams, err error) {
	lookup, err := WellKnownURL(address)
	if err != nil {
		return params, err
	}

	body, err := c.get(ctx, lookup)
	if err != nil {
		return params, fmt.Errorf("failed to resolve %s: %w", address, err)
	}

	err = json.Unmarshal(body, &params)
	if err != nil {
		return params, fmt.Errorf("failed to decode pay params: %w", err)
	}
	if params.Callback == "" {
		return params, fmt.Errorf("empty callback from %s", address)
	}
	return params, nil
}

// CallbackURL appends the amount and optional comment parameters to a
// pay callback, preserving any query the callback already carries.
func CallbackURL(callback string, msats int64, comment string) (string, error) {
	u, err := url.Parse(callback)
	if err != nil {
		return "", fmt.Errorf("failed to parse callback: %w", err)
	}
	q := u.Query()
	q.Set("amount", strconv.FormatInt(msats, 10))
	if comment != "" {
		q.Set("comment", comment)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// FetchInvoice requests a payment request from a pay callback. Providers
// disagree on the field name so both pr and paymentRequest are accepted.
func (c *Client) FetchInvoice(ctx context.Context, callback string, msats int64, comment string) (pr string, err error) {
	target, err := CallbackURL(callback, msats, comment)
	if err != nil {
		return "", err
	}

	body, err := c.get(ctx, target)
	if err != nil {
		return "", fmt.Errorf("callback request failed: %w", err)
	}

	var result struct {
		PR             string `json:"pr"`
		PaymentRequest string `json:"paymentRequest"`
		Status         string `json:"status"`
		Reason         string `json:"reason"`
	}
	err = json.Unmarshal(body, &result)
	if err != nil {
		return "", fmt.Errorf("failed to decode callback response: %w", err)
	}
	if result.Status == "ERROR" {
		return "", fmt.Errorf("callback rejected request: %s", result.Reason)
	}

	pr = result.PR
	if pr == "" {
		pr = result.PaymentRequest
	}
	if pr == "" {
		return "", errors.New("callback returned no payment request")
	}
	return pr, nil
}

func (c *Client) get(ctx context.Context, target string) (body []byte, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body)
	}
	return body, nil
}
