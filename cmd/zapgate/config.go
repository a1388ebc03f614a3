package main

import (
	"errors"
	"net/http"
	"time"

	"citadel.sx/zapgate/gateway"
	"citadel.sx/zapgate/issuers"
	"citadel.sx/zapgate/issuers/lnurlpay"
	"citadel.sx/zapgate/issuers/nodeapi"
	"citadel.sx/zapgate/lnurl"
	"citadel.sx/zapgate/notify"
	"github.com/gabstv/httpdigest"
)

// Yaml configuration reference
type (
	NodeApi struct {
		Url      string  `yaml:"url"`
		ApiKey   string  `yaml:"api-key,omitempty"`
		Username *string `yaml:"username,omitempty"`
		Password *string `yaml:"password,omitempty"`
	}
	Config struct {
		ListenAddress string `yaml:"listen-address"`
		// Lightning address of the payee, name@domain
		PayeeAddress string `yaml:"payee-address"`
		// Webhook receiving the receipt of each settled donation
		NotifyUrl      string        `yaml:"notify-url"`
		PendingTimeout time.Duration `yaml:"pending-timeout"`
		SweepInterval  time.Duration `yaml:"sweep-interval"`
		// Node API to create invoices directly. When absent, invoices are
		// negotiated over LNURL-pay against the payee address instead
		NodeApi *NodeApi `yaml:"node-api,omitempty"`
	}
)

func (c *Config) Compile() (ctrl gateway.Controller, err error) {
	resolver := lnurl.NewClient(lnurl.ClientConfig{})

	var issuer issuers.Issuer
	switch {
	case c.NodeApi != nil && c.NodeApi.Url != "":
		var httpClient = http.Client{Timeout: nodeapi.DefaultTimeout}
		if c.NodeApi.Username != nil && c.NodeApi.Password != nil {
			httpClient.Transport = httpdigest.New(*c.NodeApi.Username, *c.NodeApi.Password)
		}
		issuer = nodeapi.New(nodeapi.Config{
			Url:    c.NodeApi.Url,
			ApiKey: c.NodeApi.ApiKey,
			Client: &httpClient,
		})
	case c.PayeeAddress != "":
		issuer = lnurlpay.New(lnurlpay.Config{
			Address: c.PayeeAddress,
			Client:  resolver,
		})
	default:
		return ctrl, errors.New("either node-api or payee-address must be configured")
	}

	ctrl = gateway.New(gateway.Config{
		Issuer:   issuer,
		Notifier: notify.NewWebhook(notify.WebhookConfig{Url: c.NotifyUrl}),
		Resolver: resolver,
		Address:  c.PayeeAddress,
		Timeout:  c.PendingTimeout,
	})
	return ctrl, nil
}
