package gateway_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"citadel.sx/zapgate/gateway"
	issuermock "citadel.sx/zapgate/issuers/mock"
	"citadel.sx/zapgate/lnurl"
	notifymock "citadel.sx/zapgate/notify/mock"
	golnurl "github.com/fiatjaf/go-lnurl"
	"github.com/stretchr/testify/assert"
)

type rewriteTo struct {
	server *httptest.Server
}

func (r rewriteTo) RoundTrip(req *http.Request) (*http.Response, error) {
	target, _ := url.Parse(r.server.URL)
	req.URL.Scheme = target.Scheme
	req.URL.Host = target.Host
	return http.DefaultTransport.RoundTrip(req)
}

func lnurlController(server *httptest.Server, notifier *notifymock.Mock) gateway.Controller {
	return gateway.New(gateway.Config{
		Issuer:   issuermock.New(issuermock.Config{}),
		Notifier: notifier,
		Address:  "idioma@citadel.sx",
		Resolver: lnurl.NewClient(lnurl.ClientConfig{
			Client: &http.Client{Transport: rewriteTo{server: server}},
		}),
	})
}

func Test_DonateLnurl(t *testing.T) {
	t.Parallel()
	assertions := assert.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assertions.Equal("/.well-known/lnurlp/idioma", r.URL.Path)
		w.Write([]byte(`{"callback":"https://pay.citadel.sx/cb","minSendable":1000,"maxSendable":500000,"commentAllowed":64}`))
	}))
	defer server.Close()

	notifier := notifymock.New(nil)
	ctrl := lnurlController(server, notifier)

	donation, err := ctrl.DonateLnurl(context.Background(), gateway.DonationRequest{
		AmountSats: 21,
		MemoNote:   "thanks",
		Metadata:   map[string]string{"language": "es"},
	})
	assertions.Nil(err, "failed to build lnurl donation")
	assertions.True(strings.HasPrefix(donation.Lnurl, "lnurl1"))

	// The encoded string wraps the callback with amount and comment baked in.
	decoded, err := golnurl.LNURLDecode(donation.Lnurl)
	assertions.Nil(err, "reference decoder rejected the lnurl")
	decodedURL, err := url.Parse(decoded)
	assertions.Nil(err)
	assertions.Equal("https", decodedURL.Scheme)
	assertions.Equal("pay.citadel.sx", decodedURL.Host)
	assertions.Equal("21000", decodedURL.Query().Get("amount"))
	assertions.Equal("thanks donation:"+donation.Id.String(), decodedURL.Query().Get("comment"))

	// The payee's server issues the invoice, so correlation runs on the
	// memo key the wallet carried over as comment.
	ctrl.HandleNotification(context.Background(), gateway.PaymentNotification{
		Type: "receive",
		Memo: decodedURL.Query().Get("comment"),
	})
	receipts := notifier.Receipts()
	assertions.Len(receipts, 1)
	assertions.Equal(donation.Id, receipts[0].DonationId)
	assertions.Equal("es", receipts[0].Metadata["language"])
}

func Test_DonateLnurl_OutOfBounds(t *testing.T) {
	t.Parallel()
	assertions := assert.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"callback":"https://pay.citadel.sx/cb","minSendable":1000,"maxSendable":500000}`))
	}))
	defer server.Close()

	ctrl := lnurlController(server, notifymock.New(nil))

	_, err := ctrl.DonateLnurl(context.Background(), gateway.DonationRequest{AmountSats: 501})
	assertions.ErrorIs(err, lnurl.ErrAboveMaximum)

	_, err = ctrl.DonateLnurl(context.Background(), gateway.DonationRequest{AmountSats: -1})
	assertions.ErrorIs(err, gateway.ErrInvalidAmount)

	assertions.Zero(ctrl.Store().Len(), "nothing pending after rejections")
}

func Test_DonateLnurl_MalformedAddress(t *testing.T) {
	t.Parallel()
	assertions := assert.New(t)

	ctrl := gateway.New(gateway.Config{
		Issuer:   issuermock.New(issuermock.Config{}),
		Notifier: notifymock.New(nil),
		Address:  "missing-at-sign",
	})

	_, err := ctrl.DonateLnurl(context.Background(), gateway.DonationRequest{AmountSats: 21})
	assertions.ErrorIs(err, lnurl.ErrMalformedAddress)
}
