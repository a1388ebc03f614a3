package router

import (
	"log"
	"net/http"
	"time"

	"citadel.sx/zapgate/gateway"
	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"
)

// Manages the entire HTTP setup of the donation gateway
type Router struct {
	// Interval between pending-table sweeps. Zero disables the sweeper;
	// expiry still holds since reads enforce it themselves
	SweepInterval time.Duration
	// Gateway controller
	Gateway *gateway.Controller
	// Base Gin Group to use for routing
	Base gin.IRoutes
}

const (
	DonationInvoicePath = "/donation-invoice"
	DonationLnurlPath   = "/donation-lnurl"
	PaymentWebhookPath  = "/payment-webhook"
	DonationQrPath      = "/donation-qr"
)

func (r *Router) createInvoice(ctx *gin.Context) {
	var req DonationRequest
	err := ctx.BindJSON(&req)
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, Error{Message: err.Error()})
		return
	}

	donation, err := r.Gateway.Donate(ctx, RequestToGateway(&req))
	if err != nil {
		ctx.AbortWithStatusJSON(StatusFor(err), Error{Message: err.Error()})
		return
	}

	out := DonationFromGateway(&donation)
	ctx.JSON(http.StatusOK, &out)
}

func (r *Router) createLnurl(ctx *gin.Context) {
	var req DonationRequest
	err := ctx.BindJSON(&req)
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, Error{Message: err.Error()})
		return
	}

	donation, err := r.Gateway.DonateLnurl(ctx, RequestToGateway(&req))
	if err != nil {
		ctx.AbortWithStatusJSON(StatusFor(err), Error{Message: err.Error()})
		return
	}

	out := LnurlDonationFromGateway(&donation)
	ctx.JSON(http.StatusOK, &out)
}

// paymentWebhook always acknowledges: providers deliver at-least-once and
// retry any failure forever, so correlation outcomes never surface here.
func (r *Router) paymentWebhook(ctx *gin.Context) {
	var event PaymentEvent
	err := ctx.ShouldBindJSON(&event)
	if err != nil {
		log.Println("ERROR|WEBHOOK|DECODE", err)
		ctx.Status(http.StatusOK)
		return
	}

	r.Gateway.HandleNotification(ctx, EventToGateway(&event))
	ctx.Status(http.StatusOK)
}

func (r *Router) donationQr(ctx *gin.Context) {
	data := ctx.Query("data")
	if data == "" {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, Error{Message: "missing data parameter"})
		return
	}

	png, err := qrcode.Encode(data, qrcode.Medium, 256)
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, Error{Message: err.Error()})
		return
	}
	ctx.Data(http.StatusOK, "image/png", png)
}

// Register routes in the Gin engine
func (r *Router) Register() {
	r.Base.POST(DonationInvoicePath, r.createInvoice)
	r.Base.POST(DonationLnurlPath, r.createLnurl)
	r.Base.POST(PaymentWebhookPath, r.paymentWebhook)
	r.Base.GET(DonationQrPath, r.donationQr)

	if r.SweepInterval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(r.SweepInterval)
		defer ticker.Stop()

		for range ticker.C {
			removed := r.Gateway.Store().Sweep()
			if removed > 0 {
				log.Println("INFO|SWEPT|PENDING", removed)
			}
		}
	}()
}
