package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"purchase-service/services"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"
)

// StripeWebhook receives Stripe events (reconciliation path B, asynchronous).
// A bad signature is the only 400. Once the signature is verified the
// endpoint always acknowledges with 200 so Stripe does not retry forever,
// but only after processing has run, so a paid event is never dropped
// silently.
func (pc *PurchaseController) StripeWebhook(c *gin.Context) {
	event, err := pc.Stripe.ParseWebhook(c.Request)
	if err != nil {
		pc.Logger.Warn("Stripe webhook signature verification failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid webhook"})
		return
	}

	pc.Logger.Info("Processing Stripe webhook",
		zap.String("event_type", string(event.Type)),
		zap.String("event_id", event.ID),
	)

	switch event.Type {
	case "checkout.session.completed":
		pc.handleCheckoutCompleted(c, event)
	default:
		pc.Logger.Info("Unhandled webhook event type", zap.String("event_type", string(event.Type)))
	}

	c.JSON(http.StatusOK, gin.H{"status": "received"})
}

func (pc *PurchaseController) handleCheckoutCompleted(c *gin.Context, event stripe.Event) {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		pc.Logger.Error("Failed to unmarshal checkout session", zap.Error(err))
		return
	}

	_, err := pc.Service.CompleteCheckoutSession(c.Request.Context(), sess.ID)
	switch {
	case err == nil:
		pc.Logger.Info("Webhook purchase recorded", zap.String("session_id", sess.ID))
	case errors.Is(err, services.ErrAlreadyPurchased):
		pc.Logger.Info("Skipping duplicate checkout webhook", zap.String("session_id", sess.ID))
	case errors.Is(err, services.ErrPaymentIncomplete):
		pc.Logger.Warn("Checkout webhook for unpaid session", zap.String("session_id", sess.ID))
	default:
		pc.Logger.Error("Failed to process checkout webhook",
			zap.String("session_id", sess.ID),
			zap.Error(err),
		)
	}
}
