package routes

import (
	"purchase-service/controllers"
	"purchase-service/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, pc *controllers.PurchaseController, cc *controllers.ConnectController, jwtSecret string) {
	purchases := r.Group("/purchase")
	purchases.Use(middleware.AuthMiddleware(jwtSecret))
	purchases.POST("/create-checkout-session", pc.CreateCheckoutSession)
	purchases.POST("/checkout-success", pc.CheckoutSuccess)
	purchases.POST("/subject/create-payment-intent", pc.CreatePaymentIntent)
	purchases.POST("/subject/confirm", pc.ConfirmPurchase)
	purchases.GET("/subject/check", pc.CheckPurchase)
	purchases.GET("/subject/my-purchases", pc.MyPurchases)

	connect := r.Group("/connect")
	connect.Use(middleware.AuthMiddleware(jwtSecret))
	connect.GET("/account-status", cc.AccountStatus)

	// Stripe webhook (no auth; signature-verified instead)
	r.POST("/purchase/webhook", pc.StripeWebhook)
}
