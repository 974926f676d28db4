package controllers

import (
	"errors"
	"net/http"

	"purchase-service/middleware"
	"purchase-service/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PurchaseController struct {
	Service services.PurchaseService
	Stripe  services.StripeClient
	Logger  *zap.Logger
}

// CreateCheckoutSession creates a Stripe Checkout session for a subject
// bundle. Amounts in the response are integer minor units.
func (pc *PurchaseController) CreateCheckoutSession(c *gin.Context) {
	var req struct {
		SubjectID string `json:"subjectId" binding:"required"`
		ScholarID string `json:"scholarId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Subject ID and Scholar ID are required"})
		return
	}

	buyerID, subjectID, scholarID, ok := pc.parseIDs(c, req.SubjectID, req.ScholarID)
	if !ok {
		return
	}

	result, err := pc.Service.CreateCheckoutSession(c.Request.Context(), buyerID, subjectID, scholarID)
	if err != nil {
		pc.respondServiceError(c, err, "Failed to create checkout session")
		return
	}

	c.JSON(http.StatusOK, result)
}

// CheckoutSuccess finalizes a paid checkout session reported by the client
// after the Stripe redirect (reconciliation path B, client-triggered).
func (pc *PurchaseController) CheckoutSuccess(c *gin.Context) {
	var req struct {
		SessionID string `json:"sessionId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Session ID is required"})
		return
	}

	_, err := pc.Service.CompleteCheckoutSession(c.Request.Context(), req.SessionID)
	if err != nil {
		if errors.Is(err, services.ErrAlreadyPurchased) {
			c.JSON(http.StatusOK, gin.H{"success": true, "message": "Purchase already recorded"})
			return
		}
		if errors.Is(err, services.ErrPaymentIncomplete) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Payment not completed"})
			return
		}
		pc.respondServiceError(c, err, "Failed to process purchase")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Purchase successful! You now have access to all videos in this course.",
	})
}

// CreatePaymentIntent is the embedded card form variant of checkout.
func (pc *PurchaseController) CreatePaymentIntent(c *gin.Context) {
	var req struct {
		SubjectID string `json:"subjectId" binding:"required"`
		ScholarID string `json:"scholarId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Subject ID and Scholar ID are required"})
		return
	}

	buyerID, subjectID, scholarID, ok := pc.parseIDs(c, req.SubjectID, req.ScholarID)
	if !ok {
		return
	}

	result, err := pc.Service.CreatePaymentIntent(c.Request.Context(), buyerID, subjectID, scholarID)
	if err != nil {
		pc.respondServiceError(c, err, "Failed to create payment")
		return
	}

	c.JSON(http.StatusOK, result)
}

// ConfirmPurchase records a purchase reported directly by the client
// (reconciliation path A).
func (pc *PurchaseController) ConfirmPurchase(c *gin.Context) {
	var req struct {
		SubjectID     string `json:"subjectId" binding:"required"`
		ScholarID     string `json:"scholarId" binding:"required"`
		TransactionID string `json:"transactionId" binding:"required"`
		Amount        *int64 `json:"amount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	buyerID, subjectID, scholarID, ok := pc.parseIDs(c, req.SubjectID, req.ScholarID)
	if !ok {
		return
	}

	_, err := pc.Service.ConfirmPurchase(c.Request.Context(), buyerID, subjectID, scholarID, req.TransactionID, req.Amount)
	if err != nil {
		pc.respondServiceError(c, err, "Failed to confirm purchase")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Purchase successful! You now have access to all videos in this course.",
	})
}

// CheckPurchase reports whether the caller already owns a subject bundle.
func (pc *PurchaseController) CheckPurchase(c *gin.Context) {
	subjectIDStr := c.Query("subjectId")
	scholarIDStr := c.Query("scholarId")
	if subjectIDStr == "" || scholarIDStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Subject ID and Scholar ID are required"})
		return
	}

	buyerID, subjectID, scholarID, ok := pc.parseIDs(c, subjectIDStr, scholarIDStr)
	if !ok {
		return
	}

	purchase, hasPurchased, err := pc.Service.HasPurchased(c.Request.Context(), buyerID, subjectID, scholarID)
	if err != nil {
		pc.respondServiceError(c, err, "Failed to check purchase")
		return
	}

	c.JSON(http.StatusOK, gin.H{"hasPurchased": hasPurchased, "purchase": purchase})
}

// MyPurchases lists the caller's recorded purchases.
func (pc *PurchaseController) MyPurchases(c *gin.Context) {
	buyerID, ok := pc.buyerID(c)
	if !ok {
		return
	}

	purchases, err := pc.Service.ListPurchases(c.Request.Context(), buyerID)
	if err != nil {
		pc.respondServiceError(c, err, "Failed to fetch purchases")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Subject purchases fetched successfully",
		"purchases": purchases,
	})
}

// buyerID extracts and parses the authenticated caller's id, responding
// itself when the id is missing or malformed.
func (pc *PurchaseController) buyerID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return uuid.Nil, false
	}
	return id, true
}

func (pc *PurchaseController) parseIDs(c *gin.Context, subjectIDStr, scholarIDStr string) (buyerID, subjectID, scholarID uuid.UUID, ok bool) {
	buyerID, ok = pc.buyerID(c)
	if !ok {
		return
	}

	var err error
	if subjectID, err = uuid.Parse(subjectIDStr); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid subject ID"})
		return buyerID, uuid.Nil, uuid.Nil, false
	}
	if scholarID, err = uuid.Parse(scholarIDStr); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid scholar ID"})
		return buyerID, subjectID, uuid.Nil, false
	}
	return buyerID, subjectID, scholarID, true
}

// respondServiceError maps service errors onto HTTP responses, logging
// anything unexpected and returning a generic failure.
func (pc *PurchaseController) respondServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrAlreadyPurchased):
		c.JSON(http.StatusBadRequest, gin.H{"message": "You have already purchased this course bundle"})
	case errors.Is(err, services.ErrPaymentIncomplete):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Payment not completed"})
	case errors.Is(err, services.ErrScholarNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Scholar not found"})
	case errors.Is(err, services.ErrPaymentProvider):
		pc.Logger.Error(fallback, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": fallback})
	default:
		pc.Logger.Error(fallback, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": fallback})
	}
}
