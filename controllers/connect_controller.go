package controllers

import (
	"errors"
	"net/http"

	"purchase-service/middleware"
	"purchase-service/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ConnectController exposes a read-only view of the payout account registry.
// Onboarding mutations live in the Connect service.
type ConnectController struct {
	Accounts repository.PayoutAccountRepository
	Logger   *zap.Logger
}

// AccountStatus reports the caller's connected-account state.
func (cc *ConnectController) AccountStatus(c *gin.Context) {
	scholarID, err := uuid.Parse(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	account, err := cc.Accounts.GetByScholarID(c.Request.Context(), scholarID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusOK, gin.H{"hasAccount": false, "onboardingComplete": false})
			return
		}
		cc.Logger.Error("Failed to fetch payout account", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch account status"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"hasAccount":         true,
		"stripeAccountId":    account.StripeAccountID,
		"onboardingComplete": account.OnboardingComplete,
	})
}
