package handlers

import (
	"backend/models"
	"backend/services"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// GetShippingQuote resolves delivery options and pricing for a cart.
// Public endpoint: checkout calls it without a session.
// @Summary Get shipping quote
// @Description Resolve zone, chargeable weight, cost and eligible delivery options for a cart
// @Tags Quotes
// @Accept json
// @Produce json
// @Param request body models.QuoteRequest true "Quote request"
// @Success 200 {object} models.QuoteResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/shipping/quote [post]
func GetShippingQuote() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.QuoteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		engine := services.QuoteEngine()
		if engine == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Quote engine not initialized"})
			return
		}

		result, err := engine.Quote(c.Request.Context(), req, time.Now())
		if err != nil {
			if services.IsValidationError(err) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve quote", "details": err.Error()})
			return
		}

		message := "Quote resolved"
		if !result.Deliverable {
			message = "Not deliverable"
		}

		// Configuration gaps are a valid business outcome, not an HTTP error
		c.JSON(http.StatusOK, models.QuoteResponse{
			Success: true,
			Message: message,
			Data:    &result,
		})
	}
}
