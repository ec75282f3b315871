package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ghostnseek/backend/internal/payment"
)

// CreateOrder opens a checkout order for the artwork unlock. The price is
// fixed server side.
func (h *Handler) CreateOrder(c *gin.Context) {
	if _, err := anonIDFromRequest(c); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	orderID, err := h.Payment.CreateOrder(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to create order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"order_id": orderID})
}

type captureOrderRequest struct {
	OrderID string `json:"order_id" binding:"required"`
}

// CaptureOrder captures an approved order and verifies it completed.
func (h *Handler) CaptureOrder(c *gin.Context) {
	if _, err := anonIDFromRequest(c); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req captureOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "order_id is required"})
		return
	}

	if err := h.Payment.CaptureOrder(c.Request.Context(), req.OrderID); err != nil {
		if errors.Is(err, payment.ErrOrderNotCompleted) {
			c.JSON(http.StatusPaymentRequired, gin.H{"error": "Payment was not completed"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to capture order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
