package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ghostnseek/backend/internal/cluecard"
	"ghostnseek/backend/internal/genai"
	"ghostnseek/backend/internal/models"
)

type artworkRequest struct {
	OrderID    string   `json:"order_id" binding:"required"`
	Clues      []string `json:"clues" binding:"required"`
	ColorTheme string   `json:"color_theme"`
}

// GenerateArtwork produces the unlockable artwork for a clue card. The order
// must have been captured and verified before any image is generated.
func (h *Handler) GenerateArtwork(c *gin.Context) {
	if _, err := anonIDFromRequest(c); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req artworkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "order_id and clues are required"})
		return
	}

	order, err := h.Storage.GetPaymentOrder(req.OrderID)
	if err != nil || order.Status != "COMPLETED" {
		c.JSON(http.StatusPaymentRequired, gin.H{"error": "Payment has not been completed for this order"})
		return
	}

	imageURI, err := h.Artwork.Illustrate(c.Request.Context(), req.Clues, req.ColorTheme)
	if err != nil {
		if errors.Is(err, genai.ErrSafetyBlocked) {
			c.JSON(http.StatusOK, gin.H{"error": "These clues could not be illustrated, try rewording them"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Artwork generation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"image": imageURI})
}

type exportRequest struct {
	Clues      []models.Clue `json:"clues" binding:"required"`
	Theme      string        `json:"theme"`
	ArtworkURL string        `json:"artwork_url"`
}

// ExportCard renders the shareable image for a card and streams it back.
func (h *Handler) ExportCard(c *gin.Context) {
	if _, err := anonIDFromRequest(c); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "clues are required"})
		return
	}

	card := cluecard.Compose(req.Clues, req.Theme, req.ArtworkURL)
	data, contentType, err := h.Exporter.Export(c.Request.Context(), card)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Could not export the card, please try again"})
		return
	}

	c.Data(http.StatusOK, contentType, data)
}

// ShareQR renders a QR code PNG pointing at a share link.
func (h *Handler) ShareQR(c *gin.Context) {
	url := c.Query("url")
	if url == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
		return
	}

	data, err := cluecard.ShareQR(url)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render QR code"})
		return
	}

	c.Data(http.StatusOK, "image/png", data)
}
