package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"

	"ghostnseek/backend/internal/config"
	"ghostnseek/backend/internal/models"
)

type reportRequest struct {
	TargetID   string   `json:"target_id" binding:"required"`
	SessionID  string   `json:"session_id"`
	Category   string   `json:"category" binding:"required"`
	Violations []string `json:"violations"`
	Details    string   `json:"details"`
}

// FileReport accepts a report against a chat partner and runs the reputation
// and ban checks on the target.
func (h *Handler) FileReport(c *gin.Context) {
	anonID, err := anonIDFromRequest(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "target_id and category are required"})
		return
	}
	if _, ok := config.ReportWeights[req.Category]; !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown report category"})
		return
	}
	if req.TargetID == anonID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot report yourself"})
		return
	}

	rep := &models.Report{
		ReporterID: anonID,
		TargetID:   req.TargetID,
		SessionID:  req.SessionID,
		Category:   req.Category,
		Violations: pq.StringArray(req.Violations),
		Details:    req.Details,
	}

	if err := h.Reports.HandleReport(rep); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process report"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

type moderateRequest struct {
	// Message may be empty: the gateway answers "appropriate" for blank input
	// without an upstream call.
	Message string `json:"message"`
}

// ModerateMessage screens one message and returns the verdict. The WebSocket
// path runs the same gate; this endpoint serves client-side previews.
func (h *Handler) ModerateMessage(c *gin.Context) {
	if _, err := anonIDFromRequest(c); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req moderateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result := h.Moderation.Moderate(c.Request.Context(), req.Message)
	c.JSON(http.StatusOK, result)
}
