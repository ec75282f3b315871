package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"ghostnseek/backend/internal/storage"
)

type deleteChatRequest struct {
	SessionID string `json:"session_id" binding:"required"`
}

// DeleteChat erases a session and its messages on a participant's request.
// When the immediate delete fails a purge task is scheduled so the data is
// still erased shortly after.
func (h *Handler) DeleteChat(c *gin.Context) {
	anonID, err := anonIDFromRequest(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req deleteChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id is required"})
		return
	}

	session, err := h.Storage.GetSessionByID(req.SessionID)
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			// Already gone counts as deleted.
			c.JSON(http.StatusOK, gin.H{"success": true})
			return
		}
		// Anything else (e.g. a DB outage) is a failed delete the client
		// should retry.
		log.Printf("ERROR: could not load session %s for delete: %v", req.SessionID, err)
		c.JSON(http.StatusOK, gin.H{"success": false})
		return
	}
	if !session.HasParticipant(anonID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not a participant of this session"})
		return
	}

	if err := h.Storage.DeleteSessionData(req.SessionID); err != nil {
		log.Printf("ERROR: immediate delete failed for session %s: %v", req.SessionID, err)
		if err := h.Purges.SchedulePurge(req.SessionID, 0); err != nil {
			log.Printf("ERROR: failed to schedule purge retry for session %s: %v", req.SessionID, err)
		}
		c.JSON(http.StatusOK, gin.H{"success": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
