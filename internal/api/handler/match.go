package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ghostnseek/backend/internal/models"
)

const matchReplyTimeout = 3 * time.Second

// RequestMatch enqueues the caller for matchmaking. When an opposite party is
// already waiting the session starts immediately and its ID is returned;
// otherwise the caller stays queued and is notified over the WebSocket once a
// partner arrives.
func (h *Handler) RequestMatch(c *gin.Context) {
	anonID, err := anonIDFromRequest(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	banned, err := h.Storage.IsUserBanned(anonID)
	if err == nil && banned {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are temporarily banned"})
		return
	}

	req := models.SearchRequest{
		UserID:   anonID,
		ResultCh: make(chan string, 1),
	}

	select {
	case h.Hub.MatchRequestCh <- req:
	case <-time.After(matchReplyTimeout):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Matchmaking is busy, try again"})
		return
	}

	select {
	case sessionID := <-req.ResultCh:
		if sessionID == "" {
			c.JSON(http.StatusOK, gin.H{"status": "searching", "session_id": nil})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "matched", "session_id": sessionID})
	case <-time.After(matchReplyTimeout):
		c.JSON(http.StatusOK, gin.H{"status": "searching", "session_id": nil})
	}
}
