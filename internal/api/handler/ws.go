package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"ghostnseek/backend/internal/chathub"
	"ghostnseek/backend/internal/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allows connections from any origin. Tighten in production.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket upgrades the HTTP connection to a WebSocket after
// authenticating the bearer token. Tokens arrive via the Authorization
// header or, for browser clients that cannot set headers on the upgrade
// request, via the "token" query parameter.
func (h *Handler) ServeWebSocket(c *gin.Context) {
	anonID, err := anonIDFromRequest(c)
	if err != nil {
		if token := c.Query("token"); token != "" {
			anonID, err = validateAndGetAnonID(token)
		}
	}
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token or expired"})
		return
	}

	banned, err := h.Storage.IsUserBanned(anonID)
	if err == nil && banned {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You are temporarily banned"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to upgrade connection"})
		return
	}

	client := &chathub.WebSocketClient{
		Hub:    h.Hub,
		UserID: anonID,
		Conn:   conn,
		Send:   make(chan models.ChatMessage, 256),
	}

	// A reconnecting participant resumes their active session.
	if sessionID, err := h.Storage.GetActiveSessionIDForUser(anonID); err == nil && sessionID != "" {
		client.SetSessionID(sessionID)
	}

	h.Hub.RegisterCh <- client

	client.Run()
}
