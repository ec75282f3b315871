package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ghostnseek/backend/internal/genai"
	"ghostnseek/backend/internal/models"
)

type cluesFromChatRequest struct {
	SessionID string `json:"session_id" binding:"required"`
}

// CluesFromChat extracts clue suggestions for both participants from the
// session transcript, in the requesting user's perspective.
func (h *Handler) CluesFromChat(c *gin.Context) {
	anonID, err := anonIDFromRequest(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req cluesFromChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id is required"})
		return
	}

	session, err := h.Storage.GetSessionByID(req.SessionID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	if !session.HasParticipant(anonID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not a participant of this session"})
		return
	}

	transcript, err := h.Storage.GetTranscript(req.SessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load transcript"})
		return
	}

	history := make([]models.TranscriptMessage, 0, len(transcript))
	for _, msg := range transcript {
		// Flagged messages carry only the placeholder; nothing to extract.
		if msg.Flagged || msg.Type != models.MsgTypeText {
			continue
		}
		sender := "them"
		if msg.SenderID == anonID {
			sender = "me"
		}
		history = append(history, models.TranscriptMessage{Sender: sender, Text: msg.Content})
	}

	result, err := h.Clues.GenerateFromChat(c.Request.Context(), history)
	if err != nil {
		if errors.Is(err, genai.ErrNoSuggestions) {
			c.JSON(http.StatusOK, gin.H{"error": "Could not extract any clues from this chat"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Clue generation failed"})
		return
	}

	c.JSON(http.StatusOK, result)
}

type topicSuggestionsRequest struct {
	Topic string `json:"topic" binding:"required"`
}

// ClueSuggestions suggests clues for a free-text topic.
func (h *Handler) ClueSuggestions(c *gin.Context) {
	if _, err := anonIDFromRequest(c); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req topicSuggestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "topic is required"})
		return
	}

	currentDate := time.Now().Format("2006-01-02")
	clues, err := h.Clues.GenerateForTopic(c.Request.Context(), req.Topic, currentDate)
	if err != nil {
		if errors.Is(err, genai.ErrTopicTooShort) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Topic is too short"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"error": "Could not generate suggestions for this topic"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"suggestions": clues})
}

type emojiDNARequest struct {
	Clue string `json:"clue" binding:"required"`
}

// EmojiDNA regenerates the emoji tag for a single clue phrase.
func (h *Handler) EmojiDNA(c *gin.Context) {
	if _, err := anonIDFromRequest(c); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req emojiDNARequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "clue is required"})
		return
	}

	emojis, err := h.Clues.EmojiDNA(c.Request.Context(), req.Clue)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"error": "Could not generate emojis for this clue"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"emojis": emojis})
}

type analyzeRequest struct {
	Content string `json:"content" binding:"required"`
}

// AnalyzeClues checks clue card content for details that could deanonymize
// its author.
func (h *Handler) AnalyzeClues(c *gin.Context) {
	if _, err := anonIDFromRequest(c); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content is required"})
		return
	}

	analysis, err := h.Clues.AnalyzeIdentifying(c.Request.Context(), req.Content)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Analysis failed"})
		return
	}

	c.JSON(http.StatusOK, analysis)
}
