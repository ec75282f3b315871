package models

import "time"

// Websocket message types.
const (
	MsgTypeText         = "text"
	MsgTypeSearch       = "search"
	MsgTypeEndChat      = "end_chat"
	MsgTypeMatchFound   = "system_match_found"
	MsgTypeSessionEnded = "system_session_ended"
)

// ChatMessage is the wire format exchanged over the websocket and the redis
// pub/sub channel. Persisted messages carry the DB-assigned ID and timestamp.
type ChatMessage struct {
	ID        uint      `json:"id,omitempty"`
	SessionID string    `json:"session_id"`
	SenderID  string    `json:"sender_id"`
	Content   string    `json:"content"`
	Type      string    `json:"type"`
	Flagged   bool      `json:"flagged,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// SearchRequest asks the matcher to pair a user. ResultCh, when non-nil,
// receives the new session ID ("" when the user stays queued).
type SearchRequest struct {
	UserID   string
	ResultCh chan string
}
