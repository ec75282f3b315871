package models

import "gorm.io/gorm"

// Message is a saved chat message in the PostgreSQL database. Messages are
// append-only and never edited; ordering is by CreatedAt as assigned server
// side. The embedded gorm.Model provides ID, CreatedAt, UpdatedAt, DeletedAt.
type Message struct {
	gorm.Model

	// SessionID is the identifier of the session the message belongs to.
	SessionID string `gorm:"type:uuid;not null;index:idx_session_msg"`
	// SenderID is the anonymous ID of the user who sent the message.
	SenderID string `gorm:"type:text;not null;index:idx_session_msg"`
	// Content is the displayed text. For flagged messages this is the
	// moderation placeholder, never the original text.
	Content string `gorm:"type:text;not null"`
	// Type indicates the kind of message (e.g., "text", "system_session_ended").
	Type string `gorm:"type:text;not null"`
	// Flagged marks messages the moderation gateway rejected.
	Flagged bool
}
