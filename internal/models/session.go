package models

import "time"

// ChatSession represents a 1-on-1 timed chat between two anonymous users.
// It holds the participants, the active flag and the server-side deadline.
type ChatSession struct {
	// SessionID is the unique identifier for the session (UUID).
	SessionID string `gorm:"primaryKey"`
	// User1ID is the anonymous ID of the first participant.
	User1ID string
	// User2ID is the anonymous ID of the second participant.
	User2ID string
	// IsActive indicates whether the session is still running.
	IsActive bool
	// StartedAt is the timestamp when the session was created.
	StartedAt time.Time
	// ExpiresAt is the authoritative deadline. Writes past it are rejected
	// and the sweeper closes the session.
	ExpiresAt time.Time
	// EndedAt is the timestamp when the session was closed.
	EndedAt time.Time
}

// HasParticipant reports whether the given anonymous ID belongs to this session.
func (s *ChatSession) HasParticipant(anonID string) bool {
	return s.User1ID == anonID || s.User2ID == anonID
}

// PartnerOf returns the other participant's ID, or "" if anonID is not a member.
func (s *ChatSession) PartnerOf(anonID string) string {
	switch anonID {
	case s.User1ID:
		return s.User2ID
	case s.User2ID:
		return s.User1ID
	}
	return ""
}

// Expired reports whether the session deadline has passed at the given instant.
func (s *ChatSession) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
