package models

import "time"

// WaitingEntry is a queued user awaiting pairing. An entry is consumed by at
// most one ChatSession: the matchmaking transaction deletes both source
// entries together with the session insert.
type WaitingEntry struct {
	ID uint `gorm:"primaryKey"`
	// UserID is the anonymous ID of the queued user. One entry per user.
	UserID string `gorm:"uniqueIndex;not null"`
	// EnqueuedAt is the ordering key, oldest-first.
	EnqueuedAt time.Time `gorm:"index;not null"`
}
